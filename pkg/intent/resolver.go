// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/NVIDIA/patchform/pkg/errors"
)

// Parser converts one free-form request into structured intents, one per
// clause, in clause order. Implementations do not validate or stamp sequence
// numbers; that is owned by the Resolver.
type Parser interface {
	Parse(ctx context.Context, request string) ([]Intent, error)
}

// Resolver resolves natural-language requests into ordered, validated intents.
type Resolver struct {
	parser Parser
}

// NewResolver creates a Resolver backed by the given parser.
func NewResolver(parser Parser) *Resolver {
	return &Resolver{parser: parser}
}

// Resolve parses the request and validates every resulting intent.
//
// A malformed intent among several valid ones fails the entire request: a
// partially-applied multi-action request is worse than none. On success the
// returned intents carry sequence numbers matching their clause order.
func (r *Resolver) Resolve(ctx context.Context, request string) ([]Intent, error) {
	if strings.TrimSpace(request) == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "empty request")
	}

	intents, err := r.parser.Parse(ctx, request)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIntentParse, "failed to parse request", err)
	}
	if len(intents) == 0 {
		return nil, errors.Newf(errors.ErrCodeIntentParse, "request %q produced no intents", request)
	}

	for i := range intents {
		if err := intents[i].Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIntentParse,
				"invalid intent, rejecting entire request", err)
		}
		intents[i].Seq = i
	}

	slog.Debug("request resolved", "clauses", len(intents))
	return intents, nil
}
