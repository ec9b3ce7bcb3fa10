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

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
	"github.com/NVIDIA/patchform/pkg/match"
	"github.com/NVIDIA/patchform/pkg/merge"
	"github.com/NVIDIA/patchform/pkg/policy"
	"github.com/NVIDIA/patchform/pkg/scanner"
	"github.com/NVIDIA/patchform/pkg/transform"
)

// transformParallelism caps concurrent fragment generation per request.
const transformParallelism = 8

// WarningZeroTargets marks an intent whose selector matched no resources.
// This is an informational outcome, not a failure.
const WarningZeroTargets = "ZERO_TARGETS"

// Warning is a recoverable condition surfaced alongside a successful
// result.
type Warning struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Selector intent.Selector `json:"selector"`
}

// Result is the outcome of one patch request: either a complete patch set
// plus warnings, or nothing (the pipeline never returns partial patch
// sets).
type Result struct {
	RequestID string                     `json:"requestId"`
	Intents   []intent.Intent            `json:"intents"`
	Patches   []*merge.ConsolidatedPatch `json:"patches"`
	Warnings  []Warning                  `json:"warnings,omitempty"`

	catalog map[manifest.Ref]*manifest.Resource
}

// Resource returns the discovered manifest for a patched target, for diff
// rendering against the state the patches were generated from.
func (r *Result) Resource(ref manifest.Ref) *manifest.Resource {
	return r.catalog[ref]
}

// Pipeline wires the request stages together.
type Pipeline struct {
	resolver *intent.Resolver
	scanner  scanner.Scanner
	policy   *policy.Policy
	registry *transform.Registry
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParser overrides the default heuristic request parser.
func WithParser(parser intent.Parser) Option {
	return func(p *Pipeline) {
		p.resolver = intent.NewResolver(parser)
	}
}

// WithPolicy overrides the default protected-namespace policy.
func WithPolicy(pol *policy.Policy) Option {
	return func(p *Pipeline) {
		p.policy = pol
	}
}

// WithRegistry overrides the default transformer registry.
func WithRegistry(reg *transform.Registry) Option {
	return func(p *Pipeline) {
		p.registry = reg
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a pipeline over the given resource scanner. By default
// requests are parsed heuristically, the standard protected namespaces
// apply, and the built-in transformers are registered.
func New(s scanner.Scanner, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: intent.NewResolver(intent.NewHeuristicParser()),
		scanner:  s,
		policy:   policy.New(),
		registry: transform.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one request end to end and returns the consolidated patch
// set. Fatal errors abort the whole request before any patch is returned;
// selectors that match nothing produce warnings, not errors.
func (p *Pipeline) Run(ctx context.Context, request string) (*Result, error) {
	start := time.Now()
	res, err := p.run(ctx, request)
	requestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	requestsTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, request string) (*Result, error) {
	requestID := uuid.NewString()
	logger := p.logger.With("request_id", requestID)

	intents, err := p.resolver.Resolve(ctx, request)
	if err != nil {
		return nil, err
	}
	logger.Debug("request resolved", "intents", len(intents))

	for _, in := range intents {
		if err := p.policy.CheckSelector(in.Selector); err != nil {
			return nil, err
		}
	}

	catalog, index, err := p.discover(ctx, intents)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog discovered", "resources", len(catalog))

	type pair struct {
		in     intent.Intent
		target *manifest.Resource
	}
	var (
		pairs    []pair
		warnings []Warning
	)
	for _, in := range intents {
		targets := match.Targets(in.Selector, catalog)
		if len(targets) == 0 {
			zeroTargetWarnings.Inc()
			warnings = append(warnings, Warning{
				Code:     WarningZeroTargets,
				Message:  "no resources match " + in.Selector.String(),
				Selector: in.Selector,
			})
			logger.Info("intent matched no resources", "selector", in.Selector.String())
			continue
		}
		for _, t := range targets {
			pairs = append(pairs, pair{in: in, target: t})
		}
	}

	// Fragment generation is parallel; each fragment lands in its own slot
	// and carries its intent's sequence number, so consolidation below is
	// independent of completion order.
	fragments := make([]*transform.Fragment, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transformParallelism)
	for i, pr := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := p.registry.Transform(pr.in, pr.target)
			if err != nil {
				return err
			}
			fragments[i] = f
			fragmentsTotal.WithLabelValues(pr.target.Kind).Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	patches, err := merge.Merge(fragments)
	if err != nil {
		return nil, err
	}
	patchesTotal.Add(float64(len(patches)))
	logger.Info("request processed",
		"intents", len(intents),
		"fragments", len(fragments),
		"patches", len(patches),
		"warnings", len(warnings))

	return &Result{
		RequestID: requestID,
		Intents:   intents,
		Patches:   patches,
		Warnings:  warnings,
		catalog:   index,
	}, nil
}

// discover lists the resources the intents' selectors can reach, one scan
// per distinct kind and namespace, deduplicated by ref and filtered through
// the namespace policy.
func (p *Pipeline) discover(ctx context.Context, intents []intent.Intent) ([]*manifest.Resource, map[manifest.Ref]*manifest.Resource, error) {
	type scope struct{ kind, namespace string }
	seenScopes := map[scope]struct{}{}

	var catalog []*manifest.Resource
	index := map[manifest.Ref]*manifest.Resource{}
	for _, in := range intents {
		sc := scope{kind: in.Selector.Kind, namespace: in.Selector.Namespace}
		if _, ok := seenScopes[sc]; ok {
			continue
		}
		seenScopes[sc] = struct{}{}

		listed, err := p.scanner.List(ctx, sc.kind, sc.namespace)
		if err != nil {
			return nil, nil, err
		}
		for _, r := range p.policy.FilterCatalog(listed) {
			if _, ok := index[r.Ref()]; ok {
				continue
			}
			index[r.Ref()] = r
			catalog = append(catalog, r)
		}
	}
	return catalog, index, nil
}
