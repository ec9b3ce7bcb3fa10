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

package transform

import (
	"sort"
	"strings"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// Transformer turns one structured intent and one target resource into a
// patch fragment. Implementations must be pure: no shared mutable state, no
// mutation of the target's manifest.
type Transformer interface {
	Transform(in intent.Intent, target *manifest.Resource) (*Fragment, error)
}

// Registry maps resource kinds to their transformers. Lookups are
// case-insensitive to match selector semantics.
type Registry struct {
	transformers map[string]Transformer
}

// NewRegistry creates a registry with the built-in transformers registered:
// workload kinds (Deployment, StatefulSet, DaemonSet), Pod, Service, and
// ConfigMap (metadata-only).
func NewRegistry() *Registry {
	r := &Registry{transformers: map[string]Transformer{}}

	workload := &WorkloadTransformer{}
	r.Register("Deployment", workload)
	r.Register("StatefulSet", workload)
	r.Register("DaemonSet", workload)
	r.Register("Pod", &PodTransformer{})
	r.Register("Service", &ServiceTransformer{})
	r.Register("ConfigMap", &GenericTransformer{})

	return r
}

// Register adds or replaces the transformer for a kind.
func (r *Registry) Register(kind string, t Transformer) {
	r.transformers[strings.ToLower(kind)] = t
}

// Kinds returns the registered kinds in sorted order, for help text and
// error messages.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.transformers))
	for k := range r.transformers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Transform dispatches to the transformer registered for the target's kind.
func (r *Registry) Transform(in intent.Intent, target *manifest.Resource) (*Fragment, error) {
	t, ok := r.transformers[strings.ToLower(target.Kind)]
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeUnsupportedKind,
			"no transformer registered for kind "+target.Kind,
			map[string]any{"kind": target.Kind, "supported": r.Kinds()})
	}
	return t.Transform(in, target)
}

// unsupportedAction builds the standard failure for an action/field the
// kind's transformer does not recognize.
func unsupportedAction(in intent.Intent, target *manifest.Resource) error {
	return errors.NewWithContext(errors.ErrCodeUnsupportedAction,
		"transformer for kind "+target.Kind+" does not support field "+in.Field,
		map[string]any{
			"kind":   target.Kind,
			"action": string(in.Action),
			"field":  in.Field,
			"target": target.Ref().String(),
		})
}
