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

// Package policy guards the pipeline against patching namespaces that hold
// cluster infrastructure. The filter runs before target matching, so
// protected resources never reach the transformers at all.
package policy

import (
	"sort"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// DefaultProtectedNamespaces are the namespaces no patch request may touch
// unless the operator overrides the policy.
var DefaultProtectedNamespaces = []string{
	"kube-system",
	"kube-public",
	"kube-node-lease",
}

// Policy filters catalogs and rejects selectors that target protected
// namespaces.
type Policy struct {
	protected map[string]struct{}
}

// New creates a policy protecting the given namespaces. With no arguments
// the default protected set applies.
func New(namespaces ...string) *Policy {
	if len(namespaces) == 0 {
		namespaces = DefaultProtectedNamespaces
	}
	p := &Policy{protected: make(map[string]struct{}, len(namespaces))}
	for _, ns := range namespaces {
		p.protected[ns] = struct{}{}
	}
	return p
}

// Protected reports whether a namespace is off limits.
func (p *Policy) Protected(namespace string) bool {
	_, ok := p.protected[namespace]
	return ok
}

// ProtectedNamespaces returns the protected set, sorted.
func (p *Policy) ProtectedNamespaces() []string {
	out := make([]string, 0, len(p.protected))
	for ns := range p.protected {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// CheckSelector rejects a selector that explicitly names a protected
// namespace. Selectors with no namespace pass; the catalog filter removes
// protected resources from their scope instead.
func (p *Policy) CheckSelector(sel intent.Selector) error {
	if sel.Namespace == "" || !p.Protected(sel.Namespace) {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		"namespace "+sel.Namespace+" is protected and cannot be patched",
		map[string]any{"namespace": sel.Namespace, "protected": p.ProtectedNamespaces()})
}

// FilterCatalog returns the catalog without resources in protected
// namespaces. Order is preserved; the input is not mutated.
func (p *Policy) FilterCatalog(catalog []*manifest.Resource) []*manifest.Resource {
	out := make([]*manifest.Resource, 0, len(catalog))
	for _, r := range catalog {
		if p.Protected(r.Namespace) {
			continue
		}
		out = append(out, r)
	}
	return out
}
