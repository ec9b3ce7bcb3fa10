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

package manifest

import (
	"fmt"
	"strings"
)

// Ref identifies a concrete resource instance. It is the grouping key for
// patch fragments and the basis for deterministic overlay file names.
type Ref struct {
	Kind      string `json:"kind" yaml:"kind"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string `json:"name" yaml:"name"`
}

// String returns the canonical "Kind/namespace/name" form used in logs and
// warnings.
func (r Ref) String() string {
	ns := r.Namespace
	if ns == "" {
		ns = "default"
	}
	return fmt.Sprintf("%s/%s/%s", r.Kind, ns, r.Name)
}

// Less orders refs by kind, then namespace, then name. Used to sort patch
// sets before emitting so output is stable regardless of map iteration order.
func (r Ref) Less(other Ref) bool {
	if r.Kind != other.Kind {
		return r.Kind < other.Kind
	}
	if r.Namespace != other.Namespace {
		return r.Namespace < other.Namespace
	}
	return r.Name < other.Name
}

// Resource is a concrete resource identity plus its current manifest snapshot.
// The manifest is owned by the scanner that discovered it and is treated as
// read-only by the rest of the pipeline.
type Resource struct {
	Kind       string         `json:"kind" yaml:"kind"`
	APIVersion string         `json:"apiVersion" yaml:"apiVersion"`
	Namespace  string         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name       string         `json:"name" yaml:"name"`
	Manifest   map[string]any `json:"manifest" yaml:"manifest"`
}

// FromManifest builds a Resource from a decoded manifest tree.
// Returns an error when kind or metadata.name are missing, since a resource
// without an identity can never be targeted by a patch.
func FromManifest(tree map[string]any) (*Resource, error) {
	tree = NormalizeMap(tree)

	kind, _ := tree["kind"].(string)
	if kind == "" {
		return nil, fmt.Errorf("manifest has no kind")
	}

	name := GetString(tree, "metadata", "name")
	if name == "" {
		return nil, fmt.Errorf("%s manifest has no metadata.name", kind)
	}

	apiVersion, _ := tree["apiVersion"].(string)

	return &Resource{
		Kind:       kind,
		APIVersion: apiVersion,
		Namespace:  GetString(tree, "metadata", "namespace"),
		Name:       name,
		Manifest:   tree,
	}, nil
}

// Ref returns the resource's identity key.
func (r *Resource) Ref() Ref {
	return Ref{Kind: r.Kind, Namespace: r.Namespace, Name: r.Name}
}

// Labels returns the resource's metadata labels, or an empty map when none
// are set. The returned map is a copy.
func (r *Resource) Labels() map[string]string {
	labels, _ := StringMap(GetNestedValue(r.Manifest, "metadata", "labels"))
	return labels
}

// KindEquals reports whether the resource's kind matches the given kind,
// case-insensitively.
func (r *Resource) KindEquals(kind string) bool {
	return strings.EqualFold(r.Kind, kind)
}
