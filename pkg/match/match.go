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

// Package match selects concrete target resources for an intent's selector
// from a catalog of discovered resources.
//
// A resource matches when the kind is equal (case-insensitive) AND the name is
// in the selector's name set (empty set matches all) AND every selector label
// is present with an equal value (empty map matches all) AND the namespace is
// equal (empty matches all). Name and label constraints compose with AND when
// both are given.
//
// An empty result is not an error: "no deployments currently need this
// change" is a valid outcome, reported upward as a zero-target warning.
// Protected-namespace filtering happens before the catalog reaches this
// package.
package match

import (
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// Targets returns the catalog resources matching the selector, preserving
// catalog order so downstream output is deterministic.
func Targets(sel intent.Selector, catalog []*manifest.Resource) []*manifest.Resource {
	var matched []*manifest.Resource
	for _, res := range catalog {
		if Matches(sel, res) {
			matched = append(matched, res)
		}
	}
	return matched
}

// Matches reports whether a single resource satisfies the selector.
func Matches(sel intent.Selector, res *manifest.Resource) bool {
	if !res.KindEquals(sel.Kind) {
		return false
	}
	if len(sel.Names) > 0 && !sel.HasName(res.Name) {
		return false
	}
	if sel.Namespace != "" && sel.Namespace != res.Namespace {
		return false
	}
	if len(sel.Labels) > 0 {
		labels := res.Labels()
		for k, v := range sel.Labels {
			if labels[k] != v {
				return false
			}
		}
	}
	return true
}
