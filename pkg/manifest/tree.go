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

import "fmt"

// Normalize converts a decoded YAML/JSON value into the canonical tree form:
// map[string]any for mappings, []any for sequences, scalars unchanged.
// Non-string mapping keys are stringified, which matches how Kubernetes
// serializes manifests (all keys are strings on the wire).
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}

// NormalizeMap normalizes a tree known to be a mapping at the root.
func NormalizeMap(m map[string]any) map[string]any {
	normalized, _ := Normalize(m).(map[string]any)
	return normalized
}

// DeepCopy returns a structurally independent copy of the tree. Scalars are
// shared (they are immutable); maps and slices are rebuilt.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = DeepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = DeepCopy(val)
		}
		return out
	default:
		return v
	}
}

// DeepCopyMap deep-copies a tree known to be a mapping at the root.
func DeepCopyMap(m map[string]any) map[string]any {
	copied, _ := DeepCopy(m).(map[string]any)
	return copied
}

// GetNestedValue walks the tree along the given key path and returns the value
// found there, or nil when any step is missing or not a mapping.
func GetNestedValue(m map[string]any, path ...string) any {
	var current any = m
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[key]
		if !ok {
			return nil
		}
	}
	return current
}

// GetString returns the string at the given path, or empty string when the
// path is missing or not a string.
func GetString(m map[string]any, path ...string) string {
	s, _ := GetNestedValue(m, path...).(string)
	return s
}

// GetSlice returns the sequence at the given path, or nil.
func GetSlice(m map[string]any, path ...string) []any {
	s, _ := GetNestedValue(m, path...).([]any)
	return s
}

// GetMap returns the mapping at the given path, or nil.
func GetMap(m map[string]any, path ...string) map[string]any {
	mm, _ := GetNestedValue(m, path...).(map[string]any)
	return mm
}

// SetNested sets value at the given path, creating intermediate maps as
// needed. It mutates m; callers patching read-only manifests must pass a copy.
func SetNested(m map[string]any, value any, path ...string) {
	if len(path) == 0 {
		return
	}
	current := m
	for _, key := range path[:len(path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

// StringMap converts a generic mapping into map[string]string, skipping
// non-string values. Returns false when v is not a mapping.
func StringMap(v any) (map[string]string, bool) {
	node, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}, false
	}
	out := make(map[string]string, len(node))
	for k, val := range node {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out, true
}
