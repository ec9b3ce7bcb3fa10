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

package merge

import "github.com/NVIDIA/patchform/pkg/manifest"

// Apply overlays a consolidated patch's content onto a copy of the target's
// current manifest, producing the manifest as it would look after the patch.
// Explicit nulls in the patch delete the corresponding field, matching
// strategic merge semantics on the API server. Neither input is mutated.
func Apply(current, patch map[string]any) map[string]any {
	return applyMaps(current, patch)
}

func applyMaps(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst))
	for k, v := range dst {
		out[k] = manifest.DeepCopy(v)
	}
	for k, v := range src {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = applyValues(k, out[k], v)
	}
	return out
}

func applyValues(field string, dst, src any) any {
	switch sv := src.(type) {
	case map[string]any:
		dm, ok := dst.(map[string]any)
		if !ok {
			return applyMaps(map[string]any{}, sv)
		}
		return applyMaps(dm, sv)
	case []any:
		dl, ok := dst.([]any)
		if !ok {
			dl = nil
		}
		return applyLists(field, dl, sv)
	default:
		return src
	}
}

// applyLists mirrors mergeLists but recurses with apply semantics so nulls
// inside keyed elements delete fields on the live object.
func applyLists(field string, dst, src []any) []any {
	keys, keyed := mergeKeys[field]
	if !keyed {
		return deepCopyList(src)
	}

	out := make([]any, 0, len(dst)+len(src))
	for _, e := range dst {
		if !hasIdentity(e, keys) {
			return deepCopyList(src)
		}
		out = append(out, manifest.DeepCopy(e))
	}

	for _, e := range src {
		if !hasIdentity(e, keys) {
			return deepCopyList(src)
		}
		merged := false
		for i := range out {
			if sameElement(out[i], e, keys) {
				out[i] = applyValues(field, out[i], e)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, manifest.DeepCopy(e))
		}
	}
	return out
}
