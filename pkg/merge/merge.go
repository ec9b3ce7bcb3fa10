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

import (
	"fmt"
	"sort"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/manifest"
	"github.com/NVIDIA/patchform/pkg/transform"
)

// ConsolidatedPatch is the single merged patch for one target resource,
// together with the fragments it was folded from, in intent order. Immutable
// once built.
type ConsolidatedPatch struct {
	Target    manifest.Ref          `json:"target" yaml:"target"`
	Content   map[string]any        `json:"content" yaml:"content"`
	Fragments []*transform.Fragment `json:"fragments,omitempty" yaml:"fragments,omitempty"`
}

// mergeKeys names the identity key candidates, in priority order, for array
// fields merged element-wise. Fields absent here merge as plain arrays: the
// later fragment replaces the whole list.
var mergeKeys = map[string][]string{
	"containers":          {"name"},
	"initContainers":      {"name"},
	"ephemeralContainers": {"name"},
	"env":                 {"name"},
	"envFrom":             {"name"},
	"volumes":             {"name"},
	"volumeMounts":        {"name"},
	"volumeDevices":       {"name"},
	"imagePullSecrets":    {"name"},
	"ports":               {"name", "port"},
}

// Merge folds fragments into one consolidated patch per target. Fragments
// are grouped by target ref and, within each group, applied in ascending
// sequence order so that later intents win on conflicting writes regardless
// of the order fragments were generated. The returned patches are sorted by
// target for stable output.
func Merge(fragments []*transform.Fragment) ([]*ConsolidatedPatch, error) {
	groups := map[manifest.Ref][]*transform.Fragment{}
	for i, f := range fragments {
		if f == nil || f.Content == nil {
			return nil, errors.Newf(errors.ErrCodeInternal, "fragment %d has no content", i)
		}
		groups[f.Target] = append(groups[f.Target], f)
	}

	refs := make([]manifest.Ref, 0, len(groups))
	for ref := range groups {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })

	patches := make([]*ConsolidatedPatch, 0, len(refs))
	for _, ref := range refs {
		patches = append(patches, mergeTarget(ref, groups[ref]))
	}
	return patches, nil
}

// mergeTarget folds one target's fragments, lowest sequence first.
func mergeTarget(ref manifest.Ref, fragments []*transform.Fragment) *ConsolidatedPatch {
	ordered := make([]*transform.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	content := map[string]any{}
	for _, f := range ordered {
		content = mergeMaps(content, f.Content)
	}

	return &ConsolidatedPatch{Target: ref, Content: content, Fragments: ordered}
}

// mergeMaps deep-merges src into a copy of dst. Neither input is mutated.
func mergeMaps(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = manifest.DeepCopy(v)
	}
	for k, v := range src {
		out[k] = mergeValues(k, out[k], v)
	}
	return out
}

// mergeValues merges one field's value from a later fragment (src) over an
// earlier one (dst). The field name decides array semantics.
func mergeValues(field string, dst, src any) any {
	switch sv := src.(type) {
	case map[string]any:
		dm, ok := dst.(map[string]any)
		if !ok {
			return manifest.DeepCopyMap(sv)
		}
		return mergeMaps(dm, sv)
	case []any:
		dl, ok := dst.([]any)
		if !ok {
			return manifest.DeepCopy(sv)
		}
		return mergeLists(field, dl, sv)
	default:
		// Scalars, including explicit nulls marking deletion: last writer
		// wins.
		return src
	}
}

// mergeLists merges two array values under the given field name. When the
// field has a declared identity key and every element on both sides carries
// it, elements merge by key with first-seen order preserved; otherwise the
// later list replaces the earlier one whole, since positional merging of
// unkeyed arrays is unsafe.
func mergeLists(field string, dst, src []any) []any {
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
				out[i] = mergeValues(field, out[i], e)
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

// hasIdentity reports whether the element is a map carrying at least one of
// the identity key candidates.
func hasIdentity(e any, keys []string) bool {
	m, ok := e.(map[string]any)
	if !ok {
		return false
	}
	for _, k := range keys {
		if v, present := m[k]; present && v != nil {
			return true
		}
	}
	return false
}

// sameElement reports whether two elements share an identity. The first key
// candidate present on both sides decides, so a partial element like
// {port: 80} matches a full {name: "http", port: 80} through the port while
// two named elements are still told apart by name. Numeric identities are
// compared in decimal form so 80 and int64(80) collide as intended.
func sameElement(a, b any, keys []string) bool {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if !aok || !bok {
		return false
	}
	for _, k := range keys {
		av, ahas := am[k]
		bv, bhas := bm[k]
		if ahas && av != nil && bhas && bv != nil {
			return fmt.Sprint(av) == fmt.Sprint(bv)
		}
	}
	return false
}

func deepCopyList(l []any) []any {
	out := make([]any, len(l))
	for i, e := range l {
		out[i] = manifest.DeepCopy(e)
	}
	return out
}
