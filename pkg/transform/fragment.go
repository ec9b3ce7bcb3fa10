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
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// Fragment is a partial manifest tree expressing one intent's effect on one
// target resource. Fragments are immutable after creation; merging produces
// new trees.
//
// Seq carries the originating intent's sequence number explicitly rather than
// relying on collection order, so fragment generation can run in parallel and
// the merge engine can still reimpose intent order deterministically.
type Fragment struct {
	Target  manifest.Ref   `json:"target" yaml:"target"`
	Content map[string]any `json:"content" yaml:"content"`
	Seq     int            `json:"seq" yaml:"seq"`
	Origin  intent.Intent  `json:"origin" yaml:"origin"`
}

// newFragment assembles a fragment around the patch base for the target:
// apiVersion, kind, and metadata identity, which every strategic merge patch
// document must carry.
func newFragment(in intent.Intent, target *manifest.Resource, content map[string]any) *Fragment {
	patch := map[string]any{
		"apiVersion": target.APIVersion,
		"kind":       target.Kind,
		"metadata": map[string]any{
			"name": target.Name,
		},
	}
	if target.Namespace != "" {
		manifest.SetNested(patch, target.Namespace, "metadata", "namespace")
	}
	for k, v := range content {
		if k == "metadata" {
			// Identity metadata and patched metadata (labels, annotations)
			// share the same subtree.
			if mm, ok := v.(map[string]any); ok {
				meta := patch["metadata"].(map[string]any)
				for mk, mv := range mm {
					meta[mk] = mv
				}
				continue
			}
		}
		patch[k] = v
	}

	return &Fragment{
		Target:  target.Ref(),
		Content: patch,
		Seq:     in.Seq,
		Origin:  in,
	}
}
