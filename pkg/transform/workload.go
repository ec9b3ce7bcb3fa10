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

// WorkloadTransformer handles pod-template-wrapping kinds: Deployment,
// StatefulSet, and DaemonSet. Pod-level fields are written under
// spec.template so the change flows through the workload's rollout machinery
// rather than mutating pods directly.
type WorkloadTransformer struct{}

// Transform builds a patch fragment for a workload target.
func (t *WorkloadTransformer) Transform(in intent.Intent, target *manifest.Resource) (*Fragment, error) {
	switch classifyField(in.Field) {
	case fieldReplicas:
		n, err := replicasValue(in.Value)
		if err != nil {
			return nil, err
		}
		return newFragment(in, target, map[string]any{
			"spec": map[string]any{"replicas": n},
		}), nil

	case fieldMetaMap:
		value, err := metaMapValue(in)
		if err != nil {
			return nil, err
		}
		// Written at the pod template level so running pods inherit the
		// change on rollout, matching how these kinds propagate metadata.
		return newFragment(in, target, map[string]any{
			"spec": map[string]any{
				"template": map[string]any{
					"metadata": map[string]any{in.Field: value},
				},
			},
		}), nil

	case fieldSecurityContext:
		return newFragment(in, target, map[string]any{
			"spec": map[string]any{
				"template": map[string]any{
					"spec": map[string]any{"securityContext": in.Value},
				},
			},
		}), nil

	case fieldContainer:
		containers := containersAt(target.Manifest, "spec", "template", "spec", "containers")
		patches, err := containerPatches(in, target, containers)
		if err != nil {
			return nil, err
		}
		return newFragment(in, target, map[string]any{
			"spec": map[string]any{
				"template": map[string]any{
					"spec": map[string]any{"containers": patches},
				},
			},
		}), nil

	default:
		return nil, unsupportedAction(in, target)
	}
}

var _ Transformer = (*WorkloadTransformer)(nil)
