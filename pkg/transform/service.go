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
	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// ServiceTransformer handles Services: labels and annotations at the resource
// root, plus service-specific selector and port fields.
type ServiceTransformer struct{}

// Transform builds a patch fragment for a service target.
func (t *ServiceTransformer) Transform(in intent.Intent, target *manifest.Resource) (*Fragment, error) {
	switch in.Field {
	case "labels", "annotations":
		value, err := metaMapValue(in)
		if err != nil {
			return nil, err
		}
		return newFragment(in, target, map[string]any{
			"metadata": map[string]any{in.Field: value},
		}), nil

	case "selector":
		value, ok := in.Value.(map[string]any)
		if !ok || len(value) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				"selector value must be a non-empty key/value map")
		}
		return newFragment(in, target, map[string]any{
			"spec": map[string]any{"selector": value},
		}), nil

	case "ports":
		ports, ok := in.Value.([]any)
		if !ok || len(ports) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				"ports value must be a non-empty list of port entries")
		}
		return newFragment(in, target, map[string]any{
			"spec": map[string]any{"ports": ports},
		}), nil

	default:
		return nil, unsupportedAction(in, target)
	}
}

var _ Transformer = (*ServiceTransformer)(nil)
