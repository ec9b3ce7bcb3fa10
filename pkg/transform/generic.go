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

// GenericTransformer supports metadata-only changes (labels, annotations) for
// kinds without structural knowledge, such as ConfigMaps.
type GenericTransformer struct{}

// Transform builds a metadata patch fragment.
func (t *GenericTransformer) Transform(in intent.Intent, target *manifest.Resource) (*Fragment, error) {
	if classifyField(in.Field) != fieldMetaMap {
		return nil, unsupportedAction(in, target)
	}
	value, err := metaMapValue(in)
	if err != nil {
		return nil, err
	}
	return newFragment(in, target, map[string]any{
		"metadata": map[string]any{in.Field: value},
	}), nil
}

var _ Transformer = (*GenericTransformer)(nil)
