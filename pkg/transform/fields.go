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
	"strconv"
	"strings"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// fieldClass groups intent fields by where they land in a pod-bearing
// resource.
type fieldClass int

const (
	fieldUnknown fieldClass = iota
	fieldReplicas
	fieldMetaMap         // labels, annotations
	fieldSecurityContext // pod-level security context
	fieldContainer       // resources.*, image, probes
)

func classifyField(field string) fieldClass {
	switch {
	case field == "replicas":
		return fieldReplicas
	case field == "labels" || field == "annotations":
		return fieldMetaMap
	case field == "securityContext":
		return fieldSecurityContext
	case field == "image",
		field == "livenessProbe",
		field == "readinessProbe",
		strings.HasPrefix(field, "resources"):
		return fieldContainer
	default:
		return fieldUnknown
	}
}

// metaMapValue normalizes a labels/annotations intent value into the map
// written into the patch. Remove actions turn listed keys into explicit
// nulls, the strategic merge marker for deletion.
func metaMapValue(in intent.Intent) (map[string]any, error) {
	if in.Action == intent.ActionRemove {
		return removalMap(in.Value)
	}
	m, ok := in.Value.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest,
			"%s value must be a non-empty key/value map", in.Field)
	}
	return m, nil
}

// removalMap builds a map of explicit nulls from a list of keys or a map's
// keys.
func removalMap(value any) (map[string]any, error) {
	out := map[string]any{}
	switch v := value.(type) {
	case map[string]any:
		for k := range v {
			out[k] = nil
		}
	case []any:
		for _, k := range v {
			s, ok := k.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrCodeInvalidRequest, "removal key %v is not a string", k)
			}
			out[s] = nil
		}
	case string:
		out[v] = nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidRequest, "unsupported removal value type %T", value)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "removal value names no keys")
	}
	return out, nil
}

// replicasValue coerces the intent value into a replica count.
func replicasValue(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidRequest, "replicas value is not a number", err)
		}
		return n, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidRequest, "unsupported replicas value type %T", value)
	}
}

// containerPatches builds the strategic merge container list for a
// container-targeted intent: one {name, ...change} entry per resolved
// container.
func containerPatches(in intent.Intent, target *manifest.Resource, containers []container) ([]any, error) {
	resolved, err := resolveContainers(in, target, containers)
	if err != nil {
		return nil, err
	}

	patches := make([]any, 0, len(resolved))
	for _, c := range resolved {
		cp := map[string]any{"name": c.name}

		switch {
		case in.Field == "image":
			current, _ := c.spec["image"].(string)
			img, err := newImage(current, in.Value)
			if err != nil {
				return nil, err
			}
			if img == current && isPrefixRewrite(in) {
				// Rewrite did not apply to this container; no patch entry.
				continue
			}
			cp["image"] = img

		case in.Field == "livenessProbe" || in.Field == "readinessProbe":
			cp[in.Field] = in.Value

		default: // resources.*
			if in.Action == intent.ActionRemove {
				manifest.SetNested(cp, nil, strings.Split(in.Field, ".")...)
			} else if in.Value == nil {
				return nil, errors.Newf(errors.ErrCodeInvalidRequest, "no value for field %s", in.Field)
			} else {
				manifest.SetNested(cp, in.Value, strings.Split(in.Field, ".")...)
			}
		}

		patches = append(patches, cp)
	}

	if len(patches) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest,
			"intent produced no container changes for %s", target.Ref())
	}
	return patches, nil
}
