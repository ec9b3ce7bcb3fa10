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
	"regexp"
	"strings"

	"github.com/distribution/reference"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// container is a named container spec from a pod template.
type container struct {
	name string
	spec map[string]any
}

// containersAt extracts the named containers from the manifest at the given
// path. Containers without a name are skipped; the API server rejects them
// anyway.
func containersAt(m map[string]any, path ...string) []container {
	var out []container
	for _, c := range manifest.GetSlice(m, path...) {
		spec, ok := c.(map[string]any)
		if !ok {
			continue
		}
		name, _ := spec["name"].(string)
		if name == "" {
			continue
		}
		out = append(out, container{name: name, spec: spec})
	}
	return out
}

// resolveContainers decides which containers a container-targeted intent
// applies to. An explicit hint wins; a single container is unambiguous;
// multiple containers with no hint fail rather than guess. Image prefix
// rewrites (from/to values) apply to every container by design: the rewrite
// itself identifies what changes.
func resolveContainers(in intent.Intent, target *manifest.Resource, containers []container) ([]container, error) {
	if len(containers) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest,
			"%s has no containers", target.Ref())
	}

	if isPrefixRewrite(in) {
		return containers, nil
	}

	if hint := in.ContainerHint(); hint != "" {
		for _, c := range containers {
			if c.name == hint {
				return []container{c}, nil
			}
		}
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"container "+hint+" not found in "+target.Ref().String(),
			map[string]any{"target": target.Ref().String(), "containers": containerNames(containers)})
	}

	if len(containers) == 1 {
		return containers, nil
	}

	return nil, errors.NewWithContext(errors.ErrCodeAmbiguousContainer,
		"multiple containers in "+target.Ref().String()+", specify a container name",
		map[string]any{"target": target.Ref().String(), "containers": containerNames(containers)})
}

func containerNames(containers []container) []string {
	names := make([]string, 0, len(containers))
	for _, c := range containers {
		names = append(names, c.name)
	}
	return names
}

// isPrefixRewrite reports whether the intent's value is a from/to image
// registry rewrite.
func isPrefixRewrite(in intent.Intent) bool {
	if in.Field != "image" {
		return false
	}
	v, ok := in.Value.(map[string]any)
	if !ok {
		return false
	}
	_, hasFrom := v["from"]
	_, hasTo := v["to"]
	return hasFrom && hasTo
}

var tagOnlyRe = regexp.MustCompile(`^v?\d+(?:\.\d+)*$`)

// newImage computes a container's new image from the intent value.
// Supported value shapes:
//   - map {from, to}: registry/prefix rewrite against the current image
//   - ":tag" or a bare version ("v1.16"): retag the current image
//   - anything else: full image replacement
//
// The result is validated as a well-formed image reference.
func newImage(current string, value any) (string, error) {
	var img string

	switch v := value.(type) {
	case map[string]any:
		from, _ := v["from"].(string)
		to, _ := v["to"].(string)
		if from == "" || to == "" {
			return "", errors.New(errors.ErrCodeInvalidRequest, "image rewrite requires from and to values")
		}
		if !strings.Contains(current, from) {
			// Nothing to rewrite for this container.
			return current, nil
		}
		img = strings.Replace(current, from, to, 1)

	case string:
		switch {
		case strings.HasPrefix(v, ":"):
			img = retag(current, strings.TrimPrefix(v, ":"))
		case tagOnlyRe.MatchString(v):
			img = retag(current, v)
		default:
			img = v
		}

	default:
		return "", errors.Newf(errors.ErrCodeInvalidRequest, "unsupported image value type %T", value)
	}

	if _, err := reference.ParseAnyReference(img); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid image reference "+img, err)
	}
	return img, nil
}

// retag replaces the tag portion of an image reference, preserving the
// repository (including registries with ports).
func retag(current, tag string) string {
	repo := current
	slash := strings.LastIndex(current, "/")
	if colon := strings.LastIndex(current, ":"); colon > slash {
		repo = current[:colon]
	}
	if repo == "" {
		return tag
	}
	return repo + ":" + tag
}
