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

package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/manifest"
	"github.com/NVIDIA/patchform/pkg/merge"
)

// Diff renders one target's before/after preview: the effective field
// changes against the current manifest, followed by the patch document that
// produces them. The current manifest is not mutated.
func Diff(current *manifest.Resource, patch *merge.ConsolidatedPatch) (string, error) {
	if current == nil {
		return "", errors.New(errors.ErrCodeInternal, "diff requires the target's current manifest")
	}

	after := merge.Apply(current.Manifest, patch.Content)
	changes := cmp.Diff(current.Manifest, after)

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", patch.Target)
	if changes == "" {
		b.WriteString("no effective changes\n")
		return b.String(), nil
	}
	b.WriteString(changes)

	doc, err := yaml.Marshal(patch.Content)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to marshal patch for "+patch.Target.String(), err)
	}
	b.WriteString("patch:\n")
	b.Write(doc)
	return b.String(), nil
}

// WriteDiffs renders every patch's preview to w, resolving each target's
// current manifest through lookup. A target missing from the catalog is an
// internal error: diffs are only meaningful against the manifests the
// patches were generated from.
func WriteDiffs(w io.Writer, patches []*merge.ConsolidatedPatch, lookup func(manifest.Ref) *manifest.Resource) error {
	for _, p := range patches {
		current := lookup(p.Target)
		if current == nil {
			return errors.Newf(errors.ErrCodeInternal, "no manifest in catalog for %s", p.Target)
		}
		out, err := Diff(current, p)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, out+"\n"); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to write diff output", err)
		}
	}
	return nil
}
