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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/manifest"
	"github.com/NVIDIA/patchform/pkg/merge"
)

const (
	kustomizationAPIVersion = "kustomize.config.k8s.io/v1beta1"
	kustomizationKind       = "Kustomization"
	kustomizationFile       = "kustomization.yaml"
)

// Kustomization is the overlay's index document.
type Kustomization struct {
	APIVersion string  `yaml:"apiVersion"`
	Kind       string  `yaml:"kind"`
	Patches    []Patch `yaml:"patches,omitempty"`
}

// Patch is one kustomization patch entry referencing a patch file on disk.
type Patch struct {
	Path   string `yaml:"path"`
	Target Target `yaml:"target"`
}

// Target identifies the resource a patch file applies to.
type Target struct {
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
}

// File is one rendered overlay file, ready to write to disk.
type File struct {
	Name string
	Data []byte
}

// Overlay renders a patch set as a Kustomize overlay: the kustomization.yaml
// index first, then one strategic merge patch file per target in patch order.
// Output is deterministic for a given patch set.
func Overlay(patches []*merge.ConsolidatedPatch) ([]File, error) {
	k := Kustomization{
		APIVersion: kustomizationAPIVersion,
		Kind:       kustomizationKind,
	}

	files := make([]File, 0, len(patches)+1)
	seen := map[string]manifest.Ref{}
	for _, p := range patches {
		name := PatchFileName(p.Target)
		if prior, dup := seen[name]; dup {
			return nil, errors.Newf(errors.ErrCodeInternal,
				"patch file name %s collides for targets %s and %s", name, prior, p.Target)
		}
		seen[name] = p.Target

		data, err := yaml.Marshal(p.Content)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to marshal patch for "+p.Target.String(), err)
		}

		files = append(files, File{Name: name, Data: data})
		k.Patches = append(k.Patches, Patch{
			Path: name,
			Target: Target{
				Kind:      p.Target.Kind,
				Name:      p.Target.Name,
				Namespace: p.Target.Namespace,
			},
		})
	}

	index, err := yaml.Marshal(k)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to marshal kustomization index", err)
	}

	return append([]File{{Name: kustomizationFile, Data: index}}, files...), nil
}

// WriteOverlay renders the overlay and writes it into dir, creating the
// directory if needed.
func WriteOverlay(dir string, patches []*merge.ConsolidatedPatch) error {
	files, err := Overlay(patches)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create overlay directory "+dir, err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to write overlay file "+f.Name, err)
		}
	}
	return nil
}

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9.-]+`)

// PatchFileName derives the overlay file name for a target. The name is a
// pure function of kind, namespace, and name so overlay trees are
// reproducible; an empty namespace renders as "default" to keep cluster and
// file scans consistent.
func PatchFileName(ref manifest.Ref) string {
	ns := ref.Namespace
	if ns == "" {
		ns = "default"
	}
	parts := []string{
		sanitizeNamePart(ref.Kind),
		sanitizeNamePart(ns),
		sanitizeNamePart(ref.Name),
	}
	return fmt.Sprintf("%s.yaml", strings.Join(parts, "-"))
}

func sanitizeNamePart(s string) string {
	s = unsafeNameRe.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
