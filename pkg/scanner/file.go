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

package scanner

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// FileScanner lists resources from YAML manifests on disk. Paths can be
// files or directories; directories are walked recursively for .yaml and
// .yml files, including multi-document files.
type FileScanner struct {
	paths []string
}

// NewFileScanner creates a scanner over the given manifest files or
// directories.
func NewFileScanner(paths ...string) *FileScanner {
	return &FileScanner{paths: paths}
}

// List reads every manifest document under the scanner's paths and returns
// those matching the requested kind and namespace. Documents that are not
// Kubernetes objects (no kind or metadata.name) are skipped, so manifest
// trees can carry kustomization files and fragments without breaking scans.
func (s *FileScanner) List(ctx context.Context, kind, namespace string) ([]*manifest.Resource, error) {
	canonical := ""
	if kind != "" {
		c, ok := CanonicalKind(kind)
		if !ok {
			return nil, perrors.NewWithContext(perrors.ErrCodeUnsupportedKind,
				"cannot scan for kind "+kind,
				map[string]any{"kind": kind, "supported": SupportedKinds()})
		}
		canonical = c
	}

	var out []*manifest.Resource
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := manifestFiles(path)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			resources, err := readManifests(file)
			if err != nil {
				return nil, err
			}
			for _, r := range resources {
				if canonical != "" && !r.KindEquals(canonical) {
					continue
				}
				if namespace != "" && r.Namespace != namespace {
					continue
				}
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// manifestFiles expands a path into the YAML files beneath it, in walk
// order for deterministic catalogs.
func manifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidRequest, "cannot scan path "+path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, "failed to walk "+path, err)
	}
	return files, nil
}

// readManifests decodes every document in one YAML file.
func readManifests(path string) ([]*manifest.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, "failed to open "+path, err)
	}
	defer f.Close()

	var out []*manifest.Resource
	dec := yaml.NewDecoder(f)
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, perrors.Wrap(perrors.ErrCodeInvalidRequest, "malformed YAML in "+path, err)
		}
		if len(doc) == 0 {
			continue
		}
		r, err := manifest.FromManifest(manifest.NormalizeMap(doc))
		if err != nil {
			slog.Debug("skipping non-resource document", "path", path, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
