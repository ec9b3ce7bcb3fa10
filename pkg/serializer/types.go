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

// Package serializer persists and loads patchform records, most notably the
// prior-manifest snapshots that back the undo command.
//
// Records are written as JSON or YAML to one of three destinations selected
// by path:
//
//	""                     stdout
//	prior.yaml             local file
//	cm://ops/undo-records  Kubernetes ConfigMap "undo-records" in "ops"
//
// Writing:
//
//	ser := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer ser.(serializer.Closer).Close()
//	err := ser.Serialize(ctx, records)
//
// Reading back, with the same path forms:
//
//	records, err := serializer.FromFile[[]apply.Result]("prior.yaml")
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the serialization encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ConfigMapURIScheme prefixes ConfigMap destinations (cm://namespace/name).
const ConfigMapURIScheme = "cm://"

// IsUnknown reports whether the format is outside the supported set.
func (f Format) IsUnknown() bool {
	return f != FormatJSON && f != FormatYAML
}

// Serializer writes one value to the configured destination. The context
// bounds destinations that perform I/O against the Kubernetes API.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by Serializers that hold resources, such as an open
// file handle.
type Closer interface {
	Close() error
}

// encode marshals v in the given format. JSON is indented so files and
// ConfigMap payloads stay reviewable.
func encode(format Format, v any) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return append(b, '\n'), nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// decode unmarshals data in the given format into v, which must be a pointer.
func decode(format Format, data []byte, v any) error {
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// formatFromPath picks the format from the file extension. Anything that is
// not .json reads as YAML, the convention for undo files.
func formatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}
