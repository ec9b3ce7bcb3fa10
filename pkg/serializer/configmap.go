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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/patchform/pkg/defaults"
	"github.com/NVIDIA/patchform/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
)

const fieldManager = "patchform"

// ConfigMapWriter serializes records into a ConfigMap, created or updated
// via Server-Side Apply. The ConfigMap data carries the payload under
// content.<format>, plus the format and a write timestamp.
type ConfigMapWriter struct {
	client    client.Interface
	namespace string
	name      string
	format    Format
}

// NewConfigMapWriter creates a ConfigMapWriter that resolves the Kubernetes
// client on first write. An unknown format falls back to YAML.
func NewConfigMapWriter(namespace, name string, format Format) *ConfigMapWriter {
	return NewConfigMapWriterWithClient(nil, namespace, name, format)
}

// NewConfigMapWriterWithClient creates a ConfigMapWriter bound to the given
// clientset. Used by tests with a fake clientset.
func NewConfigMapWriterWithClient(c client.Interface, namespace, name string, format Format) *ConfigMapWriter {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to YAML", "format", format)
		format = FormatYAML
	}
	return &ConfigMapWriter{client: c, namespace: namespace, name: name, format: format}
}

// Serialize writes the encoded payload to the ConfigMap. Server-Side Apply
// gives an atomic create-or-update; Force takes ownership from any previous
// field manager.
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	cs := w.client
	if cs == nil {
		var err error
		cs, _, err = client.GetKubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	content, err := encode(w.format, data)
	if err != nil {
		return err
	}

	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "patchform",
			"app.kubernetes.io/component": "serializer",
		}).
		WithData(map[string]string{
			"content." + string(w.format): string(content),
			"format":                      string(w.format),
			"timestamp":                   time.Now().UTC().Format(time.RFC3339),
		})

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format,
		"size", len(content))

	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	_, err = cs.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: fieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close satisfies Closer; a ConfigMapWriter holds no resources.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// parseConfigMapURI splits cm://namespace/name into its components.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	rest, ok := strings.CutPrefix(uri, ConfigMapURIScheme)
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	namespace, name, ok = strings.Cut(rest, "/")
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(namespace)
	name = strings.TrimSpace(name)
	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return namespace, name, nil
}
