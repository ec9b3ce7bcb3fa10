package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/NVIDIA/patchform/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// FromFile loads and decodes a record from a local file or a
// cm://namespace/name ConfigMap URI. File format is detected from the
// extension; .json reads as JSON, everything else as YAML.
//
// Example:
//
//	records, err := serializer.FromFile[[]apply.Result]("prior.yaml")
func FromFile[T any](path string) (*T, error) {
	return FromFileWithKubeconfig[T](path, "")
}

// FromFileWithKubeconfig is FromFile with an explicit kubeconfig path for
// ConfigMap URIs. An empty kubeconfig uses default discovery; it is ignored
// for local files.
func FromFileWithKubeconfig[T any](path, kubeconfig string) (*T, error) {
	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(path)
		if err != nil {
			return nil, fmt.Errorf("invalid ConfigMap URI: %w", err)
		}
		cs, _, err := client.GetKubeClientWithConfig(kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		return fromConfigMap[T](cs, namespace, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	format := formatFromPath(path)
	var v T
	if err := decode(format, data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}

	slog.Debug("loaded records from file", "path", path, "format", format)
	return &v, nil
}

// fromConfigMap decodes a record written by ConfigMapWriter. The format
// comes from the ConfigMap's format key; when it is absent the known
// content keys are probed instead.
func fromConfigMap[T any](cs client.Interface, namespace, name string) (*T, error) {
	cm, err := cs.CoreV1().ConfigMaps(namespace).Get(context.Background(), name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	format := FormatYAML
	if f, ok := cm.Data["format"]; ok && !Format(f).IsUnknown() {
		format = Format(f)
	}

	content, ok := cm.Data["content."+string(format)]
	if !ok {
		for _, f := range []Format{FormatYAML, FormatJSON} {
			if data, present := cm.Data["content."+string(f)]; present {
				content, format = data, f
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("ConfigMap %s/%s has no serialized content", namespace, name)
	}

	slog.Debug("loaded records from ConfigMap",
		"namespace", namespace,
		"name", name,
		"format", format,
		"size", len(content))

	var v T
	if err := decode(format, []byte(content), &v); err != nil {
		return nil, fmt.Errorf("failed to decode ConfigMap %s/%s: %w", namespace, name, err)
	}
	return &v, nil
}
