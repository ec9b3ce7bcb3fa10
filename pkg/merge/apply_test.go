package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/patchform/pkg/manifest"
)

func TestApply_MergesIntoCurrent(t *testing.T) {
	current := map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata":   map[string]any{"name": "my-nginx", "labels": map[string]any{"app": "nginx"}},
		"spec": map[string]any{
			"replicas": 2,
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []any{
						map[string]any{"name": "nginx", "image": "nginx:1.15.0", "ports": []any{map[string]any{"containerPort": 80}}},
					},
				},
			},
		},
	}
	patch := map[string]any{
		"metadata": map[string]any{"name": "my-nginx", "labels": map[string]any{"env": "prod"}},
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []any{
						map[string]any{"name": "nginx", "image": "nginx:v1.16"},
					},
				},
			},
		},
	}

	got := Apply(current, patch)

	labels := manifest.GetMap(got, "metadata", "labels")
	assert.Equal(t, "nginx", labels["app"])
	assert.Equal(t, "prod", labels["env"])
	assert.Equal(t, 2, manifest.GetNestedValue(got, "spec", "replicas"))

	containers := manifest.GetSlice(got, "spec", "template", "spec", "containers")
	require.Len(t, containers, 1)
	c := containers[0].(map[string]any)
	assert.Equal(t, "nginx:v1.16", c["image"])
	// Fields the patch does not mention survive.
	assert.Len(t, c["ports"], 1)

	// The input manifest is untouched.
	assert.Equal(t, "nginx:1.15.0",
		manifest.GetSlice(current, "spec", "template", "spec", "containers")[0].(map[string]any)["image"])
}

func TestApply_NullDeletesField(t *testing.T) {
	current := map[string]any{
		"metadata": map[string]any{
			"name":   "worker",
			"labels": map[string]any{"debug": "true", "app": "worker"},
		},
	}
	patch := map[string]any{
		"metadata": map[string]any{"labels": map[string]any{"debug": nil}},
	}

	got := Apply(current, patch)
	labels := manifest.GetMap(got, "metadata", "labels")
	assert.NotContains(t, labels, "debug")
	assert.Equal(t, "worker", labels["app"])
}

func TestApply_AppendsNewContainer(t *testing.T) {
	current := map[string]any{
		"spec": map[string]any{
			"containers": []any{map[string]any{"name": "api", "image": "app:1.0"}},
		},
	}
	patch := map[string]any{
		"spec": map[string]any{
			"containers": []any{map[string]any{"name": "sidecar", "image": "proxy:1.0"}},
		},
	}

	got := Apply(current, patch)
	containers := manifest.GetSlice(got, "spec", "containers")
	require.Len(t, containers, 2)
	assert.Equal(t, "api", containers[0].(map[string]any)["name"])
	assert.Equal(t, "sidecar", containers[1].(map[string]any)["name"])
}

func TestApply_IdempotentOnConvergedState(t *testing.T) {
	patch := map[string]any{
		"metadata": map[string]any{"labels": map[string]any{"env": "prod"}},
		"spec":     map[string]any{"replicas": 5},
	}
	current := map[string]any{
		"metadata": map[string]any{"name": "my-nginx", "labels": map[string]any{"env": "prod"}},
		"spec":     map[string]any{"replicas": 5},
	}

	assert.Equal(t, current, Apply(current, patch))
}
