package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/patchform/pkg/manifest"
	"github.com/NVIDIA/patchform/pkg/merge"
)

func nginxPatch() *merge.ConsolidatedPatch {
	return &merge.ConsolidatedPatch{
		Target: manifest.Ref{Kind: "Deployment", Namespace: "web", Name: "my-nginx"},
		Content: map[string]any{
			"apiVersion": "apps/v1",
			"kind":       "Deployment",
			"metadata":   map[string]any{"name": "my-nginx", "namespace": "web"},
			"spec": map[string]any{
				"template": map[string]any{
					"spec": map[string]any{
						"containers": []any{
							map[string]any{"name": "nginx", "image": "nginx:v1.16"},
						},
					},
				},
			},
		},
	}
}

func nginxResource() *manifest.Resource {
	return &manifest.Resource{
		Kind:       "Deployment",
		APIVersion: "apps/v1",
		Namespace:  "web",
		Name:       "my-nginx",
		Manifest: map[string]any{
			"apiVersion": "apps/v1",
			"kind":       "Deployment",
			"metadata":   map[string]any{"name": "my-nginx", "namespace": "web"},
			"spec": map[string]any{
				"template": map[string]any{
					"spec": map[string]any{
						"containers": []any{
							map[string]any{"name": "nginx", "image": "nginx:1.15.0"},
						},
					},
				},
			},
		},
	}
}

func TestPatchFileName(t *testing.T) {
	tests := []struct {
		ref  manifest.Ref
		want string
	}{
		{manifest.Ref{Kind: "Deployment", Namespace: "web", Name: "my-nginx"}, "deployment-web-my-nginx.yaml"},
		{manifest.Ref{Kind: "Service", Name: "api"}, "service-default-api.yaml"},
		{manifest.Ref{Kind: "ConfigMap", Namespace: "kube_odd", Name: "app config"}, "configmap-kube-odd-app-config.yaml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PatchFileName(tt.ref))
	}
}

func TestOverlay(t *testing.T) {
	svc := &merge.ConsolidatedPatch{
		Target: manifest.Ref{Kind: "Service", Namespace: "api", Name: "web"},
		Content: map[string]any{
			"apiVersion": "v1",
			"kind":       "Service",
			"metadata":   map[string]any{"name": "web", "namespace": "api", "labels": map[string]any{"team": "platform"}},
		},
	}

	files, err := Overlay([]*merge.ConsolidatedPatch{nginxPatch(), svc})
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "kustomization.yaml", files[0].Name)
	assert.Equal(t, "deployment-web-my-nginx.yaml", files[1].Name)
	assert.Equal(t, "service-api-web.yaml", files[2].Name)

	var k Kustomization
	require.NoError(t, yaml.Unmarshal(files[0].Data, &k))
	assert.Equal(t, kustomizationAPIVersion, k.APIVersion)
	require.Len(t, k.Patches, 2)
	assert.Equal(t, "deployment-web-my-nginx.yaml", k.Patches[0].Path)
	assert.Equal(t, Target{Kind: "Deployment", Name: "my-nginx", Namespace: "web"}, k.Patches[0].Target)

	// The patch file holds only the changed fields, not a full resource copy.
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(files[1].Data, &doc))
	assert.Equal(t, "nginx:v1.16",
		manifest.GetSlice(doc, "spec", "template", "spec", "containers")[0].(map[string]any)["image"])
	assert.Nil(t, manifest.GetNestedValue(doc, "spec", "replicas"))
}

func TestOverlay_Deterministic(t *testing.T) {
	a, err := Overlay([]*merge.ConsolidatedPatch{nginxPatch()})
	require.NoError(t, err)
	b, err := Overlay([]*merge.ConsolidatedPatch{nginxPatch()})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteOverlay(t *testing.T) {
	dir := t.TempDir() + "/overlay"
	require.NoError(t, WriteOverlay(dir, []*merge.ConsolidatedPatch{nginxPatch()}))

	files, err := Overlay([]*merge.ConsolidatedPatch{nginxPatch()})
	require.NoError(t, err)
	for _, f := range files {
		assert.FileExists(t, dir+"/"+f.Name)
	}
}

func TestDiff(t *testing.T) {
	out, err := Diff(nginxResource(), nginxPatch())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "--- Deployment/web/my-nginx\n"))
	assert.Contains(t, out, "nginx:1.15.0")
	assert.Contains(t, out, "nginx:v1.16")
	assert.Contains(t, out, "patch:")
}

func TestDiff_NoEffectiveChanges(t *testing.T) {
	res := nginxResource()
	patch := &merge.ConsolidatedPatch{
		Target: res.Ref(),
		Content: map[string]any{
			"apiVersion": "apps/v1",
			"kind":       "Deployment",
			"metadata":   map[string]any{"name": "my-nginx", "namespace": "web"},
		},
	}

	out, err := Diff(res, patch)
	require.NoError(t, err)
	assert.Contains(t, out, "no effective changes")
	assert.NotContains(t, out, "patch:")
}

func TestWriteDiffs_MissingManifest(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDiffs(&buf, []*merge.ConsolidatedPatch{nginxPatch()},
		func(manifest.Ref) *manifest.Resource { return nil })
	assert.Error(t, err)
}

func TestMode(t *testing.T) {
	assert.False(t, ModeDiff.IsUnknown())
	assert.False(t, ModeOverlay.IsUnknown())
	assert.True(t, Mode("json").IsUnknown())
	assert.Equal(t, []string{"diff", "overlay"}, SupportedModes())
}
