package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

func res(kind, namespace, name string, labels map[string]string) *manifest.Resource {
	meta := map[string]any{"name": name}
	if namespace != "" {
		meta["namespace"] = namespace
	}
	if len(labels) > 0 {
		lm := map[string]any{}
		for k, v := range labels {
			lm[k] = v
		}
		meta["labels"] = lm
	}
	return &manifest.Resource{
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
		Manifest:  map[string]any{"kind": kind, "metadata": meta},
	}
}

func testCatalog() []*manifest.Resource {
	return []*manifest.Resource{
		res("Service", "api", "web", map[string]string{"app": "web"}),
		res("Service", "api", "auth", map[string]string{"app": "auth"}),
		res("Service", "default", "web", map[string]string{"app": "web"}),
		res("Deployment", "api", "web", map[string]string{"app": "web", "tier": "frontend"}),
	}
}

func names(targets []*manifest.Resource) []string {
	out := make([]string, 0, len(targets))
	for _, tr := range targets {
		out = append(out, tr.Ref().String())
	}
	return out
}

func TestTargets_KindOnly(t *testing.T) {
	got := Targets(intent.Selector{Kind: "Service"}, testCatalog())
	assert.Equal(t, []string{
		"Service/api/web",
		"Service/api/auth",
		"Service/default/web",
	}, names(got))
}

func TestTargets_KindCaseInsensitive(t *testing.T) {
	got := Targets(intent.Selector{Kind: "service"}, testCatalog())
	assert.Len(t, got, 3)
}

func TestTargets_NamespaceScoped(t *testing.T) {
	got := Targets(intent.Selector{Kind: "Service", Namespace: "api"}, testCatalog())
	assert.Equal(t, []string{"Service/api/web", "Service/api/auth"}, names(got))
}

func TestTargets_ByName(t *testing.T) {
	got := Targets(intent.Selector{Kind: "Service", Names: []string{"web"}}, testCatalog())
	assert.Equal(t, []string{"Service/api/web", "Service/default/web"}, names(got))
}

func TestTargets_ByLabels(t *testing.T) {
	got := Targets(intent.Selector{Kind: "Service", Labels: map[string]string{"app": "auth"}}, testCatalog())
	assert.Equal(t, []string{"Service/api/auth"}, names(got))

	// All selector labels must be present with equal values.
	got = Targets(intent.Selector{
		Kind:   "Deployment",
		Labels: map[string]string{"app": "web", "tier": "backend"},
	}, testCatalog())
	assert.Empty(t, got)
}

func TestTargets_NamesAndLabelsComposeWithAND(t *testing.T) {
	// Both constraints given: a resource must satisfy both.
	got := Targets(intent.Selector{
		Kind:   "Service",
		Names:  []string{"web", "auth"},
		Labels: map[string]string{"app": "web"},
	}, testCatalog())
	assert.Equal(t, []string{"Service/api/web", "Service/default/web"}, names(got))
}

func TestTargets_ZeroMatchesIsEmptyNotError(t *testing.T) {
	got := Targets(intent.Selector{Kind: "StatefulSet"}, testCatalog())
	assert.Empty(t, got)
}
