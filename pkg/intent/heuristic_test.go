package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicParser_MemoryLimit(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(), "Add memory limit 512Mi to all deployments")
	require.NoError(t, err)
	require.Len(t, intents, 1)

	in := intents[0]
	assert.Equal(t, ActionAdd, in.Action)
	assert.Equal(t, "resources.limits.memory", in.Field)
	assert.Equal(t, "512Mi", in.Value)
	assert.Equal(t, "Deployment", in.Selector.Kind)
	assert.Empty(t, in.Selector.Namespace)
}

func TestHeuristicParser_LabelWithNamespace(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"Add label team=platform to all services in namespace api")
	require.NoError(t, err)
	require.Len(t, intents, 1)

	in := intents[0]
	assert.Equal(t, "labels", in.Field)
	assert.Equal(t, map[string]any{"team": "platform"}, in.Value)
	assert.Equal(t, "Service", in.Selector.Kind)
	assert.Equal(t, "api", in.Selector.Namespace)
}

func TestHeuristicParser_MultiClause(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"Update nginx to v1.16, add label env=prod, and set CPU limit to 500m for my-nginx")
	require.NoError(t, err)
	require.Len(t, intents, 3)

	assert.Equal(t, "image", intents[0].Field)
	assert.Equal(t, "nginx:v1.16", intents[0].Value)
	assert.Equal(t, "nginx", intents[0].ContainerHint())

	assert.Equal(t, "labels", intents[1].Field)
	assert.Equal(t, map[string]any{"env": "prod"}, intents[1].Value)

	assert.Equal(t, "resources.limits.cpu", intents[2].Field)
	assert.Equal(t, "500m", intents[2].Value)
	assert.Equal(t, []string{"my-nginx"}, intents[2].Selector.Names)
}

func TestHeuristicParser_BareAndSplitsClauses(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"add label env=prod to all deployments and set cpu limit to 500m")
	require.NoError(t, err)
	require.Len(t, intents, 2)

	assert.Equal(t, "labels", intents[0].Field)
	assert.Equal(t, map[string]any{"env": "prod"}, intents[0].Value)

	assert.Equal(t, "resources.limits.cpu", intents[1].Field)
	assert.Equal(t, "500m", intents[1].Value)
}

func TestHeuristicParser_ImagePrefixRewrite(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"Update images from docker.io to ecr.aws in namespace prod")
	require.NoError(t, err)
	require.Len(t, intents, 1)

	in := intents[0]
	assert.Equal(t, "image", in.Field)
	assert.Equal(t, map[string]any{"from": "docker.io", "to": "ecr.aws"}, in.Value)
	assert.Equal(t, "prod", in.Selector.Namespace)
}

func TestHeuristicParser_ContainerHint(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"set memory limit 256Mi in container sidecar for worker")
	require.NoError(t, err)
	require.Len(t, intents, 1)

	in := intents[0]
	assert.Equal(t, "sidecar", in.ContainerHint())
	assert.Equal(t, []string{"worker"}, in.Selector.Names)
	// "in container sidecar" must not be read as a namespace
	assert.Empty(t, in.Selector.Namespace)
}

func TestHeuristicParser_SelectorLabels(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"add annotation owner=sre to pods with label app=web")
	require.NoError(t, err)
	require.Len(t, intents, 1)

	in := intents[0]
	assert.Equal(t, "annotations", in.Field)
	assert.Equal(t, map[string]any{"owner": "sre"}, in.Value)
	assert.Equal(t, "Pod", in.Selector.Kind)
	assert.Equal(t, map[string]string{"app": "web"}, in.Selector.Labels)
}

func TestHeuristicParser_SecurityContext(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(),
		"add security context to all pods")
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "securityContext", intents[0].Field)
	assert.Equal(t, map[string]any{"runAsNonRoot": true}, intents[0].Value)
}

func TestHeuristicParser_Replicas(t *testing.T) {
	intents, err := NewHeuristicParser().Parse(t.Context(), "scale deployment web to 5 replicas")
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "replicas", intents[0].Field)
	assert.Equal(t, 5, intents[0].Value)
	assert.Equal(t, ActionSet, intents[0].Action)
}

func TestHeuristicParser_Unclassifiable(t *testing.T) {
	_, err := NewHeuristicParser().Parse(t.Context(), "make everything faster")
	assert.Error(t, err)
}
