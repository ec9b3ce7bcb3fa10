package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

func TestCanonicalKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"deployment", "Deployment", true},
		{"Deployments", "Deployment", true},
		{"deploy", "Deployment", true},
		{"svc", "Service", true},
		{"po", "Pod", true},
		{"cm", "ConfigMap", true},
		{" StatefulSet ", "StatefulSet", true},
		{"cronjob", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalKind(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSupportedKinds(t *testing.T) {
	assert.Equal(t,
		[]string{"ConfigMap", "DaemonSet", "Deployment", "Pod", "Service", "StatefulSet"},
		SupportedKinds())
}

const multiDocManifests = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: my-nginx
  namespace: web
spec:
  replicas: 2
---
apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: api
---
# not a resource, skipped
patches:
  - path: somewhere.yaml
`

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileScanner_List(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "stack.yaml", multiDocManifests)
	writeManifest(t, dir, "notes.txt", "ignored")
	writeManifest(t, dir, "pod.yml", `
apiVersion: v1
kind: Pod
metadata:
  name: worker
  namespace: web
`)

	s := NewFileScanner(dir)

	deployments, err := s.List(context.Background(), "deployments", "")
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, manifest.Ref{Kind: "Deployment", Namespace: "web", Name: "my-nginx"}, deployments[0].Ref())

	all, err := s.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	webOnly, err := s.List(context.Background(), "", "web")
	require.NoError(t, err)
	assert.Len(t, webOnly, 2)
}

func TestFileScanner_UnsupportedKind(t *testing.T) {
	_, err := NewFileScanner(t.TempDir()).List(context.Background(), "cronjob", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedKind))
}

func TestFileScanner_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "bad.yaml", "kind: [unclosed")

	_, err := NewFileScanner(dir).List(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestFileScanner_MissingPath(t *testing.T) {
	_, err := NewFileScanner("/does/not/exist").List(context.Background(), "", "")
	assert.Error(t, err)
}

func TestClusterScanner_List(t *testing.T) {
	cs := fake.NewSimpleClientset(
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "my-nginx", Namespace: "web", Labels: map[string]string{"app": "nginx"}},
		},
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "prod"},
		},
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "api"},
		},
	)
	s := NewClusterScanner(cs)

	deployments, err := s.List(context.Background(), "deploy", "")
	require.NoError(t, err)
	require.Len(t, deployments, 2)
	for _, d := range deployments {
		assert.Equal(t, "Deployment", d.Kind)
		assert.Equal(t, "apps/v1", d.APIVersion)
	}

	webOnly, err := s.List(context.Background(), "deployment", "web")
	require.NoError(t, err)
	require.Len(t, webOnly, 1)
	assert.Equal(t, "my-nginx", webOnly[0].Name)
	assert.Equal(t, map[string]string{"app": "nginx"}, webOnly[0].Labels())

	services, err := s.List(context.Background(), "svc", "")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Service", services[0].Kind)
}

func TestClusterScanner_UnsupportedKind(t *testing.T) {
	_, err := NewClusterScanner(fake.NewSimpleClientset()).List(context.Background(), "ingress", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedKind))
}
