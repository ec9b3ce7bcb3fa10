package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/intent"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

func TestPolicy_Defaults(t *testing.T) {
	p := New()
	assert.True(t, p.Protected("kube-system"))
	assert.True(t, p.Protected("kube-public"))
	assert.True(t, p.Protected("kube-node-lease"))
	assert.False(t, p.Protected("default"))
	assert.False(t, p.Protected(""))
}

func TestPolicy_CheckSelector(t *testing.T) {
	p := New()

	require.NoError(t, p.CheckSelector(intent.Selector{Kind: "Deployment", Namespace: "web"}))
	require.NoError(t, p.CheckSelector(intent.Selector{Kind: "Deployment"}))

	err := p.CheckSelector(intent.Selector{Kind: "Deployment", Namespace: "kube-system"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestPolicy_FilterCatalog(t *testing.T) {
	catalog := []*manifest.Resource{
		{Kind: "Deployment", Namespace: "web", Name: "a"},
		{Kind: "Deployment", Namespace: "kube-system", Name: "coredns"},
		{Kind: "Deployment", Namespace: "prod", Name: "b"},
	}

	got := New().FilterCatalog(catalog)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}

func TestPolicy_CustomNamespaces(t *testing.T) {
	p := New("prod")
	assert.True(t, p.Protected("prod"))
	assert.False(t, p.Protected("kube-system"))
	assert.Equal(t, []string{"prod"}, p.ProtectedNamespaces())
}
