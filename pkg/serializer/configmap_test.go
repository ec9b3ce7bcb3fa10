package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		wantNamespace string
		wantName      string
		wantErr       bool
	}{
		{
			name:          "valid URI",
			uri:           "cm://ops/patchform-undo",
			wantNamespace: "ops",
			wantName:      "patchform-undo",
		},
		{
			name:          "valid URI with spaces",
			uri:           "cm://ops / patchform-undo ",
			wantNamespace: "ops",
			wantName:      "patchform-undo",
		},
		{
			name:          "valid URI with default namespace",
			uri:           "cm://default/records",
			wantNamespace: "default",
			wantName:      "records",
		},
		{name: "missing scheme", uri: "ops/patchform-undo", wantErr: true},
		{name: "wrong scheme", uri: "http://ops/patchform-undo", wantErr: true},
		{name: "missing name", uri: "cm://ops/", wantErr: true},
		{name: "missing namespace", uri: "cm:///patchform-undo", wantErr: true},
		{name: "missing separator", uri: "cm://ops", wantErr: true},
		{name: "empty URI", uri: "", wantErr: true},
		{name: "only scheme", uri: "cm://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, name, err := parseConfigMapURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNamespace, namespace)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestConfigMapWriter_Serialize(t *testing.T) {
	cs := fake.NewClientset()
	w := NewConfigMapWriterWithClient(cs, "ops", "undo-records", FormatYAML)

	require.NoError(t, w.Serialize(t.Context(), testRecords()))

	cm, err := cs.CoreV1().ConfigMaps("ops").Get(t.Context(), "undo-records", metav1.GetOptions{})
	require.NoError(t, err)

	assert.Equal(t, "yaml", cm.Data["format"])
	assert.NotEmpty(t, cm.Data["timestamp"])
	assert.Contains(t, cm.Data["content.yaml"], "kind: Deployment")
	assert.Equal(t, "patchform", cm.Labels["app.kubernetes.io/name"])
}

func TestConfigMapWriter_UnknownFormatDefaultsYAML(t *testing.T) {
	w := NewConfigMapWriterWithClient(fake.NewClientset(), "ops", "records", Format("table"))
	assert.Equal(t, FormatYAML, w.format)
}

func TestFromConfigMap_RoundTrip(t *testing.T) {
	cs := fake.NewClientset()
	w := NewConfigMapWriterWithClient(cs, "ops", "undo-records", FormatJSON)
	require.NoError(t, w.Serialize(t.Context(), testRecords()))

	got, err := fromConfigMap[[]undoRecord](cs, "ops", "undo-records")
	require.NoError(t, err)
	require.Len(t, *got, 2)
	assert.Equal(t, "Deployment", (*got)[0].Kind)
	assert.Equal(t, "api", (*got)[0].Namespace)
}

// A ConfigMap without a format key still reads through the YAML default.
func TestFromConfigMap_MissingFormatKey(t *testing.T) {
	cs := fake.NewClientset()
	w := NewConfigMapWriterWithClient(cs, "ops", "undo-records", FormatYAML)
	require.NoError(t, w.Serialize(t.Context(), testRecords()))

	cm, err := cs.CoreV1().ConfigMaps("ops").Get(t.Context(), "undo-records", metav1.GetOptions{})
	require.NoError(t, err)
	delete(cm.Data, "format")
	_, err = cs.CoreV1().ConfigMaps("ops").Update(t.Context(), cm, metav1.UpdateOptions{})
	require.NoError(t, err)

	got, err := fromConfigMap[[]undoRecord](cs, "ops", "undo-records")
	require.NoError(t, err)
	assert.Len(t, *got, 2)
}

func TestFromConfigMap_NoContent(t *testing.T) {
	cs := fake.NewClientset()
	w := NewConfigMapWriterWithClient(cs, "ops", "undo-records", FormatYAML)
	require.NoError(t, w.Serialize(t.Context(), testRecords()))

	cm, err := cs.CoreV1().ConfigMaps("ops").Get(t.Context(), "undo-records", metav1.GetOptions{})
	require.NoError(t, err)
	cm.Data = map[string]string{"format": "yaml"}
	_, err = cs.CoreV1().ConfigMaps("ops").Update(t.Context(), cm, metav1.UpdateOptions{})
	require.NoError(t, err)

	_, err = fromConfigMap[[]undoRecord](cs, "ops", "undo-records")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no serialized content")
}
