package serializer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecords(t *testing.T, format Format, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	ser := NewFileWriterOrStdout(format, path)
	require.NoError(t, ser.Serialize(t.Context(), testRecords()))
	require.NoError(t, ser.(Closer).Close())
	return path
}

func TestFromFile_YAML(t *testing.T) {
	path := writeRecords(t, FormatYAML, "prior.yaml")

	got, err := FromFile[[]undoRecord](path)
	require.NoError(t, err)
	require.Len(t, *got, 2)
	assert.Equal(t, "web", (*got)[0].Name)
	assert.Equal(t, "apps/v1", (*got)[0].Prior["apiVersion"])
}

func TestFromFile_JSON(t *testing.T) {
	path := writeRecords(t, FormatJSON, "prior.json")

	got, err := FromFile[[]undoRecord](path)
	require.NoError(t, err)
	require.Len(t, *got, 2)
	assert.Equal(t, "Service", (*got)[1].Kind)
}

// Files without a recognized extension read as YAML, the format apply writes
// by default.
func TestFromFile_NoExtensionReadsYAML(t *testing.T) {
	path := writeRecords(t, FormatYAML, "prior")

	got, err := FromFile[[]undoRecord](path)
	require.NoError(t, err)
	assert.Len(t, *got, 2)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile[[]undoRecord](filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prior.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := FromFile[[]undoRecord](path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestFromFile_BadConfigMapURI(t *testing.T) {
	_, err := FromFile[[]undoRecord]("cm://missing-name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ConfigMap URI")
}
