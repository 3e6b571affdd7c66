package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/codepages/internal/structure"
)

func TestDefaultSchemaCoversDocumentFields(t *testing.T) {
	t.Parallel()

	reference, err := Default()
	require.NoError(t, err)

	paths := []structure.Path{
		{structure.Key("header"), structure.Key("title")},
		{structure.Key("sections"), structure.Index(3), structure.Key("content"), structure.Key("lineNumberStart")},
		{structure.Key("sections"), structure.Index(0), structure.Key("links"), structure.Index(2), structure.Key("matchIndex")},
		{structure.Key("sections"), structure.Index(0), structure.Key("links"), structure.Index(0), structure.Key("cssClass")},
	}
	for _, path := range paths {
		assert.True(t, structure.VerifyPath(path, reference).Exists, path.String())
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	schemaPath := filepath.Join(directory, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte("header:\n  title: x\n"), 0o600))

	reference, err := Load(schemaPath)
	require.NoError(t, err)
	_, hasSections := reference.Lookup("sections")
	assert.False(t, hasSections)

	_, err = Load(filepath.Join(directory, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadJSONSchema(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	schemaPath := filepath.Join(directory, "schema.JSON")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"header": {"title": "x"}, "sections": [{"links": [{"matchIndex": [0], "linkFile": "y"}]}]}`), 0o600))

	reference, err := Load(schemaPath)
	require.NoError(t, err)
	linkFile := structure.Path{structure.Key("sections"), structure.Index(2), structure.Key("links"), structure.Index(0), structure.Key("linkFile")}
	assert.True(t, structure.VerifyPath(linkFile, reference).Exists)
	assert.False(t, structure.VerifyPath(structure.Path{structure.Key("header"), structure.Key("permalink")}, reference).Exists)

	_, err = ParseJSON([]byte(`["a"]`), "list.json")
	require.Error(t, err)
	_, err = ParseJSON([]byte(`{"header": `), "broken.json")
	require.Error(t, err)
}

func TestParseRejectsNonMapping(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("- a\n- b\n"), "list.yaml")
	require.Error(t, err)

	_, err = Parse([]byte("header: [unclosed\n"), "broken.yaml")
	require.Error(t, err)
}
