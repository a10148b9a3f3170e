package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func script(name string) string {
	return "name: \"" + name + "\"\nsteps:\n  - Step one\n"
}

func TestLoadCollection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".version", "2.0.0\n")
	// Filenames deliberately out of identifier order.
	writeFile(t, dir, "TC-B.yaml", script("[TC-B-2.1] Second"))
	writeFile(t, dir, "TC-A.yaml", script("[TC-A-1.1] First"))
	// Not matching the TC* pattern, must be ignored.
	writeFile(t, dir, "helper.yaml", script("[TC-C-1.1] Helper"))

	collection, err := LoadCollection("SDK Test Definitions", Folder{Path: dir}, log.New())
	require.NoError(t, err)
	require.Len(t, collection.Suites, 1)

	suite := collection.Suites[0]
	assert.Equal(t, AutomatedSuiteName, suite.Name)
	assert.Equal(t, SuiteFamilySDK, suite.FamilyType)
	assert.Equal(t, "2.0.0", suite.Version)

	require.Len(t, suite.Cases, 2)
	assert.Equal(t, "TC-A-1.1", suite.Cases[0].Identifier)
	assert.Equal(t, "TC-B-2.1", suite.Cases[1].Identifier)
	assert.Equal(t, "2.0.0", suite.Cases[0].Version)
}

func TestLoadCollectionSkipsMalformedScripts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TC-GOOD.yaml", script("[TC-GOOD-1.1] Good"))
	writeFile(t, dir, "TC-CORRUPT.yaml", "name: [unclosed\nnot yaml at all")
	writeFile(t, dir, "TC-NOSTEPS.yaml", "name: TC-NOSTEPS-1\n")

	collection, err := LoadCollection("SDK Test Definitions", Folder{Path: dir}, log.New())
	require.NoError(t, err, "malformed scripts must not abort the load")

	cases := collection.Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, "TC-GOOD-1.1", cases[0].Identifier)
}

func TestLoadCollectionMissingVersionFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TC-A.yaml", script("[TC-A-1.1] First"))

	collection, err := LoadCollection("SDK Test Definitions", Folder{Path: dir}, log.New())
	require.NoError(t, err)
	assert.Equal(t, unknownVersion, collection.Suites[0].Version)
}

func TestLoadCollectionCustomPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "XX-A.yaml", script("[TC-A-1.1] First"))
	writeFile(t, dir, "TC-B.yaml", script("[TC-B-2.1] Second"))

	collection, err := LoadCollection("Custom", Folder{Path: dir, Pattern: "XX*"}, log.New())
	require.NoError(t, err)

	cases := collection.Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, "TC-A-1.1", cases[0].Identifier)
}

func TestLoadCustomCollectionEmptyFolder(t *testing.T) {
	collection, err := LoadCustomCollection("Custom Test Definitions", Folder{Path: t.TempDir()}, log.New())
	require.NoError(t, err)
	assert.Nil(t, collection, "an empty custom folder yields no collection at all")
}

func TestLoadCustomCollectionWithCases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TC-A.yaml", script("[TC-A-1.1] First"))

	collection, err := LoadCustomCollection("Custom Test Definitions", Folder{Path: dir}, log.New())
	require.NoError(t, err)
	require.NotNil(t, collection)
	assert.Len(t, collection.Cases(), 1)
}
