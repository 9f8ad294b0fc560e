package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/trovato/pkg/utils"
)

func TestDefaultSuite(t *testing.T) {
	suite := DefaultSuite()
	require.Len(t, suite, 10)

	kinds := map[Kind]int{}
	cjk := 0
	for _, c := range suite {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Query)
		kinds[c.Kind]++
		if utils.ContainsCJK(c.Query) {
			cjk++
		}
	}
	assert.Equal(t, 6, kinds[KindKeyword])
	assert.Equal(t, 4, kinds[KindNatural])
	assert.Equal(t, 4, cjk, "the natural-language half covers CJK queries")
}

func TestLoadSuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := `- name: http-client
  query: http client
  kind: keyword
- query: 如何解析JSON数据？
  kind: natural
- query: bare defaults
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	require.Len(t, suite, 3)

	assert.Equal(t, Case{Name: "http-client", Query: "http client", Kind: KindKeyword}, suite[0])
	// A missing name falls back to the query text.
	assert.Equal(t, "如何解析JSON数据？", suite[1].Name)
	assert.Equal(t, KindNatural, suite[1].Kind)
	// A missing kind defaults to keyword.
	assert.Equal(t, KindKeyword, suite[2].Kind)
}

func TestLoadSuiteRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := "- name: fuzzy\n  query: fuzzy search\n  kind: fuzzy\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadSuite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestLoadSuiteRejectsMissingQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: nameless\n"), 0644))

	_, err := LoadSuite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no query")
}

func TestLoadSuiteEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0644))

	_, err := LoadSuite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cases")
}

func TestLoadSuiteMissingFile(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
