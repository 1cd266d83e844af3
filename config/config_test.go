package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
field:
  handle: prices
  columns_label: Spalten
editor:
  debounce: 1s
rich_text:
  enabled: false
  language: de
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "prices", c.Field.Handle)
	assert.Equal(t, "Spalten", c.Field.ColumnsLabel)
	assert.Equal(t, time.Second, c.Editor.Debounce)
	assert.False(t, c.RichText.Enabled)
	assert.Equal(t, "de", c.RichText.Language)
	assert.Equal(t, 1, c.RichText.SiteID, "default kept")
	assert.Equal(t, "tablemaker.db", c.Store.Path, "default kept")
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "console", c.Log.Encoding)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "syntax", yaml: "field: ["},
		{name: "log level", yaml: "log:\n  level: loud"},
		{name: "negative debounce", yaml: "editor:\n  debounce: -1s"},
		{name: "handle with brackets", yaml: "field:\n  handle: a[b]"},
		{name: "empty handle", yaml: "field:\n  handle: ''"},
		{name: "site id", yaml: "rich_text:\n  site_id: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c, "missing file")

	c.Store.Path = "other.db"
	require.NoError(t, c.Write(path))

	t.Setenv(EnvConfigFile, path)
	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	require.NoError(t, os.WriteFile(path, []byte("log: {level: x}"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
