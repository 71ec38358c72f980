package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "library.db", cfg.DBFile)
	assert.Equal(t, "library.db", cfg.DBPath())
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOOKHUB_DATA_DIR", "/var/lib/bookhub")
	t.Setenv("BOOKHUB_EXPORT_DIR", "/tmp/exports")
	t.Setenv("BOOKHUB_BCRYPT_COST", "12")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/lib/bookhub", "library.db"), cfg.DBPath())
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/library\ndb_file: books.db\nlog_format: json\n"), 0o644))

	v := viper.New()
	v.Set(KeyConfigFile, path)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/library", "books.db"), cfg.DBPath())
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.Set(KeyConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"bcrypt cost too low", KeyBcryptCost, 1},
		{"db file with directory", KeyDBFile, "data/library.db"},
		{"empty db file", KeyDBFile, " "},
		{"unknown log format", KeyLogFormat, "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
