package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/schemaql/internal/dialect"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_CUE(t *testing.T) {
	cfg, err := Load("testdata/schemaql.cue")
	require.NoError(t, err)

	want := Config{
		Database: Database{
			Vendor:         "postgres",
			Driver:         "pgx",
			DSN:            "postgres://localhost/content",
			ProbeCacheSize: 32,
		},
		Beans: Beans{
			Roots:          []string{"/beans", "/shared/beans"},
			DefinitionType: "bean:definition",
			PropertyType:   "bean:property",
		},
		Log: Log{Level: "debug", Development: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, dialect.VendorPostgres, cfg.Vendor())
}

func TestLoad_HuJSON(t *testing.T) {
	cfg, err := Load("testdata/schemaql.hujson")
	require.NoError(t, err)

	assert.Equal(t, dialect.VendorMySQL8, cfg.Vendor())
	assert.Equal(t, "app@tcp(db:3306)/content", cfg.Database.DSN)
	assert.Equal(t, 256, cfg.Database.ProbeCacheSize)
	assert.Equal(t, []string{"/"}, cfg.Beans.Roots)
	assert.Equal(t, "app:type", cfg.Beans.DefinitionType)
	assert.Equal(t, "app:field", cfg.Beans.PropertyType)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EmptyFilesUseDefaults(t *testing.T) {
	for _, name := range []string{"empty.cue", "empty.json"} {
		t.Run(name, func(t *testing.T) {
			content := ""
			if filepath.Ext(name) == ".json" {
				content = "{}"
			}
			cfg, err := Load(writeConfig(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"cue bad vendor", "c.cue", `database: vendor: "oracle"`, "database.vendor"},
		{"cue unknown field", "c.cue", `databse: vendor: "h2"`, "databse"},
		{"cue negative cache", "c.cue", `database: probeCacheSize: -1`, "database.probeCacheSize"},
		{"cue relative root", "c.cue", `beans: roots: ["beans"]`, "beans.roots"},
		{"cue bad level", "c.cue", `log: level: "loud"`, "log.level"},
		{"cue syntax", "c.cue", `database: {`, ""},
		{"json bad vendor", "c.json", `{"database": {"vendor": "oracle"}}`, "database.vendor"},
		{"json unknown field", "c.json", `{"databse": {}}`, "databse"},
		{"json relative root", "c.json", `{"beans": {"roots": ["/ok", "bad"]}}`, "beans.roots[1]"},
		{"json same node types", "c.json", `{"beans": {"definitionType": "x", "propertyType": "x"}}`, "beans.propertyType"},
		{"json bad level", "c.json", `{"log": {"level": "loud"}}`, "log.level"},
		{"json syntax", "c.json", `{"database": `, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_FileProblems(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "c.toml", ""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(Log{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(Log{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(Log{Level: "loud"})
	assert.ErrorIs(t, err, ErrInvalid)
}
