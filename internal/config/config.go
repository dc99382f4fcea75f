// Package config loads schemaql configuration from CUE or JSON-with-comments
// files and builds the process logger from it.
//
// CUE files are unified with the embedded #Config schema, so type and enum
// violations are reported with the offending path. JSON files may carry
// comments and trailing commas. Both formats go through the same defaults
// and validation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/roach88/schemaql/internal/beandef"
	"github.com/roach88/schemaql/internal/dialect"
	"github.com/roach88/schemaql/internal/store"
)

var (
	// ErrInvalid reports a configuration value that fails validation.
	ErrInvalid = errors.New("invalid configuration")
	// ErrUnsupportedFormat reports a file extension Load cannot read.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

//go:embed schema.cue
var schemaSource []byte

type Config struct {
	Database Database `json:"database"`
	Beans    Beans    `json:"beans"`
	Log      Log      `json:"log"`
}

type Database struct {
	Vendor         string `json:"vendor"`
	Driver         string `json:"driver"`
	DSN            string `json:"dsn"`
	ProbeCacheSize int    `json:"probeCacheSize"`
}

type Beans struct {
	Roots          []string `json:"roots"`
	DefinitionType string   `json:"definitionType"`
	PropertyType   string   `json:"propertyType"`
}

type Log struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// Default returns the configuration used when no file is given: an
// in-memory SQLite database and the registry's default node types.
func Default() Config {
	return Config{
		Database: Database{
			Vendor:         string(dialect.VendorSQLite),
			Driver:         store.SQLiteDriver,
			DSN:            ":memory:",
			ProbeCacheSize: store.DefaultProbeCacheSize,
		},
		Beans: Beans{
			Roots:          []string{"/"},
			DefinitionType: beandef.DefaultDefinitionType,
			PropertyType:   beandef.DefaultPropertyType,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the file at path, fills unset fields from Default and
// validates the result. The format follows the extension: .cue, or .json
// and .hujson.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fileCfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		fileCfg, err = parseCUE(path, data)
	case ".json", ".hujson", ".jsonc":
		fileCfg, err = parseJSON(data)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg := merge(Default(), fileCfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.Database.Vendor != "" {
		base.Database.Vendor = overlay.Database.Vendor
	}
	if overlay.Database.Driver != "" {
		base.Database.Driver = overlay.Database.Driver
	}
	if overlay.Database.DSN != "" {
		base.Database.DSN = overlay.Database.DSN
	}
	if overlay.Database.ProbeCacheSize != 0 {
		base.Database.ProbeCacheSize = overlay.Database.ProbeCacheSize
	}
	if len(overlay.Beans.Roots) > 0 {
		base.Beans.Roots = overlay.Beans.Roots
	}
	if overlay.Beans.DefinitionType != "" {
		base.Beans.DefinitionType = overlay.Beans.DefinitionType
	}
	if overlay.Beans.PropertyType != "" {
		base.Beans.PropertyType = overlay.Beans.PropertyType
	}
	if overlay.Log.Level != "" {
		base.Log.Level = overlay.Log.Level
	}
	base.Log.Development = base.Log.Development || overlay.Log.Development
	return base
}

// Validate checks every field and reports the first failure with its path.
func (c Config) Validate() error {
	if _, err := dialect.ParseVendor(c.Database.Vendor); err != nil {
		return fieldError("database.vendor", err)
	}
	if c.Database.Driver == "" {
		return fieldError("database.driver", errors.New("must not be empty"))
	}
	if c.Database.ProbeCacheSize < 1 {
		return fieldError("database.probeCacheSize", fmt.Errorf("must be positive, got %d", c.Database.ProbeCacheSize))
	}
	for i, root := range c.Beans.Roots {
		if !path.IsAbs(root) {
			return fieldError(fmt.Sprintf("beans.roots[%d]", i), fmt.Errorf("%q is not absolute", root))
		}
	}
	if c.Beans.DefinitionType == c.Beans.PropertyType {
		return fieldError("beans.propertyType", fmt.Errorf("must differ from definitionType %q", c.Beans.DefinitionType))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fieldError("log.level", err)
	}
	return nil
}

// Vendor returns the parsed database vendor.
func (c Config) Vendor() dialect.Vendor {
	v, _ := dialect.ParseVendor(c.Database.Vendor)
	return v
}

func fieldError(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalid, field, err)
}
