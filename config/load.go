package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/logger"
)

// Project config file names, in lookup order
var projectFiles = []string{"javabind.toml", "uniffi.toml"}

// Load reads the configuration at path. An empty path searches the working
// directory and its parents; when nothing is found the defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindProjectConfig()
	}
	if path == "" {
		return LoadBytes(nil, "")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to read config file %s", path), errors.ErrInvalidConfig)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses a TOML document. source names it in messages.
//
// Tool settings go through viper so JAVABIND_* environment variables
// override them. Binding sections are decoded with BurntSushi/toml because
// viper folds key case, and custom type and crate names are case-sensitive.
func LoadBytes(data []byte, source string) (*Config, error) {
	v := newViper()
	if len(data) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to parse config %s", source), errors.ErrInvalidConfig)
		}
	}

	var tool struct {
		Javabind ToolConfig `mapstructure:"javabind"`
	}
	if err := v.Unmarshal(&tool); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to unmarshal config %s", source), errors.ErrInvalidConfig)
	}

	var file struct {
		Bindings   BindingsConfig        `toml:"bindings"`
		Components map[string]JavaConfig `toml:"components"`
		Javabind   toml.Primitive        `toml:"javabind"`
	}
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to decode bindings in %s", source), errors.ErrInvalidConfig)
	}

	cfg := &Config{
		Bindings:   file.Bindings,
		Components: file.Components,
		Javabind:   tool.Javabind,
		Source:     source,
		Undecoded:  undecodedKeys(md),
	}

	for _, key := range cfg.Undecoded {
		logger.Warnw("Unknown configuration key",
			logger.FieldFile, source,
			"key", key)
	}
	return cfg, nil
}

// newViper initializes Viper with environment binding and defaults
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetEnvPrefix("JAVABIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)
	return v
}

// undecodedKeys lists file keys outside [javabind] that no setting consumed.
// [javabind] is checked against the known tool keys instead, since it is
// decoded by viper.
func undecodedKeys(md toml.MetaData) []string {
	known := map[string]bool{}
	for _, k := range []string{
		"out_dir", "workers", "warn_on_partition_miss", "fail_on_partition_miss",
		"reserved_words", "carry_imports", "log_json", "format_command",
	} {
		known[k] = true
	}

	var keys []string
	for _, key := range md.Undecoded() {
		if len(key) > 0 && key[0] == "javabind" {
			if len(key) == 2 && known[key[1]] {
				continue
			}
			if len(key) == 1 {
				continue
			}
		}
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys
}

// FindProjectConfig walks up from the working directory looking for a
// config file. Returns "" when none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range projectFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
