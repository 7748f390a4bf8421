package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for the tool settings
func SetDefaults(v *viper.Viper) {
	v.SetDefault("javabind.out_dir", ".")
	v.SetDefault("javabind.workers", 0) // one per CPU
	v.SetDefault("javabind.warn_on_partition_miss", true)
	v.SetDefault("javabind.fail_on_partition_miss", false)
	v.SetDefault("javabind.reserved_words", "escape")
	v.SetDefault("javabind.carry_imports", true)
	v.SetDefault("javabind.log_json", false)
	v.SetDefault("javabind.format_command", "")
}

// BindEnvVars binds tool settings to explicit environment variables
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("javabind.out_dir", "JAVABIND_OUT_DIR")
	v.BindEnv("javabind.workers", "JAVABIND_WORKERS")
	v.BindEnv("javabind.format_command", "JAVABIND_FORMAT_COMMAND")
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Javabind: ToolConfig{
			OutDir:              ".",
			WarnOnPartitionMiss: true,
			ReservedWords:       "escape",
			CarryImports:        true,
		},
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Package: %s, Components: %d, OutDir: %s, Workers: %d}",
		c.Bindings.Java.PackageName(), len(c.Components), c.Javabind.OutDir, c.Javabind.Workers)
}
