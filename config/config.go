package config

import (
	"runtime"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/naming"
)

// Config represents the javabind configuration file
type Config struct {
	Bindings   BindingsConfig        `mapstructure:"bindings" toml:"bindings"`
	Components map[string]JavaConfig `mapstructure:"components" toml:"components,omitempty"`
	Javabind   ToolConfig            `mapstructure:"javabind" toml:"javabind"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `mapstructure:"-" toml:"-"`
	// Undecoded lists keys present in the file that no setting consumes
	Undecoded []string `mapstructure:"-" toml:"-"`
}

// BindingsConfig holds per-language binding settings
type BindingsConfig struct {
	Java JavaConfig `mapstructure:"java" toml:"java"`
}

// JavaConfig configures the Java bindings of one component
type JavaConfig struct {
	Package          string                      `mapstructure:"package_name" toml:"package_name,omitempty"`
	Cdylib           string                      `mapstructure:"cdylib_name" toml:"cdylib_name,omitempty"`
	ImmutableRecords *bool                       `mapstructure:"generate_immutable_records" toml:"generate_immutable_records,omitempty"`
	ExternalPackages map[string]string           `mapstructure:"external_packages" toml:"external_packages,omitempty"` // crate = "java.package"
	Android          *bool                       `mapstructure:"android" toml:"android,omitempty"`
	AndroidCleanerOn *bool                       `mapstructure:"android_cleaner" toml:"android_cleaner,omitempty"` // nil = follow android
	CustomTypes      map[string]CustomTypeConfig `mapstructure:"custom_types" toml:"custom_types,omitempty"`
}

// CustomTypeConfig describes how a custom type maps onto a Java class.
// IntoCustom and FromCustom are expressions where {} stands for the value.
type CustomTypeConfig struct {
	Imports    []string `mapstructure:"imports" toml:"imports,omitempty"`
	TypeName   string   `mapstructure:"type_name" toml:"type_name,omitempty"`
	IntoCustom string   `mapstructure:"into_custom" toml:"into_custom,omitempty"`
	FromCustom string   `mapstructure:"from_custom" toml:"from_custom,omitempty"`
}

// ToolConfig configures the generator itself
type ToolConfig struct {
	OutDir              string `mapstructure:"out_dir" toml:"out_dir"`
	Workers             int    `mapstructure:"workers" toml:"workers"` // 0 = one per CPU
	WarnOnPartitionMiss bool   `mapstructure:"warn_on_partition_miss" toml:"warn_on_partition_miss"`
	FailOnPartitionMiss bool   `mapstructure:"fail_on_partition_miss" toml:"fail_on_partition_miss"`
	ReservedWords       string `mapstructure:"reserved_words" toml:"reserved_words"` // escape | reject
	CarryImports        bool   `mapstructure:"carry_imports" toml:"carry_imports"`
	LogJSON             bool   `mapstructure:"log_json" toml:"log_json"`
	FormatCommand       string `mapstructure:"format_command" toml:"format_command,omitempty"` // e.g. "google-java-format -i"
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// DefaultPackageName is used when neither the file nor the resolver set a package
const DefaultPackageName = "uniffi"

// PackageName returns the configured Java package (default: uniffi)
func (c JavaConfig) PackageName() string {
	if c.Package == "" {
		return DefaultPackageName
	}
	return c.Package
}

// CdylibName returns the native library name (default: uniffi)
func (c JavaConfig) CdylibName() string {
	if c.Cdylib == "" {
		return DefaultPackageName
	}
	return c.Cdylib
}

// GenerateImmutableRecords reports whether records become Java records
func (c JavaConfig) GenerateImmutableRecords() bool {
	return c.ImmutableRecords != nil && *c.ImmutableRecords
}

// IsAndroid reports whether the bindings target Android
func (c JavaConfig) IsAndroid() bool {
	return c.Android != nil && *c.Android
}

// AndroidCleaner reports whether objects use the Android cleaner (default: IsAndroid)
func (c JavaConfig) AndroidCleaner() bool {
	if c.AndroidCleanerOn != nil {
		return *c.AndroidCleanerOn
	}
	return c.IsAndroid()
}

// CustomType returns the custom type settings for name, if configured
func (c JavaConfig) CustomType(name string) (CustomTypeConfig, bool) {
	ct, ok := c.CustomTypes[name]
	return ct, ok
}

// ExternalPackage returns the package configured for crate, if any
func (c JavaConfig) ExternalPackage(crate string) (string, bool) {
	pkg, ok := c.ExternalPackages[crate]
	return pkg, ok
}

// Merge returns c with every field set in override replacing c's value.
// Maps are merged key by key. Neither input is modified.
func (c JavaConfig) Merge(override JavaConfig) JavaConfig {
	out := c
	if override.Package != "" {
		out.Package = override.Package
	}
	if override.Cdylib != "" {
		out.Cdylib = override.Cdylib
	}
	if override.ImmutableRecords != nil {
		out.ImmutableRecords = override.ImmutableRecords
	}
	if override.Android != nil {
		out.Android = override.Android
	}
	if override.AndroidCleanerOn != nil {
		out.AndroidCleanerOn = override.AndroidCleanerOn
	}

	out.ExternalPackages = make(map[string]string, len(c.ExternalPackages)+len(override.ExternalPackages))
	for k, v := range c.ExternalPackages {
		out.ExternalPackages[k] = v
	}
	for k, v := range override.ExternalPackages {
		out.ExternalPackages[k] = v
	}

	out.CustomTypes = make(map[string]CustomTypeConfig, len(c.CustomTypes)+len(override.CustomTypes))
	for k, v := range c.CustomTypes {
		out.CustomTypes[k] = v
	}
	for k, v := range override.CustomTypes {
		out.CustomTypes[k] = v
	}
	return out
}

// ForComponent returns the Java settings for one component namespace:
// [bindings.java] overlaid with [components.<namespace>].
func (c *Config) ForComponent(namespace string) JavaConfig {
	base := c.Bindings.Java
	if override, ok := c.Components[namespace]; ok {
		return base.Merge(override)
	}
	return base.Merge(JavaConfig{})
}

// WorkerCount returns the render concurrency limit
func (t ToolConfig) WorkerCount() int {
	if t.Workers <= 0 {
		return runtime.NumCPU()
	}
	return t.Workers
}

// ReservedPolicy returns the reserved identifier policy
func (t ToolConfig) ReservedPolicy() (naming.ReservedPolicy, error) {
	return naming.ParseReservedPolicy(t.ReservedWords)
}

// FormatArgs splits the format command into argv, nil when unset
func (t ToolConfig) FormatArgs() ([]string, error) {
	if t.FormatCommand == "" {
		return nil, nil
	}
	args, err := shellquote.Split(t.FormatCommand)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "javabind.format_command %q", t.FormatCommand), errors.ErrInvalidConfig)
	}
	return args, nil
}

// Bool returns a pointer to b, for optional settings
func Bool(b bool) *bool {
	return &b
}
