package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/display"
	"github.com/teranos/javabind/errors"
)

// ConfigCmd groups the configuration commands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage javabind configuration",
	Long: `Display, validate and create javabind configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (JAVABIND_* prefix, [javabind] settings only)
3. Project config (javabind.toml or uniffi.toml, searched upwards)
4. Default values

Examples:
  javabind config show                  # Show effective configuration
  javabind config show --format yaml    # Show it as YAML
  javabind config validate              # Check the project config
  javabind config init --package com.example.app --cdylib app`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a starter javabind.toml",
	Long: `Write a starter configuration. PATH defaults to javabind.toml.
An existing file is only replaced with --force; the previous content is kept
in rotating .back1, .back2 and .back3 files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	ConfigCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: search for javabind.toml)")

	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	configInitCmd.Flags().String("package", "", "Java package for [bindings.java]")
	configInitCmd.Flags().String("cdylib", "", "Native library name for [bindings.java]")
	configInitCmd.Flags().Bool("force", false, "Replace an existing file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return display.WriteJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# javabind configuration\n%s", data)

	case "toml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# javabind configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := cfg.Source
	if source == "" {
		source = "defaults (no config file found)"
	}
	for _, key := range cfg.Undecoded {
		fmt.Fprint(out, pterm.Warning.Sprintfln("unknown key %s", key))
	}
	fmt.Fprint(out, pterm.Success.Sprintfln("Configuration is valid: %s", source))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "javabind.toml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(errors.Newf("%s already exists", path), "use --force to replace it")
	}

	pkg, _ := cmd.Flags().GetString("package")
	cdylib, _ := cmd.Flags().GetString("cdylib")
	cfg := config.Starter(pkg, cdylib)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.WriteFile(path, cfg); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("Wrote %s", path))
	return nil
}
