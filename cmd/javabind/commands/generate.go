package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/javabind/bindgen"
	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/display"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/logger"
	"github.com/teranos/javabind/sink"
)

// GenerateCmd generates Java sources for interface descriptions
var GenerateCmd = &cobra.Command{
	Use:   "generate DESCRIPTION...",
	Short: "Generate Java bindings",
	Long: `Generate Java (JNA) bindings for one or more interface descriptions.

All descriptions given in one run are resolved together, so types one
component imports from another land in the right package. A description
file may hold several components as a YAML stream. Use - to read stdin.

Settings come from javabind.toml (or uniffi.toml) in the working directory
or a parent, overridden by JAVABIND_* environment variables and flags.

Examples:
  javabind generate arithmetic.yaml
  javabind generate --out-dir build/generated shared.yaml consumer.yaml
  javabind generate --dry-run --json geometry.yaml
  javabind generate --watch *.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringP("out-dir", "o", "", "Output root for generated sources (default: javabind.out_dir)")
	GenerateCmd.Flags().StringP("config", "c", "", "Config file (default: search for javabind.toml)")
	GenerateCmd.Flags().IntP("workers", "w", 0, "Components rendered in parallel (default: javabind.workers)")
	GenerateCmd.Flags().Bool("watch", false, "Regenerate when the config or a description changes")
	GenerateCmd.Flags().BoolP("json", "j", false, "Output the run report as JSON")
	GenerateCmd.Flags().Bool("no-format", false, "Skip javabind.format_command")
	GenerateCmd.Flags().Bool("dry-run", false, "Generate in memory without writing files")
}

// generateOptions are the flags of one generate invocation
type generateOptions struct {
	configPath   string
	outDir       string
	workers      int
	workersSet   bool
	noFormat     bool
	dryRun       bool
	jsonOutput   bool
	verbosity    int
	descriptions []string
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := generateOptions{descriptions: args}
	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.outDir, _ = cmd.Flags().GetString("out-dir")
	opts.workers, _ = cmd.Flags().GetInt("workers")
	opts.workersSet = cmd.Flags().Changed("workers")
	opts.noFormat, _ = cmd.Flags().GetBool("no-format")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.jsonOutput = display.ShouldOutputJSON(cmd)
	opts.verbosity, _ = cmd.Flags().GetCount("verbose")
	watch, _ := cmd.Flags().GetBool("watch")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !watch {
		return generate(ctx, cmd, opts)
	}
	if containsStdin(opts.descriptions) {
		return errors.WithHint(errors.New("--watch cannot read descriptions from stdin"), "pass description files")
	}
	return watchAndGenerate(ctx, cmd, opts)
}

// generate runs one generation pass. The config is loaded on every pass so
// watch mode picks up edits.
func generate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		cfg.Javabind.OutDir = opts.outDir
	}
	if opts.workersSet {
		cfg.Javabind.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Javabind.LogJSON {
		if err := logger.Initialize(true, opts.verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}
	if logger.ShouldOutput(opts.verbosity, logger.OutputConfig) {
		logger.Debugw("Effective configuration",
			logger.FieldFile, cfg.Source,
			"config", cfg.String())
	}

	components, err := loadComponents(cmd.InOrStdin(), cfg, opts.descriptions)
	if err != nil {
		return err
	}

	var out sink.Sink
	if opts.dryRun {
		out = sink.NewMemorySink()
	} else {
		out = sink.NewFilesystemSink(cfg.Javabind.OutDir)
	}

	gen, err := bindgen.New(bindgen.Options{
		Tool:     cfg.Javabind,
		Sink:     out,
		NoFormat: opts.noFormat || opts.dryRun,
		Logger:   logger.ComponentLogger("generate"),
	})
	if err != nil {
		return err
	}

	report, err := gen.Generate(ctx, components)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		if err := display.WriteJSON(cmd.OutOrStdout(), display.NewReportView(report, opts.dryRun)); err != nil {
			return err
		}
	} else {
		display.WriteReport(cmd.OutOrStdout(), report, opts.verbosity, opts.dryRun)
	}

	if failed := report.Err(); failed != nil {
		return errors.Mark(errors.Wrap(failed, "generation failed"), errReported)
	}
	return nil
}

// watchAndGenerate generates once, then again after every change to the
// config or a description, until ctx is cancelled
func watchAndGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	paths := append([]string{}, opts.descriptions...)
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.FindProjectConfig()
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	w, err := config.NewWatcher(paths...)
	if err != nil {
		return err
	}
	w.OnChange(func(ctx context.Context) error {
		return generate(ctx, cmd, opts)
	})

	if err := generate(ctx, cmd, opts); err != nil {
		PrintError(cmd.ErrOrStderr(), err)
	}
	logger.Infow("Watching for changes",
		logger.FieldCount, len(paths))
	return w.Run(ctx)
}

// loadComponents decodes every description and attaches its configuration
func loadComponents(stdin io.Reader, cfg *config.Config, paths []string) ([]bindgen.Component, error) {
	var components []bindgen.Component
	for _, path := range paths {
		cis, err := decodeDescription(stdin, path)
		if err != nil {
			return nil, err
		}
		for _, ci := range cis {
			components = append(components, bindgen.Component{
				CI:     ci,
				Config: cfg.ForComponent(ci.Namespace),
			})
		}
	}
	return components, nil
}

func decodeDescription(stdin io.Reader, path string) ([]*ir.ComponentInterface, error) {
	if path == "-" {
		cis, err := ir.Decode(stdin)
		return cis, errors.Wrap(err, "stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open description %s", path)
	}
	defer f.Close()
	cis, err := ir.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cis, nil
}

func containsStdin(paths []string) bool {
	for _, p := range paths {
		if p == "-" {
			return true
		}
	}
	return false
}
