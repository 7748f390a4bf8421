// Package bindgen drives a generation run: resolve every component, then
// render, partition and write each one.
//
// Resolution is a barrier. It finishes for all components before any of them
// renders, and its output is only read afterwards, so the per-component work
// runs in parallel without locks. A failing component records its error in
// its own Result and never stops its siblings.
package bindgen

import (
	"context"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/javabind/codetype"
	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/logger"
	"github.com/teranos/javabind/naming"
	"github.com/teranos/javabind/partition"
	"github.com/teranos/javabind/render"
	"github.com/teranos/javabind/resolve"
	"github.com/teranos/javabind/sink"
)

// Component is one interface description with its configuration.
type Component = resolve.Component

// CommandRunner runs the format command. Tests replace it.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Options configure a Generator.
type Options struct {
	Tool config.ToolConfig
	Sink sink.Sink
	// NoFormat skips javabind.format_command.
	NoFormat bool
	Runner   CommandRunner
	Logger   *zap.SugaredLogger
}

// Result is the outcome for one component.
type Result struct {
	Namespace string              `json:"namespace"`
	Package   string              `json:"package"`
	Files     []string            `json:"files"`
	InitFns   []string            `json:"init_fns,omitempty"`
	Warnings  []partition.Warning `json:"warnings,omitempty"`
	Err       error               `json:"-"`
	Duration  time.Duration       `json:"duration"`
}

// OK reports whether the component was generated and written.
func (r Result) OK() bool { return r.Err == nil }

// Report is the outcome of one run.
type Report struct {
	RunID   string   `json:"run_id"`
	Results []Result `json:"results"`
	// Packages maps crate to Java package, as resolved for the run.
	Packages       map[string]string `json:"packages"`
	FormatWarnings []string          `json:"format_warnings,omitempty"`
}

// Err combines the errors of every failed component, nil when all succeeded.
func (r *Report) Err() error {
	var combined error
	for _, res := range r.Results {
		if res.Err != nil {
			combined = errors.CombineErrors(combined, errors.Wrapf(res.Err, "component %s", res.Namespace))
		}
	}
	return combined
}

// FileCount returns the number of files written.
func (r *Report) FileCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Files)
	}
	return n
}

// Generator runs generation for a set of components.
type Generator struct {
	opts   Options
	policy naming.ReservedPolicy
	format []string
	logger *zap.SugaredLogger
}

// New validates the tool settings and returns a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Sink == nil {
		return nil, errors.New("bindgen: no output sink")
	}
	policy, err := opts.Tool.ReservedPolicy()
	if err != nil {
		return nil, err
	}
	format, err := opts.Tool.FormatArgs()
	if err != nil {
		return nil, err
	}
	if opts.Runner == nil {
		opts.Runner = execRunner
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("bindgen")
	}
	return &Generator{opts: opts, policy: policy, format: format, logger: log}, nil
}

// Generate resolves components, then generates each one concurrently,
// at most Tool.WorkerCount() at a time. The returned error covers the run
// as a whole (resolution, cancellation); per-component failures are in
// the Report.
func (g *Generator) Generate(ctx context.Context, components []Component) (*Report, error) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.LoggerFromContext(ctx, g.logger)
	start := time.Now()

	table, resolved, err := resolve.Resolve(components)
	if err != nil {
		return nil, errors.Wrap(err, "resolve component packages")
	}

	report := &Report{
		RunID:    runID,
		Results:  make([]Result, len(resolved)),
		Packages: make(map[string]string, table.Len()),
	}
	for _, crate := range table.Crates() {
		pkg, _ := table.Package(crate)
		report.Packages[crate] = pkg
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Tool.WorkerCount())
	for i := range resolved {
		c := resolved[i]
		eg.Go(func() error {
			report.Results[i] = g.generateOne(egctx, c)
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return report, errors.Wrap(err, "generation cancelled")
	}

	if !g.opts.NoFormat && len(g.format) > 0 {
		report.FormatWarnings = g.runFormat(ctx, report)
	}

	log.Infow("Generation finished",
		logger.FieldCount, len(report.Results),
		"files", report.FileCount(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return report, nil
}

func (g *Generator) generateOne(ctx context.Context, c Component) (out Result) {
	start := time.Now()
	ns := c.Namespace()
	ctx = logger.WithComponent(ctx, ns)
	log := logger.LoggerFromContext(ctx, g.logger)

	res := Result{Namespace: ns, Package: c.Config.PackageName()}
	finish := func(err error) Result {
		res.Err = err
		res.Duration = time.Since(start)
		if err != nil {
			res.Files = nil
			log.Errorw("Component failed", logger.FieldError, err)
		}
		return res
	}

	// A malformed model must not take its siblings down with it.
	defer func() {
		if p := recover(); p != nil {
			log.Errorw("Panic while generating component", "panic", p)
			g.rollback(ctx, res.Files)
			out = finish(errors.Newf("generating %s panicked: %v", ns, p))
		}
	}()

	if err := ctx.Err(); err != nil {
		return finish(err)
	}

	doc, err := render.Render(codetype.New(c.CI, c.Config), render.Options{
		Reserved: g.policy,
		Logger:   log.Named("render"),
	})
	if err != nil {
		return finish(err)
	}
	res.InitFns = doc.InitFns

	parts, err := partition.Split(doc.Document, doc.Package, partition.Options{
		CarryImports: g.opts.Tool.CarryImports,
		FailOnMiss:   g.opts.Tool.FailOnPartitionMiss,
		Logger:       log.Named("partition"),
	})
	if err != nil {
		return finish(err)
	}
	for _, w := range parts.Warnings {
		if w.Code == partition.CodePartitionMiss && !g.opts.Tool.WarnOnPartitionMiss {
			continue
		}
		res.Warnings = append(res.Warnings, w)
	}

	for _, u := range parts.Units {
		if err := sink.ValidatePath(u.Path); err != nil {
			return finish(errors.Wrapf(err, "unit %s", u.Path))
		}
	}
	for _, u := range parts.Units {
		if err := g.opts.Sink.WriteFile(ctx, u.Path, []byte(u.Content)); err != nil {
			g.rollback(ctx, res.Files)
			return finish(errors.Wrapf(err, "write %s", u.Path))
		}
		res.Files = append(res.Files, u.Path)
	}

	log.Infow("Generated component",
		logger.FieldPackage, res.Package,
		logger.FieldCount, len(res.Files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return finish(nil)
}

// rollback removes the files a failed component already wrote, so that a
// component lands either completely or not at all. Sinks that cannot remove
// keep what they have.
func (g *Generator) rollback(ctx context.Context, paths []string) {
	rm, ok := g.opts.Sink.(sink.Remover)
	if !ok || len(paths) == 0 {
		return
	}
	// the run context may be what failed the write
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := rm.Remove(ctx, p); err != nil {
			g.logger.Warnw("Failed to remove partial output", logger.FieldPath, p, logger.FieldError, err)
		}
	}
}

// runFormat runs the format command once per written package directory.
// It only applies to filesystem output. Failures come back as warnings.
func (g *Generator) runFormat(ctx context.Context, report *Report) []string {
	fs, ok := g.opts.Sink.(*sink.FilesystemSink)
	if !ok {
		return nil
	}

	dirs := make(map[string]bool)
	for _, res := range report.Results {
		if res.OK() && len(res.Files) > 0 {
			dirs[filepath.Join(fs.Root, filepath.FromSlash(partition.Dir(res.Package)))] = true
		}
	}
	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	var warnings []string
	for _, dir := range sorted {
		args := append(append([]string{}, g.format[1:]...), dir)
		out, err := g.opts.Runner(ctx, g.format[0], args...)
		if err != nil {
			msg := g.format[0] + " " + dir + ": " + err.Error()
			if len(out) > 0 {
				msg += ": " + string(out)
			}
			warnings = append(warnings, msg)
			g.logger.Warnw("Format command failed", logger.FieldDir, dir, logger.FieldError, err)
		}
	}
	return warnings
}
