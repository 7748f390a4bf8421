package display

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/javabind/bindgen"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/logger"
	"github.com/teranos/javabind/partition"
)

// ReportView is the JSON shape of a generation report. Errors become strings
// with their hints, since error values do not marshal.
type ReportView struct {
	RunID          string            `json:"run_id"`
	DryRun         bool              `json:"dry_run,omitempty"`
	Packages       map[string]string `json:"packages"`
	Components     []ComponentView   `json:"components"`
	FormatWarnings []string          `json:"format_warnings,omitempty"`
	Files          int               `json:"files"`
	Failed         int               `json:"failed"`
}

// ComponentView is one component in a ReportView
type ComponentView struct {
	Namespace  string              `json:"namespace"`
	Package    string              `json:"package"`
	Files      []string            `json:"files"`
	InitFns    []string            `json:"init_fns,omitempty"`
	Warnings   []partition.Warning `json:"warnings,omitempty"`
	Error      string              `json:"error,omitempty"`
	Hints      []string            `json:"hints,omitempty"`
	DurationMS int64               `json:"duration_ms"`
}

// NewReportView converts a report for JSON output
func NewReportView(report *bindgen.Report, dryRun bool) ReportView {
	view := ReportView{
		RunID:          report.RunID,
		DryRun:         dryRun,
		Packages:       report.Packages,
		FormatWarnings: report.FormatWarnings,
		Files:          report.FileCount(),
	}
	for _, res := range report.Results {
		cv := ComponentView{
			Namespace:  res.Namespace,
			Package:    res.Package,
			Files:      res.Files,
			InitFns:    res.InitFns,
			Warnings:   res.Warnings,
			DurationMS: res.Duration.Milliseconds(),
		}
		if cv.Files == nil {
			cv.Files = []string{}
		}
		if res.Err != nil {
			cv.Error = res.Err.Error()
			cv.Hints = errors.GetAllHints(res.Err)
			view.Failed++
		}
		view.Components = append(view.Components, cv)
	}
	return view
}

// WriteReport prints a human summary of a run. Higher verbosity adds timing,
// resolved packages and the written file list.
func WriteReport(w io.Writer, report *bindgen.Report, verbosity int, dryRun bool) {
	if dryRun {
		fmt.Fprint(w, pterm.Warning.Sprintln("DRY RUN: nothing was written"))
	}

	if logger.ShouldOutput(verbosity, logger.OutputConfig) && len(report.Packages) > 0 {
		fmt.Fprint(w, pterm.Info.Sprintln("Resolved packages:"))
		for _, crate := range sortedKeys(report.Packages) {
			fmt.Fprintf(w, "  %s → %s\n", pterm.LightCyan(crate), report.Packages[crate])
		}
	}

	header := []string{"Component", "Package", "Files", "Warnings", "Status"}
	showTiming := logger.ShouldOutput(verbosity, logger.OutputTiming)
	if showTiming {
		header = append(header, "Time")
	}
	data := pterm.TableData{header}
	failed := 0
	for _, res := range report.Results {
		status := pterm.Green("ok")
		if !res.OK() {
			status = pterm.Red("failed")
			failed++
		}
		row := []string{
			res.Namespace,
			res.Package,
			strconv.Itoa(len(res.Files)),
			strconv.Itoa(len(res.Warnings)),
			status,
		}
		if showTiming {
			row = append(row, res.Duration.Round(time.Millisecond).String())
		}
		data = append(data, row)
	}
	if table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
		fmt.Fprintln(w, table)
	}

	if logger.ShouldOutput(verbosity, logger.OutputWarnings) {
		for _, res := range report.Results {
			for _, warn := range res.Warnings {
				fmt.Fprint(w, pterm.Warning.Sprintfln("%s: %s", res.Namespace, warn))
			}
		}
		for _, msg := range report.FormatWarnings {
			fmt.Fprint(w, pterm.Warning.Sprintfln("format: %s", msg))
		}
	}

	for _, res := range report.Results {
		if res.OK() {
			continue
		}
		fmt.Fprint(w, pterm.Error.Sprintfln("%s: %v", res.Namespace, res.Err))
		for _, hint := range errors.GetAllHints(res.Err) {
			fmt.Fprintf(w, "  %s %s\n", pterm.Gray("hint:"), hint)
		}
	}

	if logger.ShouldOutput(verbosity, logger.OutputFileList) {
		for _, res := range report.Results {
			for _, f := range res.Files {
				fmt.Fprintf(w, "  %s\n", f)
			}
		}
	}

	if failed == 0 {
		fmt.Fprint(w, pterm.Success.Sprintfln("Generated %d files for %d components", report.FileCount(), len(report.Results)))
	} else {
		fmt.Fprint(w, pterm.Error.Sprintfln("%d of %d components failed", failed, len(report.Results)))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
