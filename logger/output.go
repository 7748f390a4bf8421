package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults  OutputCategory = iota // Generated file summary
	OutputErrors                         // Errors with hints
	OutputWarnings                       // Partition misses, unknown config keys

	// Level 1 (-v)
	OutputProgress // Per-component progress

	// Level 2 (-vv)
	OutputTiming // Per-component timing
	OutputConfig // Effective configuration and resolved packages

	// Level 3 (-vvv)
	OutputFileList // Every written file
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:  VerbosityUser,
	OutputErrors:   VerbosityUser,
	OutputWarnings: VerbosityUser,
	OutputProgress: VerbosityInfo,
	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,
	OutputFileList: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
