package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/javabind/errors"
)

// errReported marks failures the run report already showed
var errReported = errors.New("reported")

// PrintError writes err and its hints for the terminal. Failures already
// listed in a run report are not repeated.
func PrintError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errReported) {
		return
	}
	fmt.Fprint(w, pterm.Error.Sprintln(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Gray("hint:"), hint)
	}
}
