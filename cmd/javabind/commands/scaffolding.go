package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/javabind/errors"
)

// ScaffoldingCmd exists so scripts written for other binding generators get a
// clear answer instead of an unknown command error
var ScaffoldingCmd = &cobra.Command{
	Use:   "scaffolding",
	Short: "Not supported: native scaffolding comes from the host framework",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.WithHint(
			errors.New("javabind does not generate native scaffolding"),
			"scaffolding for the compiled component is produced by the host framework (uniffi-bindgen scaffolding)",
		)
	},
}
