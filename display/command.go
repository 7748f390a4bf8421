package display

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ShouldOutputJSON determines if a command should output JSON based on flags
// and the JAVABIND_OUTPUT environment variable
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return jsonFromEnv()
	}

	// Check if --json flag was explicitly set
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Check global --json flag
	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return jsonFromEnv()
}

func jsonFromEnv() bool {
	return strings.HasPrefix(os.Getenv("JAVABIND_OUTPUT"), "json")
}
