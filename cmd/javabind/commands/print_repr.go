package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/javabind/ir"
)

// PrintReprCmd prints the decoded model of descriptions
var PrintReprCmd = &cobra.Command{
	Use:   "print-repr DESCRIPTION...",
	Short: "Print the decoded model of a description",
	Long: `Decode interface descriptions and print what the generator sees:
types, enums, records, objects, callback interfaces, functions and the FFI
surface, one YAML document per component.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var all []*ir.ComponentInterface
		for _, path := range args {
			cis, err := decodeDescription(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			all = append(all, cis...)
		}
		data, err := ir.MarshalRepr(all)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
