package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the resource descriptors",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Descriptors are valid. Found %d resources:\n", reg.Len())
		for _, name := range reg.Names() {
			d, _ := reg.Get(name)
			fmt.Fprintf(out, "  - %s (table %s, %d joins)\n", name, d.Table, len(d.Joins))
		}
		return nil
	},
}
