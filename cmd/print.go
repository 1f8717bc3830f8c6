package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/cs2cpp/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewPrintCommand())
}

func NewPrintCommand() *cobra.Command {
	printCmd := &cobra.Command{
		Use:   "print [in-dir]",
		Short: "print syntax trees",
		Long:  "Print the syntax trees and front-end diagnostics of the dumps without generating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c, args)
			if err != nil {
				return err
			}
			res, err := generate.Print(afero.NewOsFs(), opts)
			if err != nil {
				return err
			}
			fmt.Fprint(c.OutOrStdout(), res.Tree)
			return nil
		},
	}
	addOptionFlags(printCmd)
	return printCmd
}
