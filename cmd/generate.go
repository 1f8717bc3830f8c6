package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	genCmd := &cobra.Command{
		Use:     "generate [in-dir]",
		Aliases: []string{"gen"},
		Short:   "generate C++ sources",
		Long:    "Generate the header, sources, entry point and build.ninja of a project from its front-end dumps",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c, args)
			if err != nil {
				return err
			}
			res, err := generate.Generate(afero.NewOsFs(), opts)
			if res != nil && res.Tree != "" {
				fmt.Fprint(c.OutOrStdout(), res.Tree)
			}
			if err != nil {
				return err
			}
			warnings := 0
			for _, d := range res.Diagnostics {
				if d.Severity == diag.SeverityWarning {
					warnings++
				}
			}
			pterm.Success.Printfln("generated %s: %s, %s", opts.Target,
				diag.Summary(len(res.Artifacts), "file"), diag.Summary(warnings, "warning"))
			return nil
		},
	}
	addOptionFlags(genCmd)
	return genCmd
}
