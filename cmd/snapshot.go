package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	snapCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "record and compare generated artifact digests",
	}
	snapCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "snapshots/manifest.yaml", "snapshot manifest")

	var snapVersion string
	recordCmd := &cobra.Command{
		Use:   "record [in-dir]",
		Short: "record the digests of a generation run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c, args)
			if err != nil {
				return err
			}
			s, err := snapshot.Record(afero.NewOsFs(), opts, manifestPath, snapVersion)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("recorded %s %s: %s", s.Name, s.Version, diag.Summary(len(s.Digests), "file"))
			return nil
		},
	}
	recordCmd.Flags().StringVar(&snapVersion, "version", "", "snapshot version (default: bump the current one)")
	addOptionFlags(recordCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(afero.NewOsFs(), manifestPath)
			if err != nil {
				return err
			}
			for _, v := range m.Versions() {
				marker := " "
				switch v {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				fmt.Fprintf(c.OutOrStdout(), "%s %s\n", marker, v)
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "compare the current snapshot with the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(afero.NewOsFs(), manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				pterm.Success.Println("snapshots are identical")
				return nil
			}
			fmt.Fprint(c.OutOrStdout(), diff)
			return errors.New("snapshots differ")
		},
	}

	snapCmd.AddCommand(recordCmd, listCmd, diffCmd)
	return snapCmd
}
