package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

// addOptionFlags registers the build options on cmd. Every flag maps to the
// config key of the same name with "-" replaced by "_".
func addOptionFlags(cmd *cobra.Command) {
	d := options.NewOptions()
	f := cmd.Flags()
	f.StringP("in-dir", "i", d.InDir, "directory holding the front-end dumps")
	f.StringP("target", "t", "", "project name (default: base name of --in-dir)")
	f.StringP("out-dir", "o", d.OutDir, "directory generated sources are written to")
	f.Bool("library", false, "build a library instead of an executable")
	f.Bool("shared", false, "build a shared library (requires --library and --main)")
	f.String("service", "", "run the executable as the named Windows service")
	f.Bool("console", false, "link as a console application")
	f.StringP("main", "m", "", "class holding the entry point, ex: App.Program")
	f.StringSliceP("refs", "r", nil, "reference libraries to link against")
	f.String("home", "", "installation folder holding include/ and lib/")
	f.Bool("debug", false, "debug build")
	f.Bool("no-npe-checks", false, "compile out null pointer checks")
	f.Bool("no-abe-checks", false, "compile out array bounds checks")
	f.Bool("corelib", false, "generating the runtime library itself")
	f.Bool("qt5", false, "add Qt5 include and link paths")
	f.String("print", "", "print the syntax trees while generating: tokens, tostring or all")
	f.String("platform", d.Platform, "build descriptor flavour: linux or windows")
	f.StringSlice("include", d.Include, "globs selecting dumps below --in-dir")
	f.StringSlice("exclude", d.Exclude, "globs dropping selected dumps")
	f.String("lock-type", d.LockType, "identity of the type lock statements accept")
	f.Bool("fragments", false, "warn about missing hand-written fragments")
}

// loadOptions merges flags, environment and config files into Options, in
// that order of priority. A positional argument overrides --in-dir.
func loadOptions(cmd *cobra.Command, args []string) (*options.Options, error) {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, errors.Wrap(bindErr, "bind flags")
	}

	opts := options.NewOptions()
	if err := viper.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "decode options")
	}
	if len(args) > 0 {
		opts.InDir = args[0]
	}
	opts.Normalize()
	return opts, nil
}
