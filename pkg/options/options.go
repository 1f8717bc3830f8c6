package options

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cmmoran/cs2cpp/internal/errors"
)

const (
	PlatformLinux   = "linux"
	PlatformWindows = "windows"
)

// Print modes for the syntax tree dump.
const (
	PrintTree     = ""
	PrintTokens   = "tokens"
	PrintToString = "tostring"
	PrintAll      = "all"
)

// Options control one generation run.
//
// InDir       – directory holding the front-end dumps
// Target      – project name; names the header, the library and the executable
// OutDir      – directory generated sources are written to, relative to the working dir
// Library     – build a library instead of an executable
// Shared      – build a shared library (dll, so); requires Library and Main
// Service     – Windows service name; the executable runs under the service dispatcher
// Console     – link as a console application
// Main        – class holding the entry point, dotted or "::" separated
// Refs        – reference libraries; their base names become link libraries
// Home        – installation folder holding include/ and lib/
// Debug       – debug build; the entry call is not wrapped in a catch-all
// NoNPEChecks – compile out null pointer checks
// NoABEChecks – compile out array bounds checks
// CoreLib     – the runtime library itself is being built
// Qt5         – add Qt5 include and link paths
// Print       – syntax tree print mode: "", tokens, tostring or all
// Platform    – linux or windows; selects the build descriptor flavour
// Include     – globs selecting dumps under InDir
// Exclude     – globs dropping dumps selected by Include
// LockType    – identity token of the only type lock statements accept
// Fragments   – warn when optional hand-written fragments are absent
type Options struct {
	InDir       string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	Target      string   `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty" mapstructure:"target,omitempty"`
	OutDir      string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	Library     bool     `json:"library,omitempty" yaml:"library,omitempty" toml:"library,omitempty" mapstructure:"library,omitempty"`
	Shared      bool     `json:"shared,omitempty" yaml:"shared,omitempty" toml:"shared,omitempty" mapstructure:"shared,omitempty"`
	Service     string   `json:"service,omitempty" yaml:"service,omitempty" toml:"service,omitempty" mapstructure:"service,omitempty"`
	Console     bool     `json:"console,omitempty" yaml:"console,omitempty" toml:"console,omitempty" mapstructure:"console,omitempty"`
	Main        string   `json:"main,omitempty" yaml:"main,omitempty" toml:"main,omitempty" mapstructure:"main,omitempty"`
	Refs        []string `json:"refs,omitempty" yaml:"refs,omitempty" toml:"refs,omitempty" mapstructure:"refs,omitempty"`
	Home        string   `json:"home,omitempty" yaml:"home,omitempty" toml:"home,omitempty" mapstructure:"home,omitempty"`
	Debug       bool     `json:"debug,omitempty" yaml:"debug,omitempty" toml:"debug,omitempty" mapstructure:"debug,omitempty"`
	NoNPEChecks bool     `json:"no_npe_checks,omitempty" yaml:"no_npe_checks,omitempty" toml:"no_npe_checks,omitempty" mapstructure:"no_npe_checks,omitempty"`
	NoABEChecks bool     `json:"no_abe_checks,omitempty" yaml:"no_abe_checks,omitempty" toml:"no_abe_checks,omitempty" mapstructure:"no_abe_checks,omitempty"`
	CoreLib     bool     `json:"corelib,omitempty" yaml:"corelib,omitempty" toml:"corelib,omitempty" mapstructure:"corelib,omitempty"`
	Qt5         bool     `json:"qt5,omitempty" yaml:"qt5,omitempty" toml:"qt5,omitempty" mapstructure:"qt5,omitempty"`
	Print       string   `json:"print,omitempty" yaml:"print,omitempty" toml:"print,omitempty" mapstructure:"print,omitempty"`
	Platform    string   `json:"platform,omitempty" yaml:"platform,omitempty" toml:"platform,omitempty" mapstructure:"platform,omitempty"`
	Include     []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty" mapstructure:"include,omitempty"`
	Exclude     []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" mapstructure:"exclude,omitempty"`
	LockType    string   `json:"lock_type,omitempty" yaml:"lock_type,omitempty" toml:"lock_type,omitempty" mapstructure:"lock_type,omitempty"`
	Fragments   bool     `json:"fragments,omitempty" yaml:"fragments,omitempty" toml:"fragments,omitempty" mapstructure:"fragments,omitempty"`
}

// DefaultInclude selects every dump the front end writes.
var DefaultInclude = []string{"**.csast.{yaml,yml,json}"}

// DefaultExclude drops assembly metadata and framework shims.
var DefaultExclude = []string{"**AssemblyInfo**", "**NETCoreApp**"}

func NewOptions() *Options {
	return &Options{
		InDir:    ".",
		OutDir:   "cpp",
		Platform: hostPlatform(),
		Include:  append([]string(nil), DefaultInclude...),
		Exclude:  append([]string(nil), DefaultExclude...),
		LockType: "Core.ThreadLock",
	}
}

func hostPlatform() string {
	if runtime.GOOS == PlatformWindows {
		return PlatformWindows
	}
	return PlatformLinux
}

// Normalize fills defaults and converts separators. It does not reject
// anything; see Validate.
func (o *Options) Normalize() {
	if len(o.InDir) == 0 {
		o.InDir = "."
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "cpp"
	}
	if len(o.Target) == 0 {
		abs, err := filepath.Abs(o.InDir)
		if err == nil {
			o.Target = filepath.Base(abs)
		}
	}
	o.Main = strings.ReplaceAll(o.Main, ".", "::")
	o.Home = filepath.ToSlash(o.Home)
	for i, r := range o.Refs {
		o.Refs[i] = strings.ReplaceAll(r, "\\", "/")
	}
	o.Platform = strings.ToLower(o.Platform)
	if o.Platform == "" {
		o.Platform = hostPlatform()
	}
	if len(o.Include) == 0 {
		o.Include = append([]string(nil), DefaultInclude...)
	}
	if o.Exclude == nil {
		o.Exclude = append([]string(nil), DefaultExclude...)
	}
	if o.LockType == "" {
		o.LockType = "Core.ThreadLock"
	}
}

// Validate rejects option combinations that cannot produce a build. Errors
// are marked with errors.ErrInvalidOptions.
func (o *Options) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.Mark(errors.Newf(format, args...), errors.ErrInvalidOptions)
	}
	switch {
	case o.Target == "":
		return invalid("target name required")
	case o.Shared && !o.Library:
		return invalid("--shared requires --library")
	case o.CoreLib && !o.Library:
		return invalid("--corelib requires --library")
	case o.Shared && o.Main == "":
		return invalid("--shared requires --main")
	case o.Service != "" && o.Library:
		return invalid("--service can not be a --library")
	case o.Service != "" && o.Main == "":
		return invalid("--service requires --main")
	case !o.Library && o.Main == "":
		return errors.WithHint(invalid("application requires --main"), "pass --library to build a library instead")
	}
	switch o.Platform {
	case PlatformLinux, PlatformWindows:
	default:
		return invalid("unknown platform %q", o.Platform)
	}
	switch o.Print {
	case PrintTree, PrintTokens, PrintToString, PrintAll:
	default:
		return invalid("unknown print mode %q", o.Print)
	}
	return nil
}

// Libs returns the link library names of Refs: "lib/Foo.dll" -> "Foo".
func (o *Options) Libs() []string {
	out := make([]string, 0, len(o.Refs))
	for _, r := range o.Refs {
		base := path.Base(strings.ReplaceAll(r, "\\", "/"))
		if i := strings.Index(base, "."); i != -1 {
			base = base[:i]
		}
		out = append(out, base)
	}
	return out
}

// Executable reports whether the run produces a program rather than a library.
func (o *Options) Executable() bool { return !o.Library }

func (o *Options) Windows() bool { return o.Platform == PlatformWindows }

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option    { return func(o *Options) { o.InDir = d } }
func WithTarget(t string) Option   { return func(o *Options) { o.Target = t } }
func WithOutDir(d string) Option   { return func(o *Options) { o.OutDir = d } }
func WithLibrary() Option          { return func(o *Options) { o.Library = true } }
func WithShared() Option           { return func(o *Options) { o.Shared = true } }
func WithService(n string) Option  { return func(o *Options) { o.Service = n } }
func WithConsole() Option          { return func(o *Options) { o.Console = true } }
func WithMain(c string) Option     { return func(o *Options) { o.Main = c } }
func WithHome(h string) Option     { return func(o *Options) { o.Home = h } }
func WithDebug() Option            { return func(o *Options) { o.Debug = true } }
func WithCoreLib() Option          { return func(o *Options) { o.CoreLib = true } }
func WithQt5() Option              { return func(o *Options) { o.Qt5 = true } }
func WithPlatform(p string) Option { return func(o *Options) { o.Platform = p } }
func WithPrint(mode string) Option { return func(o *Options) { o.Print = mode } }
func WithLockType(t string) Option { return func(o *Options) { o.LockType = t } }
func WithFragmentWarnings() Option { return func(o *Options) { o.Fragments = true } }
func WithNoNPEChecks() Option      { return func(o *Options) { o.NoNPEChecks = true } }
func WithNoABEChecks() Option      { return func(o *Options) { o.NoABEChecks = true } }
func WithRefs(refs ...string) Option {
	return func(o *Options) {
		for _, r := range refs {
			o.Refs = append(o.Refs, strings.TrimSpace(r))
		}
	}
}
func WithInclude(globs ...string) Option {
	return func(o *Options) { o.Include = append(o.Include, globs...) }
}
func WithExclude(globs ...string) Option {
	return func(o *Options) { o.Exclude = append(o.Exclude, globs...) }
}

// Apply runs opts against o.
func (o *Options) Apply(opts ...Option) *Options {
	for _, fn := range opts {
		fn(o)
	}
	return o
}
