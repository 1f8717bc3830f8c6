// Package ninja renders the build.ninja descriptor that compiles the
// generated sources against the runtime library.
package ninja

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/cmmoran/cs2cpp/pkg/options"
)

// Marker is the first line of every generated descriptor.
const Marker = "# cs2cpp : Machine generated code : Do not edit!\n"

type toolchain struct {
	obj, lib, exe, dll string
	sep                string
}

var (
	linux   = toolchain{obj: ".o", lib: ".a", exe: "", dll: ".so", sep: "/"}
	windows = toolchain{obj: ".obj", lib: ".lib", exe: ".exe", dll: ".dll", sep: "\\"}
)

// Build collects the compile units of one run.
type Build struct {
	opts *options.Options
	tc   toolchain
	cpp  strings.Builder
	objs []string
}

// New starts a descriptor for opts.
func New(opts *options.Options) *Build {
	b := &Build{opts: opts, tc: linux}
	if opts.Windows() {
		b.tc = windows
	}
	return b
}

// Source adds the object built from OutDir/<stem>.cpp.
func (b *Build) Source(stem string) {
	obj := "obj/" + stem + b.tc.obj
	src := b.opts.OutDir + b.tc.sep + stem + ".cpp"
	b.cpp.WriteString("build " + escape(obj) + " : cpp " + escape(src) + "\n")
	b.objs = append(b.objs, escape(obj))
}

// String renders the complete descriptor.
func (b *Build) String() string {
	var sb strings.Builder
	sb.WriteString(Marker)
	if b.opts.Windows() {
		b.windowsHeader(&sb)
	} else {
		b.linuxHeader(&sb)
	}
	sb.WriteString(b.cpp.String())
	sb.WriteString(b.target())
	for _, o := range b.objs {
		sb.WriteString(" ")
		sb.WriteString(o)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (b *Build) target() string {
	name := escape(b.opts.Target)
	switch {
	case b.opts.Library && b.opts.Shared:
		return "build " + name + b.tc.dll + " : dll"
	case b.opts.Library:
		return "build " + name + b.tc.lib + " : lib"
	default:
		return "build " + name + b.tc.exe + " : exe"
	}
}

func (b *Build) linuxHeader(sb *strings.Builder) {
	o := b.opts
	sb.WriteString("cflags = -std=c++17 -fPIC")
	if o.Debug {
		sb.WriteString(" -g")
	} else {
		sb.WriteString(" -O")
	}
	if o.NoNPEChecks {
		sb.WriteString(" -DCCSHARP_NO_NPE_CHECKS")
	}
	if o.NoABEChecks {
		sb.WriteString(" -DCCSHARP_NO_ABE_CHECKS")
	}
	if o.Qt5 {
		sb.WriteString(" -I /usr/include/x86_64-linux-gnu/qt5/QtCore")
		sb.WriteString(" -I /usr/include/x86_64-linux-gnu/qt5")
	}
	sb.WriteString(" -I " + quote(o.Home+"/include"))
	sb.WriteString(" -I .\n")

	sb.WriteString("linkflags = -lstdc++ -lpthread -L " + quote(o.Home+"/lib"))
	if o.Qt5 {
		sb.WriteString(" -L /usr/lib/x86_64-linux-gnu")
	}
	sb.WriteString("\n")

	sb.WriteString("libs =")
	if o.Qt5 {
		sb.WriteString(" -lQt5Core -lQt5Network")
	}
	for _, lib := range o.Libs() {
		sb.WriteString(" -l" + quote(lib))
	}
	sb.WriteString("\n")
	sb.WriteString("dllflags = -shared\n")

	sb.WriteString("rule cpp\n  command = gcc $cflags $linkflags -c $in -o $out\n")
	sb.WriteString("rule exe\n  command = gcc $cflags $linkflags $in $libs -o $out\n")
	sb.WriteString("rule dll\n  command = gcc $cflags $linkflags $dllflags $in $libs -o $out\n")
	sb.WriteString("rule lib\n  command = ar qf $out $in\n")
}

func (b *Build) windowsHeader(sb *strings.Builder) {
	o := b.opts
	home := strings.ReplaceAll(o.Home, "/", "\\")
	sb.WriteString("cflags = /nologo /EHsc /MD /std:c++17")
	if o.Debug {
		sb.WriteString(" /Zi")
	} else {
		sb.WriteString(" /O2")
	}
	if o.NoNPEChecks {
		sb.WriteString(" /DCCSHARP_NO_NPE_CHECKS")
	}
	if o.NoABEChecks {
		sb.WriteString(" /DCCSHARP_NO_ABE_CHECKS")
	}
	sb.WriteString(" /I " + winQuote(home+"\\include"))
	sb.WriteString(" /I .\n")

	sb.WriteString("linkflags = /link /LIBPATH:" + winQuote(home+"\\lib"))
	if o.Console {
		sb.WriteString(" /subsystem:console")
	}
	sb.WriteString("\n")

	sb.WriteString("libs =")
	if o.Qt5 {
		sb.WriteString(" qt5core.lib qt5network.lib")
	}
	for _, lib := range o.Libs() {
		sb.WriteString(" " + winQuote(lib+".lib"))
	}
	sb.WriteString("\n")
	sb.WriteString("dllflags = /LD")
	if o.Debug {
		sb.WriteString("d")
	}
	sb.WriteString("\n")

	pdb := ""
	if o.Debug {
		pdb = " /Fd$out.pdb"
	}
	sb.WriteString("rule cpp\n  command = cl.exe $cflags /c $in /Fo:$out" + pdb + " $linkflags\n")
	sb.WriteString("rule exe\n  command = cl.exe $cflags $in $libs /Fe:$out" + pdb + " $linkflags\n")
	sb.WriteString("rule dll\n  command = cl.exe $cflags $dllflags $in $libs /Fe:$out" + pdb + " $linkflags\n")
	sb.WriteString("rule lib\n  command = lib.exe $in /out:$out\n")
}

// quote shell-quotes a command argument. Ninja variables pass through
// unquoted, so a "$" is escaped for ninja afterwards.
func quote(arg string) string {
	return strings.ReplaceAll(shellquote.Join(arg), "$", "$$")
}

// winQuote double-quotes an argument for cl.exe when it holds blanks.
// Backslashes are path separators there and stay as they are.
func winQuote(arg string) string {
	arg = strings.ReplaceAll(arg, "$", "$$")
	if !strings.ContainsAny(arg, " \t") {
		return arg
	}
	return `"` + arg + `"`
}

// escape makes a path safe in a build statement.
func escape(p string) string {
	return strings.NewReplacer("$", "$$", " ", "$ ", ":", "$:").Replace(p)
}
