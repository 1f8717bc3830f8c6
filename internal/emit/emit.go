// Package emit renders the sorted program into the generated header, one
// source per input file, the static initializer unit, the entry point and
// the build descriptor.
package emit

import (
	"os"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/cmmoran/cs2cpp/internal/builder"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/logger"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/ninja"
	"github.com/cmmoran/cs2cpp/internal/syntax"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

// Marker is the first line of every generated source.
const Marker = "// cs2cpp : Machine generated code : Do not edit!\n"

// Artifact is one generated file. Path is slash separated and relative to
// the project root.
type Artifact struct {
	Path    string
	Content string
}

// Emitter renders artifacts. Optional hand-written fragments are read from
// fs, relative to the project root.
type Emitter struct {
	opts *options.Options
	fs   afero.Fs
	rep  *diag.Reporter
	log  *zap.SugaredLogger
}

func New(opts *options.Options, fs afero.Fs, rep *diag.Reporter) *Emitter {
	return &Emitter{
		opts: opts,
		fs:   fs,
		rep:  rep,
		log:  logger.Named("emit"),
	}
}

// Emit renders every artifact of prog. sorted is the dependency ordered
// top-level class list; the program's files keep source order for
// everything else. Artifacts are returned in a fixed order.
func (e *Emitter) Emit(prog *model.Program, sorted []*model.Class) ([]Artifact, error) {
	e.rep.SetStage(diag.StageEmit)
	var out []Artifact
	add := func(name, content string) {
		e.log.Debugw("artifact", "path", name, "bytes", len(content))
		out = append(out, Artifact{Path: name, Content: content})
	}
	build := ninja.New(e.opts)

	hpp, err := e.header(prog, sorted)
	if err != nil {
		return nil, err
	}
	add(e.outPath(e.headerName()), hpp)

	for _, f := range prog.Files {
		src, err := e.source(f)
		if err != nil {
			return nil, err
		}
		add(e.outPath(f.Base+".cpp"), src)
		build.Source(f.Base)
	}

	if e.opts.Library {
		lib, ok, err := e.fragment("library.cpp")
		if err != nil {
			return nil, err
		}
		if ok {
			add(e.outPath("library.cpp"), Marker+lib)
		}
	}

	add(e.outPath("ctor.cpp"), e.staticInit(prog))
	build.Source("ctor")

	if e.opts.Main != "" {
		if e.opts.Library {
			add(e.outPath("main.cpp"), e.libraryMain())
		} else {
			add(e.outPath("main.cpp"), e.executableMain())
		}
		build.Source("main")
	}

	add("build.ninja", build.String())
	return out, nil
}

// Write stores artifacts on fs, creating directories as needed.
func Write(fs afero.Fs, artifacts []Artifact) error {
	for _, a := range artifacts {
		if dir := path.Dir(a.Path); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrapf(err, "create %s", dir)
			}
		}
		if err := afero.WriteFile(fs, a.Path, []byte(a.Content), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", a.Path)
		}
	}
	return nil
}

func (e *Emitter) headerName() string { return e.opts.Target + ".hpp" }

func (e *Emitter) outPath(name string) string {
	return path.Join(e.opts.OutDir, name)
}

func (e *Emitter) include() string {
	return "#include \"" + e.headerName() + "\"\n"
}

// fragment reads an optional hand-written file. A missing file is not an
// error; it is only reported when fragment warnings are enabled.
func (e *Emitter) fragment(name string) (string, bool, error) {
	data, err := afero.ReadFile(e.fs, name)
	switch {
	case err == nil:
		return string(data), true, nil
	case errors.Is(err, os.ErrNotExist):
		if e.opts.Fragments {
			e.rep.Warnf(syntax.Pos{File: name}, diag.CodeMissingFragment, "optional fragment %s not found", name)
		}
		return "", false, nil
	default:
		return "", false, errors.Wrapf(err, "read fragment %s", name)
	}
}

// inTemplate reports whether c or any enclosing class is generic. Members of
// such classes are defined inline in the header.
func inTemplate(c *model.Class) bool {
	for ; c != nil; c = c.Outer {
		if c.Generic {
			return true
		}
	}
	return false
}

func isRoot(c *model.Class) bool { return c.NSFullName == builder.RootObject }
