package frontend

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/logger"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

// File is one loaded dump.
type File struct {
	// Path is the dump location on the file system.
	Path string
	Dump *Dump
	Unit *syntax.CompilationUnit
}

// Program holds every loaded file and the semantic facts of all of them.
type Program struct {
	Files []*File
	Table *semantic.Table
}

// Units returns the compilation units in load order.
func (p *Program) Units() []*syntax.CompilationUnit {
	out := make([]*syntax.CompilationUnit, 0, len(p.Files))
	for _, f := range p.Files {
		out = append(out, f.Unit)
	}
	return out
}

// Loader discovers and decodes the dumps under opts.InDir.
type Loader struct {
	fs   afero.Fs
	opts *options.Options
	rep  *diag.Reporter
	log  *zap.SugaredLogger
}

func NewLoader(fs afero.Fs, opts *options.Options, rep *diag.Reporter) *Loader {
	return &Loader{fs: fs, opts: opts, rep: rep, log: logger.Named("frontend")}
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Discover lists the dumps selected by the include and exclude globs. Globs
// match the slash separated path relative to InDir. The result is sorted.
func (l *Loader) Discover() ([]string, error) {
	include, err := compileGlobs(l.opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(l.opts.Exclude)
	if err != nil {
		return nil, err
	}

	root := l.opts.InDir
	var found []string
	err = afero.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(include, rel) || matchAny(exclude, rel) {
			return nil
		}
		found = append(found, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", root)
	}
	sort.Strings(found)
	return found, nil
}

// Load decodes every discovered dump. Front-end diagnostics go to the
// reporter; errors among them are counted and left for the caller to check.
func (l *Loader) Load() (*Program, error) {
	l.rep.SetStage(diag.StageFrontEnd)
	paths, err := l.Discover()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.WithHintf(errors.Newf("no dumps found in %s", l.opts.InDir),
			"export the sources with the front end, or check --include (%s)", strings.Join(l.opts.Include, ", "))
	}

	prog := &Program{Table: semantic.NewTable()}
	prog.Table.SetWellKnown(semantic.WellKnownLock, semantic.TypeID(l.opts.LockType))
	for _, p := range paths {
		f, err := l.LoadFile(p, prog.Table)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", p)
		}
		prog.Files = append(prog.Files, f)
	}
	l.log.Debugw("loaded", "files", len(prog.Files), "errors", l.rep.Count())
	return prog, nil
}

// LoadFile decodes one dump into table.
func (l *Loader) LoadFile(p string, table *semantic.Table) (*File, error) {
	r, err := l.fs.Open(p)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	d, err := Decode(r)
	if err != nil {
		return nil, err
	}
	source := d.File
	if source == "" {
		source = sourceOf(l.opts.InDir, p)
	}
	source = filepath.ToSlash(source)

	table.SetWellKnown(semantic.WellKnownLock, semantic.TypeID(d.WellKnown.Lock)).
		SetWellKnown(semantic.WellKnownObject, semantic.TypeID(d.WellKnown.Object)).
		SetWellKnown(semantic.WellKnownString, semantic.TypeID(d.WellKnown.String))

	for _, fd := range d.Diagnostics {
		l.report(source, fd)
	}

	c := &converter{file: source, table: table}
	root, err := c.node(d.Root)
	if err != nil {
		return nil, err
	}
	unit, ok := root.(*syntax.CompilationUnit)
	if !ok {
		return nil, errors.Newf("root must be a CompilationUnit, not %s", d.Root.Kind)
	}
	l.log.Debugw("file", "dump", p, "source", source, "members", len(unit.Members))
	return &File{Path: p, Dump: d, Unit: unit}, nil
}

// sourceOf derives the source path from a dump path: "src/A.csast.yaml"
// under "src" becomes "A.cs".
func sourceOf(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)
	ext := path.Ext(rel)
	return strings.TrimSuffix(strings.TrimSuffix(rel, ext), ".csast") + ".cs"
}

func (l *Loader) report(source string, fd Diagnostic) {
	if diag.SuppressedFrontEnd[fd.ID] {
		return
	}
	sev := diag.Severity(strings.ToLower(fd.Severity))
	switch sev {
	case diag.SeverityError, diag.SeverityWarning:
	default:
		sev = diag.SeverityInfo
	}
	l.rep.Add(diag.Diagnostic{
		Stage:    diag.StageFrontEnd,
		Severity: sev,
		Code:     diag.Code(fd.ID),
		Message:  fd.ID + ": " + fd.Message,
		Pos:      syntax.Pos{File: source, Line: fd.Line},
	})
}
