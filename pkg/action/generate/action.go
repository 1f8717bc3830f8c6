// Package generate runs the whole pipeline: load the dumps, build the entity
// model, check and order the classes, render and write the artifacts.
package generate

import (
	"github.com/spf13/afero"

	"github.com/cmmoran/cs2cpp/internal/builder"
	"github.com/cmmoran/cs2cpp/internal/depsort"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/emit"
	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/frontend"
	"github.com/cmmoran/cs2cpp/internal/logger"
	"github.com/cmmoran/cs2cpp/internal/lower"
	"github.com/cmmoran/cs2cpp/internal/treeprint"
	"github.com/cmmoran/cs2cpp/internal/typemap"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

// Result describes one run. Diagnostics are filled even when the run fails
// at a phase boundary.
type Result struct {
	Artifacts   []emit.Artifact
	Diagnostics []diag.Diagnostic
	// Tree holds the rendered dumps when opts.Print is set.
	Tree string
}

// Render runs every phase without writing anything.
func Render(fs afero.Fs, opts *options.Options) (*Result, error) {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("generate")
	rep := diag.NewReporter(logger.Named("diag"))
	res := &Result{}
	fail := func(err error) (*Result, error) {
		res.Diagnostics = rep.Diagnostics()
		return res, err
	}

	prog, err := frontend.NewLoader(fs, opts, rep).Load()
	if err != nil {
		return fail(err)
	}
	if opts.Print != options.PrintTree {
		if res.Tree, err = treeprint.Render(prog.Files, opts.Print); err != nil {
			return fail(err)
		}
	}
	if err = rep.Err(); err != nil {
		return fail(errors.WithHint(err, "fix the front-end errors before generating"))
	}

	types := typemap.New(prog.Table, rep)
	model, err := builder.NewBuilder(types, lower.New(types, rep), rep).BuildAll(prog.Units())
	if err != nil {
		return fail(err)
	}
	if err = rep.Err(); err != nil {
		return fail(err)
	}

	classes := depsort.Flatten(model)
	if depsort.Check(classes, rep) > 0 {
		return fail(errors.WithHint(rep.Err(), "break the cycle by holding one side through an interface"))
	}
	if opts.CoreLib {
		classes = depsort.PinCore(classes)
	}
	sorted, err := depsort.Sort(classes)
	if err != nil {
		return fail(err)
	}
	log.Debugw("sorted", "classes", len(sorted))

	res.Artifacts, err = emit.New(opts, fs, rep).Emit(model, sorted)
	if err != nil {
		return fail(err)
	}
	if err = rep.Err(); err != nil {
		return fail(err)
	}
	res.Diagnostics = rep.Diagnostics()
	return res, nil
}

// Generate renders the artifacts and writes them below the working directory
// of fs.
func Generate(fs afero.Fs, opts *options.Options) (*Result, error) {
	res, err := Render(fs, opts)
	if err != nil {
		return res, err
	}
	if err = emit.Write(fs, res.Artifacts); err != nil {
		return res, err
	}
	logger.Named("generate").Infow("generated", "target", opts.Target, "artifacts", len(res.Artifacts))
	return res, nil
}

// Print loads the dumps and renders their trees without generating.
func Print(fs afero.Fs, opts *options.Options) (*Result, error) {
	opts.Normalize()
	rep := diag.NewReporter(logger.Named("diag"))
	prog, err := frontend.NewLoader(fs, opts, rep).Load()
	if err != nil {
		return nil, err
	}
	tree, err := treeprint.Render(prog.Files, opts.Print)
	if err != nil {
		return nil, err
	}
	return &Result{Tree: tree, Diagnostics: rep.Diagnostics()}, nil
}
