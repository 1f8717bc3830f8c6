// Package diag collects diagnostics produced while generating code.
//
// Two tiers exist. Counted errors are recorded through a Reporter and checked
// at phase boundaries with Err. Unsupported constructs abort at once through
// Unsupported, which returns an error that callers pass straight up.
package diag

import (
	"fmt"
	"strconv"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// Stage identifies which phase produced the diagnostic.
type Stage string

const (
	StageFrontEnd Stage = "frontend"
	StageBuild    Stage = "build"
	StageCheck    Stage = "check"
	StageEmit     Stage = "emit"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeArrayRank       Code = "ARRAY_RANK"
	CodeArrayCreation   Code = "ARRAY_CREATION"
	CodeUnresolved      Code = "UNRESOLVED_SYMBOL"
	CodeLockType        Code = "LOCK_TYPE"
	CodeGotoCase        Code = "GOTO_CASE_TARGET"
	CodeNoBaseClass     Code = "NO_BASE_CLASS"
	CodeCrossReference  Code = "CROSS_REFERENCE"
	CodeDependencyCycle Code = "DEPENDENCY_CYCLE"
	CodeBaseListKind    Code = "BASE_LIST_KIND"
	CodeMissingFragment Code = "MISSING_FRAGMENT"
)

// SuppressedFrontEnd lists front-end diagnostic ids that are never shown.
// CS0626 warns about extern members without attributes, which is how
// runtime-provided methods are declared.
var SuppressedFrontEnd = map[string]bool{
	"CS0626": true,
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Stage    Stage    `json:"stage" yaml:"stage"`
	Severity Severity `json:"severity" yaml:"severity"`
	Code     Code     `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
	Pos      syntax.Pos
}

func (d Diagnostic) String() string {
	if d.Pos.Line == 0 && d.Pos.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// Reporter records diagnostics and counts errors.
type Reporter struct {
	log    *zap.SugaredLogger
	stage  Stage
	diags  []Diagnostic
	errors int
}

// NewReporter returns a Reporter logging through log. A nil log is replaced
// by a no-op logger.
func NewReporter(log *zap.SugaredLogger) *Reporter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reporter{log: log, stage: StageBuild}
}

// SetStage changes the stage attached to later diagnostics.
func (r *Reporter) SetStage(s Stage) { r.stage = s }

// Errorf records a counted error and keeps going.
func (r *Reporter) Errorf(pos syntax.Pos, code Code, format string, args ...any) {
	r.add(Diagnostic{Stage: r.stage, Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Warnf records a warning.
func (r *Reporter) Warnf(pos syntax.Pos, code Code, format string, args ...any) {
	r.add(Diagnostic{Stage: r.stage, Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Add records a diagnostic produced elsewhere, such as by the front end.
func (r *Reporter) Add(d Diagnostic) {
	if d.Stage == "" {
		d.Stage = r.stage
	}
	r.add(d)
}

func (r *Reporter) add(d Diagnostic) {
	r.diags = append(r.diags, d)
	kv := []any{"stage", d.Stage, "code", d.Code}
	if d.Pos.File != "" || d.Pos.Line != 0 {
		kv = append(kv, "at", d.Pos.String())
	}
	switch d.Severity {
	case SeverityError:
		r.errors++
		r.log.Errorw(d.Message, kv...)
	case SeverityWarning:
		r.log.Warnw(d.Message, kv...)
	default:
		r.log.Infow(d.Message, kv...)
	}
}

// Count returns the number of errors recorded so far.
func (r *Reporter) Count() int { return r.errors }

// Diagnostics returns everything recorded, in report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diags...)
}

// Err returns nil when no errors were recorded, otherwise an error marked
// with errors.ErrErrorsReported.
func (r *Reporter) Err() error {
	if r.errors == 0 {
		return nil
	}
	return errors.Mark(errors.Newf("%s", Summary(r.errors, "error")), errors.ErrErrorsReported)
}

// Summary renders a count with a pluralised noun: "1 error", "3 errors".
func Summary(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return strconv.Itoa(n) + " " + noun
}

// Unsupported returns the fatal error for a syntax variant that cannot be
// lowered in the given context.
func Unsupported(n syntax.Node, context string) error {
	var pos syntax.Pos
	if n != nil {
		pos = n.Position()
	}
	err := errors.Newf("%s not supported: %s in %s", context, syntax.KindOf(n), pos)
	return errors.Mark(err, errors.ErrUnsupported)
}

// IsUnsupported reports whether err came from Unsupported.
func IsUnsupported(err error) bool {
	return errors.Is(err, errors.ErrUnsupported)
}
