// Package errors implements the single error type used throughout the
// policy pipeline: a tagged kind plus an optional (expression, pos)
// decoration that lets a caller render a one-line source snippet
// pointing at the offending byte.
package errors

import (
	"fmt"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// Kind categorizes a PolicyError the way a caller is expected to react to it.
type Kind int

const (
	// ValidationError means the policy document itself is malformed
	// (e.g. a path missing its capture entry name).
	ValidationError Kind = iota
	// EvaluationError means the policy parsed fine but failed against
	// the supplied state (missing key, type mismatch, unknown capture).
	EvaluationError
	// Bug marks a path that should be unreachable.
	Bug
	// NotImplemented marks AST shapes the path compiler refuses to lower.
	NotImplemented
	// NotSupported marks an operation a visitor deliberately rejects.
	NotSupported
)

func (k Kind) String() string {
	switch k {
	case ValidationError:
		return "ValidationError"
	case EvaluationError:
		return "EvaluationError"
	case Bug:
		return "Bug"
	case NotImplemented:
		return "NotImplemented"
	case NotSupported:
		return "NotSupported"
	default:
		return "UnknownError"
	}
}

// PolicyError is the one error type returned by every layer of the
// pipeline. Expression and Pos are filled in lazily as the error bubbles
// up through layers that know the source text it came from.
type PolicyError struct {
	Kind       Kind
	Msg        string
	expression string
	hasExpr    bool
	pos        int
}

// New creates a bare error of the given kind with no message or position.
func New(kind Kind) *PolicyError {
	return &PolicyError{Kind: kind}
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) *PolicyError {
	return &PolicyError{Kind: ValidationError, Msg: fmt.Sprintf(format, args...)}
}

// Evaluationf builds an EvaluationError with a formatted message.
func Evaluationf(format string, args ...interface{}) *PolicyError {
	return &PolicyError{Kind: EvaluationError, Msg: fmt.Sprintf(format, args...)}
}

// Wrap converts a foreign error (YAML, I/O, regex, ...) into an
// EvaluationError, preserving its message.
func Wrap(err error) *PolicyError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PolicyError); ok {
		return pe
	}
	return Evaluationf("%s", err.Error())
}

// Error implements the error interface. With an expression attached the
// message is followed by a source-pointer snippet on its own line(s).
func (e *PolicyError) Error() string {
	if !e.hasExpr {
		return e.Msg
	}
	return fmt.Sprintf("%s\n%s", e.Msg, Snippet(e.expression, e.pos))
}

// Pos returns the decorated byte position, or 0 if none was set.
func (e *PolicyError) Pos() int { return e.pos }

// Expression returns the decorated source expression, if any.
func (e *PolicyError) Expression() (string, bool) { return e.expression, e.hasExpr }

// Decorate attaches the source expression and byte position that a
// message refers to. Safe to call on a nil-cause chain; never
// overwrites a position a lower layer already claimed.
func (e *PolicyError) Decorate(expression string, pos int) *PolicyError {
	e.expression = expression
	e.hasExpr = true
	return e.WithPos(pos)
}

// WithPos records pos as the error's position, unless a position was
// already recorded — position is written once, by the innermost layer
// that knows it.
func (e *PolicyError) WithPos(pos int) *PolicyError {
	if e.pos == 0 {
		e.pos = pos
	}
	return e
}

// WithContext prefixes msg with ctx, idempotently: calling it twice with
// the same ctx never double-prefixes.
func (e *PolicyError) WithContext(ctx string) *PolicyError {
	if !strings.Contains(e.Msg, ctx) {
		e.Msg = fmt.Sprintf("%s: %s", ctx, e.Msg)
	}
	return e
}

// Resolver, EqFilter, Replace, and Path are the named contexts every
// layer of the pipeline may stamp onto a bubbling error.
func (e *PolicyError) Resolver() *PolicyError { return e.WithContext("resolve error") }
func (e *PolicyError) EqFilter() *PolicyError { return e.WithContext("eqfilter error") }
func (e *PolicyError) Replace() *PolicyError  { return e.WithContext("replace error") }
func (e *PolicyError) Path(pos int) *PolicyError {
	return e.WithPos(pos).WithContext("invalid path")
}

// ColorizedError renders the error the way the CLI prints it to a
// terminal: the kind in red, the message, and the snippet underneath.
func ColorizedError(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := err.(*PolicyError); ok {
		return ansi.Sprintf("@R{%s}: %s", pe.Kind.String(), pe.Error())
	}
	return ansi.Sprintf("@R{error}: %s", err.Error())
}
