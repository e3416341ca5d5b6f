// Package semantic runs the post-parse passes (function registry, function
// extraction, global-const evaluation, validation) that turn a glsl.Module
// into a typed.Shader, grounded on the teacher's wgsl/lower.go pass shape.
package semantic

import (
	"fmt"
	"strings"

	"github.com/ledfx/lpglsl/glsl"
)

// ErrorCode is the stable front-end diagnostic vocabulary (spec.md §4.1).
type ErrorCode string

const (
	ErrUndefinedFunction     ErrorCode = "E0101"
	ErrAssignTypeMismatch    ErrorCode = "E0102"
	ErrUndefinedIdent        ErrorCode = "E0103"
	ErrArgumentShapeMismatch ErrorCode = "E0104"
	ErrConstMissingInit      ErrorCode = "E0105"
	ErrNonIntegerIndex       ErrorCode = "E0106"
	ErrNonBoolCondition      ErrorCode = "E0107"
	ErrReturnTypeMismatch    ErrorCode = "E0108"
	ErrIndexOutOfBounds      ErrorCode = "E0109"
	ErrRedeclaration         ErrorCode = "E0110"
	ErrSwizzleMixedSet       ErrorCode = "E0111"
	ErrSwizzleTooLong        ErrorCode = "E0112"
	ErrSwizzleComponentOOB   ErrorCode = "E0113"
	ErrSwizzleOnNonVector    ErrorCode = "E0114"
)

// Diagnostic is one reported semantic error.
type Diagnostic struct {
	Code    ErrorCode
	Message string
	Span    glsl.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Span.Start.Line, d.Span.Start.Column, d.Code, d.Message)
}

// GlslDiagnostics is the ordered collection of semantic errors a compile
// call surfaces to its caller; it satisfies error so callers that only
// check "err != nil" still work.
type GlslDiagnostics struct {
	Errors []Diagnostic
	limit  int
}

// NewDiagnostics creates a sink that stops accepting new errors once limit
// is reached (0 means unlimited).
func NewDiagnostics(limit int) *GlslDiagnostics {
	return &GlslDiagnostics{limit: limit}
}

// Add appends a diagnostic unless the configured limit has been reached.
func (d *GlslDiagnostics) Add(code ErrorCode, span glsl.Span, format string, args ...interface{}) {
	if d.limit > 0 && len(d.Errors) >= d.limit {
		return
	}
	d.Errors = append(d.Errors, Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

// HasErrors reports whether any diagnostic was recorded.
func (d *GlslDiagnostics) HasErrors() bool { return len(d.Errors) > 0 }

func (d *GlslDiagnostics) Error() string {
	if len(d.Errors) == 0 {
		return "no errors"
	}
	var sb strings.Builder
	for i, e := range d.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}
