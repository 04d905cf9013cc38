package runtime

import (
	"fmt"
	"strings"

	"asteria/parser"
)

// StatusCode enumerates the compile-error categories spec.md §4.2 names
// (semicolon_expected, closed_brace_expected, …). The exact numeric values
// are this implementation's own assignment; the source the spec distills
// from does not fix them.
type StatusCode int

const (
	StatusUnknown StatusCode = iota
	StatusSemicolonExpected
	StatusClosedParenExpected
	StatusClosedBraceExpected
	StatusClosedBracketExpected
	StatusIdentifierExpected
	StatusInvalidAssignmentTarget
	StatusUnexpectedToken
	StatusUnterminatedString
	StatusUnterminatedComment
	StatusInvalidNumberLiteral
	StatusBreakOutsideLoop
	StatusContinueOutsideLoop
)

// Location is a source position, used both as a compile error's primary
// location and as its optional unmatched-delimiter location.
type Location struct {
	File   string
	Line   int32
	Column int
}

func (l Location) String() string { return fmt.Sprintf("%s:%d", l.File, l.Line) }

// CompileError carries a status code, a primary location, an optional
// unmatched-delimiter location, and a human-readable message, per
// spec.md §7.1.
type CompileError struct {
	Status    StatusCode
	Message   string
	At        Location
	Unmatched *UnmatchedDelimiter
}

// UnmatchedDelimiter records the opening punctuator and location the
// parser points back to when a closing delimiter never arrived.
type UnmatchedDelimiter struct {
	Punct string
	At    Location
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compiler error: %s\n[status %d at '%s']", e.Message, e.Status, e.At)
	if e.Unmatched != nil {
		msg += fmt.Sprintf("\n[unmatched '%s' at '%s']", e.Unmatched.Punct, e.Unmatched.At)
	}
	return msg
}

// CompileErrors collects every error produced by a single compile attempt;
// the parser does not abort on the first error (it resynchronizes and
// keeps going) but the Compile API reports only the first, per spec.md §7.1
// ("Compile errors abort the compile API with the first error encountered").
type CompileErrors []*CompileError

func (errs CompileErrors) Error() string {
	if len(errs) == 0 {
		return "no compile errors"
	}
	return errs[0].Error()
}

// ClassifyCompileError adapts a parser.SyntaxError (positioned, but
// message-only) into a status-coded CompileError for the Compile API's
// public error surface, per spec.md §7.1. The parser itself stays
// message-only, matching the teacher's own parser error type; the status
// taxonomy only exists at this outer boundary.
func ClassifyCompileError(se parser.SyntaxError) *CompileError {
	return &CompileError{
		Status:  classifyMessage(se.Message),
		Message: se.Message,
		At:      Location{File: se.File, Line: se.Line, Column: se.Column},
	}
}

// ClassifyCompileErrors adapts a whole batch of parser errors, skipping any
// that are not a parser.SyntaxError (defensive: Parser.Parse's signature is
// []error, not []SyntaxError).
func ClassifyCompileErrors(errs []error) CompileErrors {
	out := make(CompileErrors, 0, len(errs))
	for _, err := range errs {
		if se, ok := err.(parser.SyntaxError); ok {
			out = append(out, ClassifyCompileError(se))
			continue
		}
		out = append(out, &CompileError{Status: classifyMessage(err.Error()), Message: err.Error()})
	}
	return out
}

func classifyMessage(msg string) StatusCode {
	switch {
	case strings.Contains(msg, "';'"):
		return StatusSemicolonExpected
	case strings.Contains(msg, "')'"):
		return StatusClosedParenExpected
	case strings.Contains(msg, "'}'"):
		return StatusClosedBraceExpected
	case strings.Contains(msg, "']'"):
		return StatusClosedBracketExpected
	case strings.Contains(msg, "identifier"):
		return StatusIdentifierExpected
	case strings.Contains(msg, "assignment target"):
		return StatusInvalidAssignmentTarget
	case strings.Contains(msg, "unclosed string literal") || strings.Contains(msg, "unterminated string"):
		return StatusUnterminatedString
	case strings.Contains(msg, "unterminated block comment") || strings.Contains(msg, "unterminated comment"):
		return StatusUnterminatedComment
	case strings.Contains(msg, "integer literal") || strings.Contains(msg, "real literal"):
		return StatusInvalidNumberLiteral
	case strings.Contains(msg, "outside of a loop or switch"):
		return StatusBreakOutsideLoop
	case strings.Contains(msg, "outside of a loop"):
		return StatusContinueOutsideLoop
	case strings.Contains(msg, "unrecognized expression") || strings.Contains(msg, "unexpected"):
		return StatusUnexpectedToken
	default:
		return StatusUnknown
	}
}
