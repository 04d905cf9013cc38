package parser

import "fmt"

// SyntaxError is a single parse failure at a known source location, one
// element of a CompileError's location list (spec.md §7.1).
type SyntaxError struct {
	File    string
	Line    int32
	Column  int
	Message string
}

func CreateSyntaxError(file string, line int32, column int, message string) SyntaxError {
	return SyntaxError{
		File:    file,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 Asteria syntax error:\n%s:%d:%d - %s", e.File, e.Line, e.Column, e.Message)
}
