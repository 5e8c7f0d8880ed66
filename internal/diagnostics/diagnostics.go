// Package diagnostics formats compile-time errors with a source-span caret,
// grounded on the teacher's file:line:col diagnostic convention.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/nxlang/nx/internal/token"
)

// Stage identifies which pipeline phase raised the error.
type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageResolve  Stage = "resolve"
	StageCompile  Stage = "compile"
)

// Error is a single compile-time diagnostic.
type Error struct {
	Stage   Stage
	Token   token.Token
	Message string
	File    string
}

func New(stage Stage, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{Stage: stage, Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s error: %s\n  --> %s:%d:%d", e.Stage, e.Message, file, e.Token.Line, e.Token.Column)
}

// SourceCaret renders the offending line of src with a caret under the token's column.
func SourceCaret(src string, tok token.Token) string {
	lines := strings.Split(src, "\n")
	if tok.Line < 1 || tok.Line > len(lines) {
		return ""
	}
	line := lines[tok.Line-1]
	col := tok.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	caret := strings.Repeat(" ", col-1) + "^"
	return line + "\n" + caret
}

// Report formats every error in errs against src, one block per error.
func Report(errs []*Error, src string) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Error())
		b.WriteString("\n")
		if span := SourceCaret(src, e.Token); span != "" {
			b.WriteString(span)
			b.WriteString("\n")
		}
	}
	return b.String()
}
