// Package diag defines the error taxonomy shared by the compiler stages.
// Each stage reports failures as an *Error tagged with the stage that produced
// it; the first error aborts the whole compilation.
package diag

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
)

// Stage identifies the pipeline stage that failed
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageCodeGen
)

func (s Stage) String() string {
	names := []string{"lex", "parse", "codegen"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Sentinels for classifying errors with errors.Is
var (
	ErrLex     = errors.New("lex error")
	ErrParse   = errors.New("parse error")
	ErrCodeGen = errors.New("codegen error")
)

// Error is a stage-tagged diagnostic carrying a free-text message
type Error struct {
	Stage Stage
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Stage, e.Msg)
}

// Is reports whether target is the sentinel for e's stage
func (e *Error) Is(target error) bool {
	switch e.Stage {
	case StageLex:
		return target == ErrLex
	case StageParse:
		return target == ErrParse
	case StageCodeGen:
		return target == ErrCodeGen
	}
	return false
}

// Lexf creates a lex-stage error
func Lexf(format string, args ...any) *Error {
	return &Error{Stage: StageLex, Msg: fmt.Sprintf(format, args...)}
}

// Parsef creates a parse-stage error
func Parsef(format string, args ...any) *Error {
	return &Error{Stage: StageParse, Msg: fmt.Sprintf(format, args...)}
}

// CodeGenf creates a codegen-stage error
func CodeGenf(format string, args ...any) *Error {
	return &Error{Stage: StageCodeGen, Msg: fmt.Sprintf(format, args...)}
}

// StageOf returns the stage of err and whether err is a stage error at all
func StageOf(err error) (Stage, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage, true
	}
	return 0, false
}

// Render formats err as a single diagnostic line prefixed by filename.
// The stage label is highlighted when withColor is set.
func Render(filename string, err error, withColor bool) string {
	color.NoColor = !withColor
	redBold := color.New(color.FgRed, color.Bold).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("%s: %s %v", bold(filename), redBold("error:"), err)
	}
	label := fmt.Sprintf("%s error:", e.Stage)
	return fmt.Sprintf("%s: %s %s", bold(filename), redBold(label), e.Msg)
}
