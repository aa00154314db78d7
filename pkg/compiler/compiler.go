// Package compiler runs the full pipeline: source text to tokens, tokens to
// a Cabs program, and the program to x86-64 assembly text.
package compiler

import (
	"bytes"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/nanocc/nanocc/pkg/asm"
	"github.com/nanocc/nanocc/pkg/cabs"
	"github.com/nanocc/nanocc/pkg/codegen"
	"github.com/nanocc/nanocc/pkg/lexer"
	"github.com/nanocc/nanocc/pkg/parser"
)

// Result holds the output of every stage that completed
type Result struct {
	Tokens  []lexer.Token
	Program *cabs.Program
	Asm     *asm.Program
	Text    string
}

// Compiler carries pipeline options
type Compiler struct {
	logger *slog.Logger
	goos   string
}

// Option configures a Compiler
type Option func(*Compiler)

// WithLogger routes stage tracing to l
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTarget selects the assembler dialect by OS name ("linux", "darwin")
func WithTarget(goos string) Option {
	return func(c *Compiler) {
		c.goos = goos
	}
}

// New creates a Compiler for the host platform that logs nowhere
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run compiles source. On error the Result still holds the stages that
// finished before the failing one.
func (c *Compiler) Run(source string) (*Result, error) {
	res := &Result{}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		c.logger.Debug("lex failed", "err", err)
		return res, err
	}
	res.Tokens = tokens
	c.logger.Debug("lexed", "tokens", len(tokens))

	prog, err := parser.Parse(tokens)
	if err != nil {
		c.logger.Debug("parse failed", "err", err)
		return res, err
	}
	res.Program = prog
	c.logger.Debug("parsed", "function", prog.Func.Name, "statements", len(prog.Func.Body))

	out, err := codegen.Generate(prog)
	if err != nil {
		c.logger.Debug("codegen failed", "err", err)
		return res, err
	}
	res.Asm = out

	var buf bytes.Buffer
	asm.NewPrinterFor(&buf, c.goos).PrintProgram(out)
	res.Text = buf.String()
	c.logger.Debug("generated", "instructions", len(out.Functions[0].Code), "bytes", len(res.Text))

	return res, nil
}

// Compile turns C source into assembly text for the host platform
func Compile(source string) (string, error) {
	res, err := New().Run(source)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// CompileLines compiles source given as separate lines
func CompileLines(lines []string) (string, error) {
	return Compile(strings.Join(lines, "\n"))
}
