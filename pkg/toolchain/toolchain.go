// Package toolchain drives the system C compiler driver to assemble and link
// generated assembly into an executable.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvCC names the environment variable that overrides driver discovery
const EnvCC = "NANOCC_CC"

// ErrNoDriver is returned when no C driver can be found
var ErrNoDriver = errors.New("no C compiler driver found (tried: $" + EnvCC + ", cc, gcc, clang)")

// Options configures the assemble/link step
type Options struct {
	CC    string   // driver to run; found automatically when empty
	Flags []string // extra driver flags placed before the input file
}

// Assemble runs `cc [flags] -o exePath asmPath`
func Assemble(ctx context.Context, asmPath, exePath string, opts *Options) error {
	driver := ""
	var flags []string
	if opts != nil {
		driver = opts.CC
		flags = opts.Flags
	}
	if driver == "" {
		driver = FindDriver()
	}
	if driver == "" {
		return ErrNoDriver
	}

	args := append([]string{}, flags...)
	args = append(args, "-o", exePath, asmPath)

	cmd := exec.CommandContext(ctx, driver, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("assembling %s failed: %v\n%s", asmPath, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// FindDriver returns $NANOCC_CC when set, else the first of cc, gcc, clang
// found on PATH. An empty string means none is available.
func FindDriver() string {
	if cc := os.Getenv(EnvCC); cc != "" {
		return cc
	}
	for _, name := range []string{"cc", "gcc", "clang"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
