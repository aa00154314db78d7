package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nanocc/nanocc/pkg/cabs"
	"github.com/nanocc/nanocc/pkg/compiler"
	"github.com/nanocc/nanocc/pkg/diag"
	"github.com/nanocc/nanocc/pkg/lexer"
	"github.com/nanocc/nanocc/pkg/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// Debug flags for dumping intermediate stages
var (
	dTokens bool
	dParse  bool
	dAsm    bool
)

// Output options
var (
	stopAtAsm  bool // -S
	outputFile string
	noColor    bool
	verbose    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Single-dash dump flags are accepted for compatibility with other compilers
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the dump flags that also accept a single dash
var debugFlagNames = []string{"dtokens", "dparse", "dasm"}

// normalizeFlags converts single-dash flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

// dashedNames lets --no_color and friends resolve to their dashed names
func dashedNames(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nanocc [file]",
		Short: "nanocc compiles a single-function C program to x86-64 assembly",
		Long: `nanocc compiles a small subset of C (one int function with locals,
arithmetic, comparisons and short-circuit logic) to x86-64 assembly,
then assembles and links it with the system C driver.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return doCompile(cmd.Context(), args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.Flags().SetNormalizeFunc(dashedNames)

	rootCmd.Flags().BoolVarP(&dTokens, "dtokens", "", false, "Dump tokens")
	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump after parsing")
	rootCmd.Flags().BoolVarP(&dAsm, "dasm", "", false, "Dump assembly")

	rootCmd.Flags().BoolVarP(&stopAtAsm, "assemble-only", "S", false, "Write the .s file without assembling")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Executable path (default: source name without .c)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured diagnostics")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace each compilation stage")

	return rootCmd
}

// newLogger returns a debug-level logger on errOut under --verbose
func newLogger(errOut io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// doCompile runs the pipeline on filename, honouring dump flags. Without
// dump flags or -S the result is assembled and linked.
func doCompile(ctx context.Context, filename string, out, errOut io.Writer) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "nanocc: error reading %s: %v\n", filename, err)
		return err
	}

	logger := newLogger(errOut)
	logger.Debug("compiling", "file", filename)

	res, err := compiler.New(compiler.WithLogger(logger)).Run(string(content))
	if err != nil {
		fmt.Fprintln(errOut, diag.Render(filename, err, !noColor))
		return err
	}

	if dTokens {
		if err := dumpTo(outputName(filename, ".tokens"), out, errOut, func(w io.Writer) {
			printTokens(w, res.Tokens)
		}); err != nil {
			return err
		}
	}
	if dParse {
		if err := dumpTo(outputName(filename, ".parsed.c"), out, errOut, func(w io.Writer) {
			cabs.NewPrinter(w).PrintProgram(res.Program)
		}); err != nil {
			return err
		}
	}
	if dAsm {
		return dumpTo(outputName(filename, ".s"), out, errOut, func(w io.Writer) {
			io.WriteString(w, res.Text)
		})
	}
	if dTokens || dParse {
		return nil
	}

	asmFile := outputName(filename, ".s")
	if err := os.WriteFile(asmFile, []byte(res.Text), 0644); err != nil {
		fmt.Fprintf(errOut, "nanocc: error creating %s: %v\n", asmFile, err)
		return err
	}
	logger.Debug("wrote assembly", "file", asmFile)
	if stopAtAsm {
		return nil
	}

	exeFile := outputFile
	if exeFile == "" {
		exeFile = outputName(filename, "")
	}
	if err := toolchain.Assemble(ctx, asmFile, exeFile, nil); err != nil {
		fmt.Fprintf(errOut, "nanocc: %v\n", err)
		return err
	}
	logger.Debug("linked", "file", exeFile)
	return nil
}

// dumpTo writes a stage dump to filename and also prints it to out
func dumpTo(filename string, out, errOut io.Writer, dump func(io.Writer)) error {
	outFile, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(errOut, "nanocc: error creating %s: %v\n", filename, err)
		return err
	}
	defer outFile.Close()

	dump(outFile)
	dump(out)
	return nil
}

// printTokens writes one token per line with its source position
func printTokens(w io.Writer, tokens []lexer.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%d:%d\t%s\n", tok.Line, tok.Column, tok)
	}
}

// outputName replaces the .c extension of filename with ext:
// input.c -> input.s, input.c -> input (ext "")
func outputName(filename, ext string) string {
	if strings.HasSuffix(filename, ".c") {
		return filename[:len(filename)-len(".c")] + ext
	}
	if ext == "" {
		return filename + ".out"
	}
	return filename + ext
}
