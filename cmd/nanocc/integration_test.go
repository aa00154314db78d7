package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/nanocc/nanocc/pkg/toolchain"
	"gopkg.in/yaml.v3"
)

// transformExpectedForDarwin adds the Mach-O underscore prefix to global
// symbols in expected assembly and drops ELF-only directives
func transformExpectedForDarwin(exp string) string {
	if runtime.GOOS != "darwin" {
		return exp
	}

	globlRE := regexp.MustCompile(`\.globl\t([a-zA-Z_][a-zA-Z0-9_]*)`)
	exp = globlRE.ReplaceAllString(exp, `.globl	_$1`)

	// Local labels like .Lend1 keep their spelling
	labelRE := regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*):`)
	exp = labelRE.ReplaceAllString(exp, `_$1:`)

	return exp
}

// E2EAsmTestSpec represents a single end-to-end ASM test case
type E2EAsmTestSpec struct {
	Name         string   `yaml:"name"`
	Input        string   `yaml:"input"`
	Expect       []string `yaml:"expect"`        // Strings that must appear in output
	ExpectOrder  []string `yaml:"expect_order"`  // Strings that must appear in this order
	ExpectUnique []string `yaml:"expect_unique"` // Strings that must appear exactly once
	ExpectNot    []string `yaml:"expect_not"`    // Strings that must NOT appear in output
	Skip         string   `yaml:"skip,omitempty"`
}

// E2EAsmTestFile represents the e2e_asm.yaml file structure
type E2EAsmTestFile struct {
	Tests []E2EAsmTestSpec `yaml:"tests"`
}

// E2ERuntimeTestSpec is one program from programs.yaml
type E2ERuntimeTestSpec struct {
	Name     string `yaml:"name"`
	Input    string `yaml:"input"`
	Function string `yaml:"function,omitempty"`
	Value    int32  `yaml:"value"`
	Skip     string `yaml:"skip,omitempty"`
}

// E2ERuntimeTestFile represents the programs.yaml file structure
type E2ERuntimeTestFile struct {
	Tests []E2ERuntimeTestSpec `yaml:"tests"`
}

func TestE2EAsmYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/e2e_asm.yaml")
	if err != nil {
		t.Fatalf("e2e_asm.yaml not found: %v", err)
	}

	var testFile E2EAsmTestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse e2e_asm.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}

			tmpDir := t.TempDir()
			testCFile := filepath.Join(tmpDir, "test.c")
			if err := os.WriteFile(testCFile, []byte(tc.Input), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			resetFlags()
			var out, errOut bytes.Buffer
			cmd := newRootCmd(&out, &errOut)
			cmd.SetArgs([]string{"--dasm", testCFile})
			if err := cmd.Execute(); err != nil {
				t.Fatalf("nanocc failed: %v\nStderr: %s", err, errOut.String())
			}

			output := out.String()
			for _, exp := range tc.Expect {
				exp = transformExpectedForDarwin(exp)
				if !strings.Contains(output, exp) {
					t.Errorf("expected output to contain %q\nGot:\n%s", exp, output)
				}
			}

			if len(tc.ExpectOrder) > 0 {
				lastIdx := -1
				for _, exp := range tc.ExpectOrder {
					exp = transformExpectedForDarwin(exp)
					idx := strings.Index(output[lastIdx+1:], exp)
					if idx == -1 {
						t.Errorf("expected %q after position %d\nGot:\n%s", exp, lastIdx, output)
						break
					}
					lastIdx += idx + 1
				}
			}

			for _, exp := range tc.ExpectUnique {
				exp = transformExpectedForDarwin(exp)
				count := strings.Count(output, exp)
				if count != 1 {
					t.Errorf("expected %q to appear exactly once, found %d times\nGot:\n%s", exp, count, output)
				}
			}

			for _, exp := range tc.ExpectNot {
				exp = transformExpectedForDarwin(exp)
				if strings.Contains(output, exp) {
					t.Errorf("expected output NOT to contain %q\nGot:\n%s", exp, output)
				}
			}
		})
	}
}

func TestE2ERuntimeYAML(t *testing.T) {
	if runtime.GOARCH != "amd64" {
		t.Skip("generated code targets x86-64")
	}
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("no supported assembler dialect for " + runtime.GOOS)
	}
	if toolchain.FindDriver() == "" {
		t.Skip("no C compiler driver found in PATH")
	}

	data, err := os.ReadFile("../../testdata/programs.yaml")
	if err != nil {
		t.Fatalf("programs.yaml not found: %v", err)
	}

	var testFile E2ERuntimeTestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse programs.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}
			if tc.Function != "" && tc.Function != "main" {
				t.Skip("no main to link against")
			}

			tmpDir := t.TempDir()
			testCFile := filepath.Join(tmpDir, "test.c")
			testExe := filepath.Join(tmpDir, "test")
			if err := os.WriteFile(testCFile, []byte(tc.Input), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			resetFlags()
			var out, errOut bytes.Buffer
			cmd := newRootCmd(&out, &errOut)
			cmd.SetArgs([]string{testCFile})
			if err := cmd.Execute(); err != nil {
				t.Fatalf("nanocc failed: %v\nStderr: %s", err, errOut.String())
			}

			runCmd := exec.Command(testExe)
			runCmd.Run() // exit status is the result
			exitCode := runCmd.ProcessState.ExitCode()

			want := int(uint8(tc.Value))
			if exitCode != want {
				asmContent, _ := os.ReadFile(filepath.Join(tmpDir, "test.s"))
				t.Errorf("expected exit code %d, got %d\nAssembly:\n%s", want, exitCode, asmContent)
			}
		})
	}
}
