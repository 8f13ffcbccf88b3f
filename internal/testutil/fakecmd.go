// Package testutil builds stand-in executables for tests that shell out.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeCommand is a shell script that records every invocation's argv.
type FakeCommand struct {
	Path    string
	logPath string
}

type FakeOptions struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Script runs after argv is recorded and before exiting.
	Script string
}

// NewFakeCommand writes an executable called name into dir.
func NewFakeCommand(t *testing.T, dir, name string, opts FakeOptions) *FakeCommand {
	t.Helper()
	path := filepath.Join(dir, name)
	logPath := path + ".calls"

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "printf '%%s\\037' \"$@\" >> '%s'\n", logPath)
	fmt.Fprintf(&b, "printf '\\n' >> '%s'\n", logPath)
	if opts.Stdout != "" {
		fmt.Fprintf(&b, "printf '%%s' '%s'\n", opts.Stdout)
	}
	if opts.Stderr != "" {
		fmt.Fprintf(&b, "printf '%%s' '%s' >&2\n", opts.Stderr)
	}
	if opts.Script != "" {
		b.WriteString(opts.Script)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "exit %d\n", opts.ExitCode)

	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		t.Fatalf("write fake command %s: %v", name, err)
	}
	return &FakeCommand{Path: path, logPath: logPath}
}

// Calls returns the argv of every recorded invocation, oldest first.
func (f *FakeCommand) Calls(t *testing.T) [][]string {
	t.Helper()
	b, err := os.ReadFile(f.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read calls of %s: %v", f.Path, err)
	}
	var calls [][]string
	for _, line := range strings.Split(strings.TrimSuffix(string(b), "\n"), "\n") {
		if line == "\x1f" {
			calls = append(calls, []string{})
			continue
		}
		args := strings.Split(line, "\x1f")
		calls = append(calls, args[:len(args)-1])
	}
	return calls
}
