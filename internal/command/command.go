// Package command runs the external geospatial tools as child processes.
// It abstracts process execution behind the Runner interface so that the
// pipeline can be exercised in tests without the real toolchain installed.
package command

import (
	"context"
	"strings"
)

// Invocation describes one external tool call.
type Invocation struct {
	// Path is the resolved executable path.
	Path string
	// Args are the command arguments, excluding the executable name.
	Args []string
	// Dir is the working directory. Empty means the caller's.
	Dir string
	// Env entries (KEY=VALUE) are overlaid onto the parent environment,
	// replacing duplicates. This grafts the SAGA runtime environment onto
	// saga_cmd calls without generated wrapper scripts.
	Env []string
}

// String renders the invocation as a command line for error messages.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Path}, inv.Args...), " ")
}

// Result is the observed outcome of a finished invocation. A non-zero exit
// code is a Result, not an error: acceptability is decided by the caller.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Handle is a started, not yet awaited invocation. The visualization stage
// polls Running while the external process works.
type Handle interface {
	// Running reports whether the process is still alive.
	Running() bool
	// Wait blocks until the process exits and returns its result.
	Wait() (Result, error)
}

// Runner executes invocations. Run blocks until the process exits; Start
// returns immediately with a Handle.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
	Start(ctx context.Context, inv Invocation) (Handle, error)
}
