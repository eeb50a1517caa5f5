package command

import (
	"fmt"
	"strings"
)

// InvocationError reports a tool that exited with a code outside the
// accepted set. It carries everything needed to diagnose the failure from
// the log stream alone.
type InvocationError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *InvocationError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	}

	return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// Check returns an InvocationError unless the result's exit code is in the
// accepted set. Keeping the acceptable codes an explicit set per call site
// makes each stage's tolerance auditable.
func Check(inv Invocation, res Result, accept ...int) error {
	for _, code := range accept {
		if res.ExitCode == code {
			return nil
		}
	}

	return &InvocationError{
		Command:  inv.String(),
		ExitCode: res.ExitCode,
		Stderr:   strings.TrimSpace(res.Stderr),
	}
}
