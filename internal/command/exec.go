package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ExecRunner runs invocations with os/exec.
type ExecRunner struct {
	// Timeout bounds each invocation. Zero means no limit.
	Timeout time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := r.build(ctx, inv)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, errors.Wrapf(err, "unable to run %s", inv.Path)
	}

	return res, nil
}

func (r *ExecRunner) Start(ctx context.Context, inv Invocation) (Handle, error) {
	cmd := r.build(ctx, inv)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "unable to start %s", inv.Path)
	}

	h := &execHandle{done: make(chan struct{})}
	go func() {
		defer close(h.done)

		err := cmd.Wait()
		h.res = Result{Stdout: stdout.String(), Stderr: stderr.String()}

		var exitErr *exec.ExitError
		switch {
		case err == nil:
		case errors.As(err, &exitErr):
			h.res.ExitCode = exitErr.ExitCode()
		default:
			h.err = errors.Wrapf(err, "unable to wait for %s", inv.Path)
		}
	}()

	return h, nil
}

func (r *ExecRunner) build(ctx context.Context, inv Invocation) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = overlayEnv(os.Environ(), inv.Env)
	}

	return cmd
}

type execHandle struct {
	done chan struct{}
	res  Result
	err  error
}

func (h *execHandle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *execHandle) Wait() (Result, error) {
	<-h.done

	return h.res, h.err
}

// overlayEnv applies overlay entries on top of base, replacing entries with
// the same key and appending the rest.
func overlayEnv(base, overlay []string) []string {
	out := make([]string, 0, len(base)+len(overlay))
	replaced := make(map[string]bool, len(overlay))

	for _, entry := range base {
		key := envKey(entry)
		kept := entry
		for _, over := range overlay {
			if envKey(over) == key {
				kept = over
				replaced[key] = true

				break
			}
		}
		out = append(out, kept)
	}

	for _, over := range overlay {
		if !replaced[envKey(over)] {
			out = append(out, over)
		}
	}

	return out
}

func envKey(entry string) string {
	if idx := strings.IndexByte(entry, '='); idx >= 0 {
		return entry[:idx]
	}

	return entry
}

var _ Runner = (*ExecRunner)(nil)
