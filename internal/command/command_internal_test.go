package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationString(t *testing.T) {
	t.Parallel()

	inv := Invocation{Path: "/opt/saga/saga_cmd", Args: []string{"io_pdal", "2", "-FILES", "a.las"}}
	assert.Equal(t, "/opt/saga/saga_cmd io_pdal 2 -FILES a.las", inv.String())
}

func TestCheckAcceptedCodes(t *testing.T) {
	t.Parallel()

	inv := Invocation{Path: "lasground64"}

	assert.NoError(t, Check(inv, Result{ExitCode: 0}, 0, 1))
	assert.NoError(t, Check(inv, Result{ExitCode: 1}, 0, 1))
	assert.Error(t, Check(inv, Result{ExitCode: 1}, 0))
	assert.Error(t, Check(inv, Result{ExitCode: 2}, 0, 1))
}

func TestCheckErrorDetails(t *testing.T) {
	t.Parallel()

	inv := Invocation{Path: "las2las64", Args: []string{"-i", "a.laz"}}
	err := Check(inv, Result{ExitCode: 3, Stderr: "license expired\n"}, 0)
	require.Error(t, err)

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, 3, invErr.ExitCode)
	assert.Equal(t, "license expired", invErr.Stderr)
	assert.Contains(t, err.Error(), "las2las64 -i a.laz")
	assert.Contains(t, err.Error(), "exited with code 3")
}

func TestOverlayEnv(t *testing.T) {
	t.Parallel()

	base := []string{"PATH=/usr/bin", "HOME=/home/u", "LANG=C"}
	overlay := []string{"PATH=/opt/saga:/usr/bin", "SAGA_PATH=/opt/saga"}

	got := overlayEnv(base, overlay)

	assert.Equal(t, []string{
		"PATH=/opt/saga:/usr/bin",
		"HOME=/home/u",
		"LANG=C",
		"SAGA_PATH=/opt/saga",
	}, got)
}

func TestExecRunnerRun(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	res, err := r.Run(context.Background(), Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunnerRunMissingBinary(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	_, err := r.Run(context.Background(), Invocation{Path: "/nonexistent/tool"})
	require.Error(t, err)
}

func TestExecRunnerStart(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	h, err := r.Start(context.Background(), Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "echo done"},
	})
	require.NoError(t, err)

	res, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "done\n", res.Stdout)
	assert.False(t, h.Running())
}

func TestExecRunnerEnvOverlay(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	res, err := r.Run(context.Background(), Invocation{
		Path: "/bin/sh",
		Args: []string{"-c", "printf '%s' \"$SAGA_PATH\""},
		Env:  []string{"SAGA_PATH=/opt/saga"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "/opt/saga", res.Stdout)
}
