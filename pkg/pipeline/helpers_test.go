package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lidarch/lidarch/internal/command"
	"github.com/lidarch/lidarch/internal/layout"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// fakeRunner simulates the external toolchain: it records every invocation
// and creates the output files a real tool run would leave behind, keyed by
// executable name. Exit codes are configurable per tool so tests can probe
// each stage's tolerance.
type fakeRunner struct {
	mu          sync.Mutex
	invocations []command.Invocation

	// exits maps executable base names to forced exit codes. Missing
	// entries exit 0.
	exits map[string]int

	// skipOutputs suppresses creation of the named output files.
	skipOutputs map[string]bool

	// hook, when set, intercepts matching invocations instead of the
	// default simulation.
	hook func(inv command.Invocation) (command.Result, bool)

	// visConfigSeen records whether vis_config.json existed in the working
	// directory when the visualization script was started, and
	// visConfigRaw its contents at that moment.
	visConfigSeen bool
	visConfigRaw  []byte
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		exits:       map[string]int{},
		skipOutputs: map[string]bool{},
	}
}

func (f *fakeRunner) recorded() []command.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]command.Invocation(nil), f.invocations...)
}

func (f *fakeRunner) record(inv command.Invocation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invocations = append(f.invocations, inv)
}

func (f *fakeRunner) exitCode(tool string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.exits[tool]
}

func (f *fakeRunner) touch(path string) {
	if f.skipOutputs[filepath.Base(path)] {
		return
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("fake tool output"), 0o644)
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}

func (f *fakeRunner) Run(_ context.Context, inv command.Invocation) (command.Result, error) {
	f.record(inv)

	if f.hook != nil {
		if res, ok := f.hook(inv); ok {
			return res, nil
		}
	}

	tool := filepath.Base(inv.Path)
	switch tool {
	case "las2las64", "lasground64", "lasmerge64":
		f.touch(argAfter(inv.Args, "-o"))
	case "saga_cmd":
		switch inv.Args[0] {
		case "io_pdal":
			f.touch(argAfter(inv.Args, "-GRID"))
		case "io_gdal":
			f.touch(argAfter(inv.Args, "-FILE"))
		}
	case "gdalbuildvrt", "gdal_translate":
		f.touch(inv.Args[len(inv.Args)-1])
	case "python3":
		script := inv.Args[0]
		if filepath.Base(script) == layout.FileFillScript {
			f.touch(filepath.Join(filepath.Dir(script), layout.DirDTM, layout.FileDTM))
		}
	}

	return command.Result{ExitCode: f.exitCode(tool)}, nil
}

func (f *fakeRunner) Start(_ context.Context, inv command.Invocation) (command.Handle, error) {
	f.record(inv)

	if raw, err := os.ReadFile(filepath.Join(inv.Dir, layout.FileVisConfig)); err == nil {
		f.mu.Lock()
		f.visConfigSeen = true
		f.visConfigRaw = raw
		f.mu.Unlock()
	}

	vizDir := filepath.Join(inv.Dir, layout.DirVisualizations)
	for _, name := range []string{
		layout.FileHillshade,
		layout.FileLocalRelief,
		layout.FileSkyViewFactor,
		layout.FileLocalDominance,
	} {
		f.touch(filepath.Join(vizDir, name))
	}

	return &fakeHandle{res: command.Result{ExitCode: f.exitCode("rvt")}}, nil
}

type fakeHandle struct {
	res command.Result
}

func (h *fakeHandle) Running() bool                 { return false }
func (h *fakeHandle) Wait() (command.Result, error) { return h.res, nil }

var _ command.Runner = (*fakeRunner)(nil)

// testTools lays out fake tool installations in a temp directory and returns
// the resolved paths the way the CLI would.
func testTools(t *testing.T) model.Tools {
	t.Helper()

	root := t.TempDir()

	lastools := filepath.Join(root, "lastools")
	sagaDir := filepath.Join(root, "saga")
	qgisBin := filepath.Join(root, "qgis", "bin")
	require.NoError(t, os.MkdirAll(lastools, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(sagaDir, "tools"), 0o755))
	require.NoError(t, os.MkdirAll(qgisBin, 0o755))

	tools := model.Tools{
		Las2Las:       filepath.Join(lastools, "las2las64"),
		LasGround:     filepath.Join(lastools, "lasground64"),
		LasMerge:      filepath.Join(lastools, "lasmerge64"),
		SagaCmd:       filepath.Join(sagaDir, "saga_cmd"),
		GdalBuildVRT:  filepath.Join(qgisBin, "gdalbuildvrt"),
		GdalTranslate: filepath.Join(qgisBin, "gdal_translate"),
		QGISPython:    filepath.Join(qgisBin, "python3"),
		SagaDir:       sagaDir,
		QGISDir:       filepath.Join(root, "qgis"),
	}
	for _, path := range tools.All() {
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	}

	return tools
}

// testInputs writes n point cloud files with the given extension.
func testInputs(t *testing.T, ext string, n int) string {
	t.Helper()

	dir := t.TempDir()
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("tile_%02d.%s", i+1, ext))
		require.NoError(t, os.WriteFile(name, []byte("point cloud"), 0o644))
	}

	return dir
}

func testConfig(t *testing.T, inputDir string, tools model.Tools) model.Config {
	t.Helper()

	return model.Config{
		InputDir:      inputDir,
		OutputRoot:    t.TempDir(),
		Tools:         tools,
		Visualization: model.DefaultVisualization(),
		PollInterval:  time.Millisecond,
	}
}
