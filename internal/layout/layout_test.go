package layout_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidarch/lidarch/internal/layout"
)

func TestNewProjectName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	p := layout.New("/data/out", ts)

	assert.Equal(t, filepath.Join("/data/out", "Proyecto_LiDARch_20260314_150926"), p.Root)
}

func TestScaffold(t *testing.T) {
	t.Parallel()

	p := layout.New(t.TempDir(), time.Now())
	require.NoError(t, p.Scaffold())

	for _, dir := range []string{
		p.RawLAS(),
		p.Ground(),
		p.Terrain(),
		p.DTM(),
		p.Merged(),
		p.Visualizations(),
	} {
		assert.DirExists(t, dir)
	}

	// Created on demand, not by the scaffold.
	assert.NoDirExists(t, p.RawLAZ())
	assert.NoDirExists(t, p.TempSaga())
}

func TestCleanTemp(t *testing.T) {
	t.Parallel()

	p := layout.New(t.TempDir(), time.Now())
	require.NoError(t, p.Scaffold())
	require.NoError(t, os.MkdirAll(p.RawLAZ(), 0o755))
	require.NoError(t, os.MkdirAll(p.TempSaga(), 0o755))

	for _, name := range []string{layout.FileVisConfig, layout.FileRVTScript, layout.FileFillScript} {
		require.NoError(t, os.WriteFile(p.Join(name), []byte("x"), 0o644))
	}
	keep := p.Join(layout.DirDTM, layout.FileDTM)
	require.NoError(t, os.WriteFile(keep, []byte("dtm"), 0o644))

	removed, err := p.CleanTemp()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"ground/", "only_terrain/", "raw_lidar_laz/", "temp_saga/",
		layout.FileVisConfig, layout.FileRVTScript, layout.FileFillScript,
	}, removed)

	assert.NoDirExists(t, p.Ground())
	assert.NoDirExists(t, p.Terrain())
	assert.NoFileExists(t, p.Join(layout.FileVisConfig))
	assert.FileExists(t, keep)
	assert.DirExists(t, p.DTM())
}

func TestCleanTempIdempotent(t *testing.T) {
	t.Parallel()

	p := layout.New(t.TempDir(), time.Now())
	require.NoError(t, p.Scaffold())

	_, err := p.CleanTemp()
	require.NoError(t, err)

	removed, err := p.CleanTemp()
	require.NoError(t, err)
	assert.Empty(t, removed)
}
