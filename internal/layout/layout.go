// Package layout owns the on-disk structure of one project directory. The
// directory and file names are a compatibility contract with downstream
// tooling and must be reproduced exactly.
package layout

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Subdirectory names, one per pipeline stage boundary.
const (
	DirRawLAZ         = "raw_lidar_laz"
	DirRawLAS         = "raw_lidar_las"
	DirGround         = "ground"
	DirTerrain        = "only_terrain"
	DirTempSaga       = "temp_saga"
	DirDTM            = "MDT_geotiff"
	DirMerged         = "lidar_merged"
	DirVisualizations = "RVT_visualizations"
)

// Fixed output and hand-off file names.
const (
	FileDTM         = "MDT_merged.tif"
	FileDTMRaw      = "MDT_raw.tif"
	FileDTMVRT      = "MDT_temp.vrt"
	FileTIFList     = "tiflist.txt"
	FileMergedCloud = "merged_cloud.las"
	FileVisConfig   = "vis_config.json"
	FileRVTScript   = "rvt_visualizations.py"
	FileFillScript  = "fill_gaps.py"

	FileHillshade      = "hillshade.tif"
	FileLocalRelief    = "local_relief_model.tif"
	FileSkyViewFactor  = "sky_view_factor.tif"
	FileLocalDominance = "local_dominance.tif"
)

const projectPrefix = "Proyecto_LiDARch_"

// tempDirs are removed by CleanTemp once the run has fully succeeded.
var tempDirs = []string{DirGround, DirTerrain, DirRawLAZ, DirTempSaga}

// tempFiles are the generated hand-off files removed by CleanTemp.
var tempFiles = []string{FileVisConfig, FileRVTScript, FileFillScript}

// Project locates every path of one pipeline run under a single root.
type Project struct {
	Root string
}

// New returns the layout of a timestamped project directory under
// outputRoot. The timestamp keeps concurrent runs from colliding.
func New(outputRoot string, now time.Time) Project {
	return Project{
		Root: filepath.Join(outputRoot, projectPrefix+now.Format("20060102_150405")),
	}
}

func (p Project) RawLAZ() string         { return filepath.Join(p.Root, DirRawLAZ) }
func (p Project) RawLAS() string         { return filepath.Join(p.Root, DirRawLAS) }
func (p Project) Ground() string         { return filepath.Join(p.Root, DirGround) }
func (p Project) Terrain() string        { return filepath.Join(p.Root, DirTerrain) }
func (p Project) TempSaga() string       { return filepath.Join(p.Root, DirTempSaga) }
func (p Project) DTM() string            { return filepath.Join(p.Root, DirDTM) }
func (p Project) Merged() string         { return filepath.Join(p.Root, DirMerged) }
func (p Project) Visualizations() string { return filepath.Join(p.Root, DirVisualizations) }

// Join resolves a path relative to the project root.
func (p Project) Join(elem ...string) string {
	return filepath.Join(append([]string{p.Root}, elem...)...)
}

// Scaffold creates the project root and the subdirectories every run needs.
// raw_lidar_laz and temp_saga are created on demand by the stages that use
// them.
func (p Project) Scaffold() error {
	dirs := []string{
		p.Root,
		p.DTM(),
		p.Visualizations(),
		p.Merged(),
		p.RawLAS(),
		p.Ground(),
		p.Terrain(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "unable to create directory %s", dir)
		}
	}

	return nil
}

// CleanTemp removes the intermediate directories and generated hand-off
// files, leaving only the deliverables. It returns the names it removed.
// Calling it a second time removes nothing and is not an error.
func (p Project) CleanTemp() ([]string, error) {
	var removed []string

	for _, name := range tempDirs {
		dir := filepath.Join(p.Root, name)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return removed, errors.Wrapf(err, "unable to remove %s", dir)
		}
		removed = append(removed, name+"/")
	}

	for _, name := range tempFiles {
		file := filepath.Join(p.Root, name)
		if err := os.Remove(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return removed, errors.Wrapf(err, "unable to remove %s", file)
		}
		removed = append(removed, name)
	}

	return removed, nil
}
