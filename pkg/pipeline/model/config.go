package model

import "time"

// Tools holds the resolved filesystem path of every external executable the
// pipeline drives. Resolution (registry lookups, directory scanning) is the
// caller's job; the pipeline only verifies that each path exists before the
// first stage runs.
type Tools struct {
	Las2Las   string // LAStools las2las: decompression and class filtering
	LasGround string // LAStools lasground: ground classification
	LasMerge  string // LAStools lasmerge: point cloud merging

	SagaCmd       string // SAGA saga_cmd: grid import and GeoTIFF conversion
	GdalBuildVRT  string // gdalbuildvrt: virtual mosaic
	GdalTranslate string // gdal_translate: mosaic flattening
	QGISPython    string // QGIS-bundled interpreter, runs the gap fill and RVT scripts

	// SagaDir is the SAGA installation root, used to build the environment
	// overlay for saga_cmd invocations. QGISDir is the QGIS installation
	// root, recorded in the visualization hand-off file.
	SagaDir string
	QGISDir string
}

// All returns the executable paths keyed by tool name.
func (t Tools) All() map[string]string {
	return map[string]string{
		"las2las":        t.Las2Las,
		"lasground":      t.LasGround,
		"lasmerge":       t.LasMerge,
		"saga_cmd":       t.SagaCmd,
		"gdalbuildvrt":   t.GdalBuildVRT,
		"gdal_translate": t.GdalTranslate,
		"qgis python":    t.QGISPython,
	}
}

// Config is the full, explicit configuration of one pipeline run. There is
// no package-level state; two runs with two configs are fully independent.
type Config struct {
	// InputDir contains the source point clouds (*.las and/or *.laz).
	InputDir string

	// OutputRoot is the parent of the timestamped project directory.
	// Empty means the user home directory.
	OutputRoot string

	Tools         Tools
	Visualization VisualizationConfig

	// PollInterval is the liveness poll cadence for the externally running
	// visualization process. Zero means 10 seconds.
	PollInterval time.Duration

	// ToolTimeout bounds every single tool invocation. Zero means no limit,
	// matching the historical behavior where a hung tool hangs the run.
	ToolTimeout time.Duration
}
