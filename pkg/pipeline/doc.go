// Package pipeline orchestrates the six-stage LiDAR processing workflow.
//
// The pipeline package turns a folder of raw aerial point clouds into a
// digital terrain model and four archaeological relief visualizations by
// driving pre-installed external tools (LAStools, SAGA GIS, the GDAL
// utilities and the QGIS-bundled Python interpreter running RVT) as child
// processes and gluing their inputs and outputs together on the filesystem.
//
// Stages run strictly sequentially inside whichever goroutine calls Run, so
// stage N+1 never starts before stage N has fully written its outputs. The
// pipeline stops on the first failed stage, leaving every artifact produced
// so far in place for diagnosis; temporary directories are only cleaned up
// after a fully successful run.
//
// Progress and log reporting flow through two narrow callback contracts
// injected at construction, so the package never assumes a particular
// front-end. Process execution is abstracted behind a runner interface,
// which lets tests exercise the whole state machine without the real
// geospatial toolchain installed.
package pipeline
