package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoInputFiles is returned during setup when the input folder holds
	// no recognized point cloud files.
	ErrNoInputFiles = errors.New("no LAS/LAZ files found in input folder")

	// ErrMissingTool is returned during setup when a configured tool path
	// does not exist on disk.
	ErrMissingTool = errors.New("required tool not found")

	// ErrNoGrids is returned by the interpolation stage when not a single
	// point cloud could be imported into a grid.
	ErrNoGrids = errors.New("no SAGA grids were created")

	// ErrNoGeoTIFFs is returned by the interpolation stage when grid
	// conversion produced no rasters to mosaic.
	ErrNoGeoTIFFs = errors.New("no GeoTIFF files were created")
)

// MissingOutputError reports expected deliverables absent after their
// producing stage reported success.
type MissingOutputError struct {
	Paths []string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("expected output missing: %s", strings.Join(e.Paths, ", "))
}
