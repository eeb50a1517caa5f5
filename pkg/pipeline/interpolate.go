package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/lidarch/lidarch/internal/command"
	"github.com/lidarch/lidarch/internal/layout"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// sagaEnv builds the environment overlay SAGA needs to locate its tool
// libraries when launched outside its own installation directory.
func (p *Pipeline) sagaEnv() []string {
	path := p.cfg.Tools.SagaDir + string(os.PathListSeparator) + os.Getenv("PATH")

	return []string{
		"SAGA_PATH=" + p.cfg.Tools.SagaDir,
		"SAGA_MLB=" + filepath.Join(p.cfg.Tools.SagaDir, "tools"),
		"PATH=" + path,
	}
}

// interpolate builds the digital terrain model: rasterize each terrain cloud
// with SAGA, convert the grids to GeoTIFF, mosaic them with GDAL and fill
// the remaining nodata gaps.
func (p *Pipeline) interpolate(ctx context.Context, startPct, _ int) error {
	p.log("Running SAGA GIS interpolation...", model.LevelInfo)

	if err := os.MkdirAll(p.project.TempSaga(), 0o755); err != nil {
		return errors.Wrap(err, "unable to create SAGA working directory")
	}

	terrainFiles, err := sortedGlob(p.project.Terrain(), "*.las")
	if err != nil {
		return err
	}
	p.logf(model.LevelInfo, "Interpolating %d files...", len(terrainFiles))

	if err := p.importGrids(ctx, terrainFiles, startPct); err != nil {
		return err
	}
	if err := p.convertGrids(ctx, startPct); err != nil {
		return err
	}
	if err := p.mosaicGeoTIFFs(ctx, startPct); err != nil {
		return err
	}

	return p.fillGaps(ctx, startPct)
}

// importGrids rasterizes every terrain cloud into a 1m SAGA grid. A file
// that fails to import is logged and skipped; the stage only fails when no
// grid comes out at all, which convertGrids detects.
func (p *Pipeline) importGrids(ctx context.Context, terrainFiles []string, startPct int) error {
	p.updateProgress(startPct+5, "Importing grids from point clouds...")

	for i, las := range terrainFiles {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "interrupted")
		}

		grid := filepath.Join(p.project.TempSaga(), fmt.Sprintf("grid_%d.sgrd", i+1))

		inv := command.Invocation{
			Path: p.cfg.Tools.SagaCmd,
			Args: []string{
				"io_pdal", "2",
				"-FILES", las,
				"-TARGET_DEFINITION", "0",
				"-TARGET_USER_SIZE", "1",
				"-TARGET_USER_FITS", "1",
				"-AGGREGATION", "4",
				"-GRID", grid,
			},
			Dir: p.project.Root,
			Env: p.sagaEnv(),
		}

		res, err := p.runner.Run(ctx, inv)
		if err != nil {
			return err
		}
		if err := command.Check(inv, res, acceptStrict...); err != nil {
			p.logf(model.LevelWarning, "SAGA import failed for %s: %v", filepath.Base(las), err)

			continue
		}

		if i%10 == 0 || i+1 == len(terrainFiles) {
			pct := startPct + 5 + (i+1)*15/len(terrainFiles)
			p.updateProgress(pct, fmt.Sprintf("Importing grid %d/%d", i+1, len(terrainFiles)))
		}
	}

	return nil
}

// convertGrids exports every SAGA grid to GeoTIFF. Conversion failures are
// logged and skipped like import failures.
func (p *Pipeline) convertGrids(ctx context.Context, startPct int) error {
	p.updateProgress(startPct+20, "Converting grids to GeoTIFF...")

	grids, err := sortedGlob(p.project.TempSaga(), "*.sgrd")
	if err != nil {
		return err
	}
	if len(grids) == 0 {
		return ErrNoGrids
	}

	for _, grid := range grids {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "interrupted")
		}

		stem := strings.TrimSuffix(filepath.Base(grid), filepath.Ext(grid))
		tif := filepath.Join(p.project.TempSaga(), stem+".tif")

		inv := command.Invocation{
			Path: p.cfg.Tools.SagaCmd,
			Args: []string{"io_gdal", "2", "-GRIDS", grid, "-FILE", tif},
			Dir:  p.project.Root,
			Env:  p.sagaEnv(),
		}

		res, err := p.runner.Run(ctx, inv)
		if err != nil {
			return err
		}
		if err := command.Check(inv, res, acceptStrict...); err != nil {
			p.logf(model.LevelWarning, "grid conversion failed for %s: %v", filepath.Base(grid), err)
		}
	}

	return nil
}

// mosaicGeoTIFFs merges the per-tile GeoTIFFs into one raw DTM through a
// virtual mosaic.
func (p *Pipeline) mosaicGeoTIFFs(ctx context.Context, startPct int) error {
	p.updateProgress(startPct+22, "Merging GeoTIFFs...")

	tifs, err := sortedGlob(p.project.TempSaga(), "*.tif")
	if err != nil {
		return err
	}
	if len(tifs) == 0 {
		return ErrNoGeoTIFFs
	}

	tifList := filepath.Join(p.project.TempSaga(), layout.FileTIFList)
	if err := os.WriteFile(tifList, []byte(strings.Join(tifs, "\n")+"\n"), 0o644); err != nil {
		return errors.Wrap(err, "unable to write GeoTIFF list")
	}

	vrt := filepath.Join(p.project.DTM(), layout.FileDTMVRT)
	raw := filepath.Join(p.project.DTM(), layout.FileDTMRaw)

	if err := p.runTool(ctx, command.Invocation{
		Path: p.cfg.Tools.GdalBuildVRT,
		Args: []string{"-input_file_list", tifList, vrt},
	}, acceptStrict); err != nil {
		return errors.Wrap(err, "gdalbuildvrt")
	}

	err = p.runTool(ctx, command.Invocation{
		Path: p.cfg.Tools.GdalTranslate,
		Args: []string{
			"-of", "GTiff",
			"-co", "COMPRESS=DEFLATE",
			"-co", "TILED=YES",
			vrt, raw,
		},
	}, acceptStrict)

	return errors.Wrap(err, "gdal_translate")
}

// fillGaps interpolates the nodata holes of the raw DTM through the QGIS
// Python runtime, then discards the intermediates and records the final DTM
// size.
func (p *Pipeline) fillGaps(ctx context.Context, startPct int) error {
	p.updateProgress(startPct+24, "Filling data gaps...")

	vrt := filepath.Join(p.project.DTM(), layout.FileDTMVRT)
	raw := filepath.Join(p.project.DTM(), layout.FileDTMRaw)
	dtm := filepath.Join(p.project.DTM(), layout.FileDTM)

	script := p.project.Join(layout.FileFillScript)
	if err := writeFillScript(script, raw, dtm); err != nil {
		return err
	}

	if err := p.runTool(ctx, command.Invocation{
		Path: p.cfg.Tools.QGISPython,
		Args: []string{script},
	}, acceptStrict); err != nil {
		return errors.Wrap(err, "gap filling")
	}

	os.Remove(vrt)
	os.Remove(raw)

	if _, err := os.Stat(dtm); err != nil {
		return &MissingOutputError{Paths: []string{dtm}}
	}

	p.stats.SetSize("dtm_size", fileSize(dtm))
	p.log("DTM created", model.LevelSuccess)

	return nil
}
