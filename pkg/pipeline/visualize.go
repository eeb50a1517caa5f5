package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/lidarch/lidarch/internal/command"
	"github.com/lidarch/lidarch/internal/layout"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// vizOutput connects one visualization output file to the flag that enables
// it and the statistic that records its size.
type vizOutput struct {
	file    string
	statKey string
	enabled func(model.VisualizationConfig) bool
}

var vizOutputs = []vizOutput{
	{layout.FileHillshade, "hillshade_size", func(v model.VisualizationConfig) bool { return v.Hillshade.Enabled }},
	{layout.FileLocalRelief, "local_relief_model_size", func(v model.VisualizationConfig) bool { return v.SLRM.Enabled }},
	{layout.FileSkyViewFactor, "sky_view_factor_size", func(v model.VisualizationConfig) bool { return v.SVF.Enabled }},
	{layout.FileLocalDominance, "local_dominance_size", func(v model.VisualizationConfig) bool { return v.LocalDominance.Enabled }},
}

// visualize renders the relief visualizations by handing the DTM to the RVT
// script under the QGIS Python runtime. The script is long-running, so it is
// polled instead of awaited, with coarse progress bumps while it works.
func (p *Pipeline) visualize(ctx context.Context, startPct, endPct int) error {
	p.log("Generating archaeological visualizations...", model.LevelInfo)

	script := p.project.Join(layout.FileRVTScript)
	if err := writeRVTScript(script); err != nil {
		return err
	}
	p.log("RVT script written", model.LevelInfo)

	if err := p.writeHandoff(); err != nil {
		return err
	}
	p.log("Visualization configuration saved", model.LevelInfo)

	p.logf(model.LevelInfo, "Running RVT script with: %s", p.cfg.Tools.QGISPython)
	p.updateProgress(startPct+2, "Starting RVT visualizations...")

	inv := command.Invocation{
		Path: p.cfg.Tools.QGISPython,
		Args: []string{script},
		Dir:  p.project.Root,
	}

	handle, err := p.runner.Start(ctx, inv)
	if err != nil {
		return err
	}

	res, err := p.await(ctx, handle, startPct)
	if err != nil {
		return err
	}
	if err := command.Check(inv, res, acceptStrict...); err != nil {
		return errors.Wrap(err, "RVT process")
	}

	return p.verifyOutputs(endPct)
}

func (p *Pipeline) writeHandoff() error {
	handoff := model.Handoff{
		Config:   p.cfg.Visualization,
		QGISPath: p.cfg.Tools.QGISDir,
	}

	raw, err := json.MarshalIndent(handoff, "", "    ")
	if err != nil {
		return errors.Wrap(err, "unable to encode visualization configuration")
	}

	return errors.Wrap(
		os.WriteFile(p.project.Join(layout.FileVisConfig), raw, 0o644),
		"unable to write visualization configuration",
	)
}

// await polls the running script. Every third poll bumps the reported
// progress by one point, capped ten points above the stage start so the bar
// keeps moving without overshooting.
func (p *Pipeline) await(ctx context.Context, handle command.Handle, startPct int) (command.Result, error) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	polls := 0
	for handle.Running() {
		select {
		case <-ctx.Done():
			_, _ = handle.Wait()

			return command.Result{}, errors.Wrap(ctx.Err(), "interrupted")
		case <-ticker.C:
			polls++
			if polls%3 == 0 {
				bump := polls / 3
				if bump > 10 {
					bump = 10
				}
				p.updateProgress(startPct+bump, "Generating visualizations...")
			}
		}
	}

	return handle.Wait()
}

// verifyOutputs checks that every enabled visualization was produced and
// records its size. Disabled visualizations are not expected.
func (p *Pipeline) verifyOutputs(endPct int) error {
	var missing []string

	for _, out := range vizOutputs {
		if !out.enabled(p.cfg.Visualization) {
			continue
		}

		path := filepath.Join(p.project.Visualizations(), out.file)
		size := fileSize(path)
		if size == 0 {
			p.logf(model.LevelError, "  %s: NOT FOUND", out.file)
			missing = append(missing, path)

			continue
		}

		p.stats.SetSize(out.statKey, size)
		p.logf(model.LevelInfo, "  %s generated", out.file)
	}

	if len(missing) > 0 {
		return &MissingOutputError{Paths: missing}
	}

	p.updateProgress(endPct, "Visualizations complete")

	return nil
}
