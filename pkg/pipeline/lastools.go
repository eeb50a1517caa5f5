package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/lidarch/lidarch/internal/command"
	"github.com/lidarch/lidarch/internal/layout"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// Demo-licensed LAStools exit with code 1 after printing a license warning
// even though the output file is written. Classification and merging accept
// that code; the other tools must exit cleanly.
var (
	acceptStrict = []int{0}
	acceptDemo   = []int{0, 1}
)

func (p *Pipeline) runTool(ctx context.Context, inv command.Invocation, accept []int) error {
	res, err := p.runner.Run(ctx, inv)
	if err != nil {
		return err
	}

	return command.Check(inv, res, accept...)
}

// decompress converts every staged LAZ file to LAS. Runs that started from
// LAS input have nothing to do and record zero decompressed files.
func (p *Pipeline) decompress(ctx context.Context, startPct, endPct int) error {
	lazFiles, err := sortedGlob(p.project.RawLAZ(), "*.laz")
	if err != nil {
		return err
	}

	if len(lazFiles) == 0 {
		p.log("No LAZ files to decompress, skipping...", model.LevelInfo)
		p.stats.SetCount("decompressed_files", 0)
		p.updateProgress(endPct, "Decompression skipped")

		return nil
	}

	p.logf(model.LevelInfo, "Decompressing %d LAZ files...", len(lazFiles))

	err = p.runEachFile(ctx, lazFiles, startPct, endPct, "Decompressing", func(ctx context.Context, _ int, src string) error {
		stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		out := filepath.Join(p.project.RawLAS(), stem+".las")

		return p.runTool(ctx, command.Invocation{
			Path: p.cfg.Tools.Las2Las,
			Args: []string{"-i", src, "-o", out},
		}, acceptStrict)
	})
	if err != nil {
		return err
	}

	p.stats.SetCount("decompressed_files", len(lazFiles))

	return nil
}

// classify labels ground points in every LAS file.
func (p *Pipeline) classify(ctx context.Context, startPct, endPct int) error {
	lasFiles, err := sortedGlob(p.project.RawLAS(), "*.las")
	if err != nil {
		return err
	}

	p.logf(model.LevelInfo, "Classifying %d LAS files...", len(lasFiles))

	err = p.runEachFile(ctx, lasFiles, startPct, endPct, "Classifying", func(ctx context.Context, i int, src string) error {
		out := filepath.Join(p.project.Ground(), fmt.Sprintf("ground_%d.las", i+1))

		err := p.runTool(ctx, command.Invocation{
			Path: p.cfg.Tools.LasGround,
			Args: []string{
				"-i", src,
				"-o", out,
				"-step", "5",
				"-bulge", "0.5",
				"-spike", "1",
				"-offset", "0.05",
				"-demo",
			},
		}, acceptDemo)
		if err != nil {
			return err
		}

		// A tolerated warning exit is only a success if the file exists.
		if fileSize(out) == 0 {
			return &MissingOutputError{Paths: []string{out}}
		}

		return nil
	})
	if err != nil {
		return err
	}

	p.stats.SetCount("classified_files", len(lasFiles))

	return nil
}

// filterGround keeps only class-2 (ground) points of every classified file.
func (p *Pipeline) filterGround(ctx context.Context, startPct, endPct int) error {
	groundFiles, err := sortedGlob(p.project.Ground(), "*.las")
	if err != nil {
		return err
	}

	p.logf(model.LevelInfo, "Filtering %d files for ground points...", len(groundFiles))

	err = p.runEachFile(ctx, groundFiles, startPct, endPct, "Filtering", func(ctx context.Context, i int, src string) error {
		out := filepath.Join(p.project.Terrain(), fmt.Sprintf("only_terrain_%d.las", i+1))

		return p.runTool(ctx, command.Invocation{
			Path: p.cfg.Tools.Las2Las,
			Args: []string{"-i", src, "-o", out, "-keep_class", "2"},
		}, acceptStrict)
	})
	if err != nil {
		return err
	}

	p.stats.SetCount("filtered_files", len(groundFiles))

	return nil
}

// merge joins all filtered terrain clouds into a single LAS file.
func (p *Pipeline) merge(ctx context.Context, _, endPct int) error {
	terrainFiles, err := sortedGlob(p.project.Terrain(), "*.las")
	if err != nil {
		return err
	}

	p.logf(model.LevelInfo, "Merging %d LAS files...", len(terrainFiles))

	out := filepath.Join(p.project.Merged(), layout.FileMergedCloud)

	args := []string{"-i"}
	args = append(args, terrainFiles...)
	args = append(args, "-o", out)

	if err := p.runTool(ctx, command.Invocation{Path: p.cfg.Tools.LasMerge, Args: args}, acceptDemo); err != nil {
		return errors.Wrap(err, "lasmerge")
	}

	size := fileSize(out)
	if size == 0 {
		return &MissingOutputError{Paths: []string{out}}
	}
	p.stats.SetSize("merged_size", size)

	p.updateProgress(endPct, "Point cloud merging complete")

	return nil
}
