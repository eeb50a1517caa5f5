package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// updateProgress publishes an overall percentage together with the running
// remaining-time estimate.
func (p *Pipeline) updateProgress(pct int, message string) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	remaining, hasEstimate := model.EstimateRemaining(time.Since(p.startTime), pct)
	p.progress(pct, message, remaining, hasEstimate)
}

// spanProgress maps done/total completion of a stage onto the stage's slice
// of the overall 0-100 scale.
func spanProgress(startPct, endPct, done, total int) int {
	if total <= 0 {
		return endPct
	}

	return startPct + done*(endPct-startPct)/total
}

// perFileFn processes one input file. index is the zero-based position in
// the stage's file list; stages that number their outputs derive the name
// from it.
type perFileFn func(ctx context.Context, index int, src string) error

// runEachFile applies fn to every file in order, publishing per-file
// progress within the stage's range. A single failing file fails the stage.
func (p *Pipeline) runEachFile(ctx context.Context, files []string, startPct, endPct int, verb string, fn perFileFn) error {
	for i, src := range files {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "interrupted")
		}

		if err := fn(ctx, i, src); err != nil {
			return errors.Wrap(err, filepath.Base(src))
		}

		p.updateProgress(
			spanProgress(startPct, endPct, i+1, len(files)),
			fmt.Sprintf("%s file %d/%d", verb, i+1, len(files)),
		)
	}

	return nil
}

// sortedGlob returns the files in dir matching pattern, in lexical order so
// repeated runs process inputs deterministically.
func sortedGlob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "glob %s", pattern)
	}
	sort.Strings(matches)

	return matches, nil
}

func copyAll(files []string, dstDir string) error {
	for _, src := range files {
		if err := copyFile(src, filepath.Join(dstDir, filepath.Base(src))); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "unable to open source file")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "unable to create destination file")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return errors.Wrapf(err, "unable to copy %s", filepath.Base(src))
	}

	return errors.Wrap(out.Close(), "unable to flush destination file")
}

// fileSize returns the size of path in bytes, or 0 when it cannot be read.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}

	return info.Size()
}
