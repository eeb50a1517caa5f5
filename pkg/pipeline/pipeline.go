package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lidarch/lidarch/internal/command"
	"github.com/lidarch/lidarch/internal/layout"
	"github.com/lidarch/lidarch/pkg/pipeline/drawer"
	"github.com/lidarch/lidarch/pkg/pipeline/measure"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

const defaultPollInterval = 10 * time.Second

// Pipeline drives one processing run from raw point clouds to relief
// visualizations. A Pipeline is single-use: it exclusively owns its project
// directory for the duration of Run and is discarded afterwards.
type Pipeline struct {
	cfg      model.Config
	progress model.ProgressFunc
	log      model.LogFunc
	runner   command.Runner
	stats    measure.Measure
	drawer   drawer.Drawer
	project  layout.Project

	pollInterval time.Duration
	startTime    time.Time
	stageTimes   map[string]time.Duration
}

// New creates a pipeline for one run of the given configuration.
func New(cfg model.Config, opts ...Option) (*Pipeline, error) {
	if cfg.InputDir == "" {
		return nil, errors.New("input folder must be set")
	}

	outputRoot := cfg.OutputRoot
	if outputRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "unable to determine output root")
		}
		outputRoot = home
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	p := &Pipeline{
		cfg:          cfg,
		progress:     func(int, string, time.Duration, bool) {},
		log:          func(string, model.Level) {},
		runner:       &command.ExecRunner{Timeout: cfg.ToolTimeout},
		stats:        measure.NewReport(),
		project:      layout.New(outputRoot, time.Now()),
		pollInterval: pollInterval,
		stageTimes:   make(map[string]time.Duration),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// stage binds a stage function to its display name and progress range.
type stage struct {
	info model.StageInfo
	run  stageFn
}

type stageFn func(ctx context.Context, startPct, endPct int) error

// stageSequence is the fixed order of the workflow. Progress boundaries are
// part of the caller-visible contract: 0, 15, 40, 50, 75, 85, 100.
func (p *Pipeline) stageSequence() []stage {
	return []stage{
		{model.StageInfo{Name: "Step 1: Decompression", StartPct: 0, EndPct: 15}, p.decompress},
		{model.StageInfo{Name: "Step 2: Ground Classification", StartPct: 15, EndPct: 40}, p.classify},
		{model.StageInfo{Name: "Step 3: Ground Filtering", StartPct: 40, EndPct: 50}, p.filterGround},
		{model.StageInfo{Name: "Step 4: DTM Interpolation", StartPct: 50, EndPct: 75}, p.interpolate},
		{model.StageInfo{Name: "Step 5: Point Cloud Merging", StartPct: 75, EndPct: 85}, p.merge},
		{model.StageInfo{Name: "Step 6: RVT Visualizations", StartPct: 85, EndPct: 100}, p.visualize},
	}
}

// Run executes the whole workflow and reports whether it succeeded. Every
// failure is converted into a log message and a false return; nothing
// escapes this boundary. Artifacts of completed stages are kept on failure,
// and temporary files are only cleaned up after full success.
func (p *Pipeline) Run(ctx context.Context) (succeeded bool) {
	p.startTime = time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logf(model.LevelError, "unexpected error in workflow: %v", r)
			succeeded = false
		}
		// total_time is computed exactly once, on success and on failure.
		p.stats.SetTotalDuration(time.Since(p.startTime))
	}()

	p.log("Starting LiDAR processing workflow...", model.LevelInfo)

	if err := p.setup(); err != nil {
		p.logf(model.LevelError, "project setup failed: %v", err)

		return false
	}

	for _, st := range p.stageSequence() {
		if err := ctx.Err(); err != nil {
			p.logf(model.LevelError, "workflow interrupted: %v", err)

			return false
		}

		p.banner(st.info.Name)

		stageStart := time.Now()
		if err := st.run(ctx, st.info.StartPct, st.info.EndPct); err != nil {
			p.logf(model.LevelError, "%s failed: %v", st.info.Name, err)

			return false
		}
		elapsed := time.Since(stageStart)
		p.stageTimes[st.info.Name] = elapsed
		p.logf(model.LevelSuccess, "%s completed in %.1fs", st.info.Name, elapsed.Seconds())
	}

	p.cleanup()

	if err := p.draw(); err != nil {
		p.logf(model.LevelWarning, "stage graph not drawn: %v", err)
	}

	return true
}

// Stats returns the statistics accumulated so far. After Run it holds the
// final record; after a failed run it holds whatever the completed stages
// contributed.
func (p *Pipeline) Stats() map[string]string {
	return p.stats.Snapshot()
}

// StageTimes returns the elapsed wall-clock duration of every completed
// stage, keyed by stage display name.
func (p *Pipeline) StageTimes() map[string]time.Duration {
	out := make(map[string]time.Duration, len(p.stageTimes))
	for k, v := range p.stageTimes {
		out[k] = v
	}

	return out
}

// ProjectDir returns the timestamped directory this run writes into.
func (p *Pipeline) ProjectDir() string {
	return p.project.Root
}

// setup verifies the tool paths, creates the project scaffolding and stages
// the input files. It fails before any stage runs when the input folder
// holds no recognized point clouds.
func (p *Pipeline) setup() error {
	for name, path := range p.cfg.Tools.All() {
		if path == "" {
			return errors.Wrapf(ErrMissingTool, "%s path is empty", name)
		}
		if _, err := os.Stat(path); err != nil {
			return errors.Wrapf(ErrMissingTool, "%s (%s)", name, path)
		}
	}
	for name, dir := range map[string]string{"SAGA": p.cfg.Tools.SagaDir, "QGIS": p.cfg.Tools.QGISDir} {
		if dir == "" {
			return errors.Wrapf(ErrMissingTool, "%s installation directory is empty", name)
		}
		if _, err := os.Stat(dir); err != nil {
			return errors.Wrapf(ErrMissingTool, "%s installation (%s)", name, dir)
		}
	}

	p.logf(model.LevelInfo, "Creating project directory: %s", p.project.Root)
	if err := p.project.Scaffold(); err != nil {
		return err
	}

	lazFiles, err := sortedGlob(p.cfg.InputDir, "*.laz")
	if err != nil {
		return err
	}
	lasFiles, err := sortedGlob(p.cfg.InputDir, "*.las")
	if err != nil {
		return err
	}

	if len(lazFiles)+len(lasFiles) == 0 {
		return errors.Wrap(ErrNoInputFiles, p.cfg.InputDir)
	}
	p.stats.SetCount("input_files", len(lazFiles)+len(lasFiles))

	if len(lazFiles) > 0 {
		p.stats.Set("file_format", "LAZ (compressed)")
		if err := os.MkdirAll(p.project.RawLAZ(), 0o755); err != nil {
			return errors.Wrap(err, "unable to create LAZ staging directory")
		}

		p.logf(model.LevelInfo, "Copying %d LAZ files...", len(lazFiles))

		return copyAll(lazFiles, p.project.RawLAZ())
	}

	p.stats.Set("file_format", "LAS (uncompressed)")
	p.logf(model.LevelInfo, "Copying %d LAS files...", len(lasFiles))

	return copyAll(lasFiles, p.project.RawLAS())
}

// cleanup removes the intermediate artifacts of a successful run. Failures
// here only warn: the deliverables are already in place.
func (p *Pipeline) cleanup() {
	p.log("Cleaning up temporary files...", model.LevelInfo)

	removed, err := p.project.CleanTemp()
	for _, name := range removed {
		p.logf(model.LevelInfo, "  Removed: %s", name)
	}
	if err != nil {
		p.logf(model.LevelWarning, "cleanup warning: %v", err)

		return
	}

	p.log("Cleanup complete", model.LevelSuccess)
}

func (p *Pipeline) draw() error {
	if p.drawer == nil {
		return nil
	}

	stages := p.stageSequence()
	for i, st := range stages {
		if err := p.drawer.AddStage(st.info.Name); err != nil {
			return err
		}
		if i > 0 {
			if err := p.drawer.AddLink(stages[i-1].info.Name, st.info.Name); err != nil {
				return err
			}
		}
	}

	for name, elapsed := range p.stageTimes {
		if err := p.drawer.SetElapsed(name, elapsed); err != nil {
			return err
		}
	}
	if err := p.drawer.Heat(p.stageTimes); err != nil {
		return err
	}

	return p.drawer.Draw()
}

func (p *Pipeline) banner(name string) {
	sep := strings.Repeat("=", 60)
	p.log(sep, model.LevelInfo)
	p.log(name, model.LevelInfo)
	p.log(sep, model.LevelInfo)
}

func (p *Pipeline) logf(level model.Level, format string, args ...interface{}) {
	p.log(fmt.Sprintf(format, args...), level)
}
