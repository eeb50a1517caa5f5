package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lidarch/lidarch/pkg/pipeline"
	"github.com/lidarch/lidarch/pkg/pipeline/drawer"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

var flags struct {
	inputDir   string
	outputRoot string

	lastoolsDir string
	sagaDir     string
	qgisDir     string

	pollInterval time.Duration
	toolTimeout  time.Duration

	noHillshade      bool
	noSLRM           bool
	noSVF            bool
	noLocalDominance bool

	hsAzimuth  int
	hsAltitude int
	hsZFactor  float64
	slrmRadius int
	svfRadius  int
	svfDirs    int
	ldMinRad   int
	ldMaxRad   int

	graphFile string
}

var rootCmd = &cobra.Command{
	Use:   "lidarch",
	Short: "LiDAR point clouds to archaeological relief visualizations",
	Long: `lidarch drives the full LiDAR processing workflow: it decompresses the
input point clouds, classifies and filters ground points, interpolates a
digital terrain model and renders relief visualizations, running LAStools,
SAGA GIS, GDAL and the QGIS Python runtime as external tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the processing workflow on a folder of LAS/LAZ files",
	RunE:  runWorkflow,
}

func init() {
	f := runCmd.Flags()

	f.StringVarP(&flags.inputDir, "input", "i", "", "folder containing the source *.las/*.laz files")
	f.StringVarP(&flags.outputRoot, "output", "o", "", "parent folder for the project directory (default: home)")

	f.StringVar(&flags.lastoolsDir, "lastools", "", "LAStools bin directory")
	f.StringVar(&flags.sagaDir, "saga", "", "SAGA GIS installation directory")
	f.StringVar(&flags.qgisDir, "qgis", "", "QGIS installation directory")

	f.DurationVar(&flags.pollInterval, "poll-interval", 0, "visualization process poll cadence (default 10s)")
	f.DurationVar(&flags.toolTimeout, "tool-timeout", 0, "per-tool time limit (default: none)")

	f.BoolVar(&flags.noHillshade, "no-hillshade", false, "skip the hillshade visualization")
	f.BoolVar(&flags.noSLRM, "no-slrm", false, "skip the local relief model visualization")
	f.BoolVar(&flags.noSVF, "no-svf", false, "skip the sky-view-factor visualization")
	f.BoolVar(&flags.noLocalDominance, "no-local-dominance", false, "skip the local dominance visualization")

	f.IntVar(&flags.hsAzimuth, "hillshade-azimuth", 315, "hillshade light azimuth in degrees")
	f.IntVar(&flags.hsAltitude, "hillshade-altitude", 30, "hillshade light altitude in degrees")
	f.Float64Var(&flags.hsZFactor, "hillshade-z", 2, "hillshade vertical exaggeration")
	f.IntVar(&flags.slrmRadius, "slrm-radius", 20, "local relief model radius in cells")
	f.IntVar(&flags.svfRadius, "svf-radius", 10, "sky-view-factor max radius in meters")
	f.IntVar(&flags.svfDirs, "svf-directions", 16, "sky-view-factor direction count")
	f.IntVar(&flags.ldMinRad, "ld-min-radius", 15, "local dominance minimum radius in meters")
	f.IntVar(&flags.ldMaxRad, "ld-max-radius", 25, "local dominance maximum radius in meters")

	f.StringVar(&flags.graphFile, "graph", "", "write a Graphviz DOT stage graph to this file after the run")

	for _, name := range []string{"input", "lastools", "saga", "qgis"} {
		cobra.CheckErr(runCmd.MarkFlagRequired(name))
	}

	rootCmd.AddCommand(runCmd)
}

func buildConfig() model.Config {
	vis := model.VisualizationConfig{
		Hillshade: model.HillshadeConfig{
			Enabled:  !flags.noHillshade,
			Azimuth:  flags.hsAzimuth,
			Altitude: flags.hsAltitude,
			ZFactor:  flags.hsZFactor,
		},
		SLRM: model.SLRMConfig{
			Enabled:     !flags.noSLRM,
			RadiusCells: flags.slrmRadius,
		},
		SVF: model.SVFConfig{
			Enabled:    !flags.noSVF,
			RadiusMax:  flags.svfRadius,
			Directions: flags.svfDirs,
		},
		LocalDominance: model.LocalDominanceConfig{
			Enabled:   !flags.noLocalDominance,
			MinRadius: flags.ldMinRad,
			MaxRadius: flags.ldMaxRad,
		},
	}

	return model.Config{
		InputDir:      flags.inputDir,
		OutputRoot:    flags.outputRoot,
		Tools:         resolveTools(flags.lastoolsDir, flags.sagaDir, flags.qgisDir),
		Visualization: vis,
		PollInterval:  flags.pollInterval,
		ToolTimeout:   flags.toolTimeout,
	}
}

func runWorkflow(cmd *cobra.Command, _ []string) error {
	events := make(chan event, 64)

	opts := []pipeline.Option{
		pipeline.WithLogger(func(message string, level model.Level) {
			events <- event{message: message, level: level}
		}),
		pipeline.WithProgress(func(pct int, message string, remaining time.Duration, hasEstimate bool) {
			events <- event{
				message:     message,
				progress:    true,
				percentage:  pct,
				remaining:   remaining,
				hasEstimate: hasEstimate,
			}
		}),
	}
	if flags.graphFile != "" {
		opts = append(opts, pipeline.WithDrawer(drawer.NewDOTDrawer(flags.graphFile)))
	}

	p, err := pipeline.New(buildConfig(), opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))

		return err
	}

	var succeeded bool

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		defer close(events)
		succeeded = p.Run(ctx)

		return nil
	})
	g.Go(func() error {
		for ev := range events {
			fmt.Println(ev.render())
		}

		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	printStats(p.Stats())

	if !succeeded {
		fmt.Fprintln(os.Stderr, renderError(errors.New("workflow failed, partial results kept in "+p.ProjectDir())))

		return errors.New("workflow failed")
	}

	fmt.Println(renderSuccess("Workflow complete: " + p.ProjectDir()))

	return nil
}

func printStats(stats map[string]string) {
	if len(stats) == 0 {
		return
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Println(renderHeading("Processing statistics"))
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", renderStatKey(k), stats[k])
	}
}
