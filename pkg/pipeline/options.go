package pipeline

import (
	"github.com/lidarch/lidarch/internal/command"
	"github.com/lidarch/lidarch/pkg/pipeline/drawer"
	"github.com/lidarch/lidarch/pkg/pipeline/measure"
	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// Option configures optional behavior of a Pipeline.
type Option func(*Pipeline)

// WithProgress registers a callback invoked on every progress update.
func WithProgress(fn model.ProgressFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.progress = fn
		}
	}
}

// WithLogger registers a callback invoked for every log message.
func WithLogger(fn model.LogFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.log = fn
		}
	}
}

// WithRunner replaces the process runner used to launch external tools.
func WithRunner(r command.Runner) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.runner = r
		}
	}
}

// WithMeasure replaces the statistics collector.
func WithMeasure(m measure.Measure) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.stats = m
		}
	}
}

// WithDrawer registers a drawer that renders the stage graph after a
// successful run.
func WithDrawer(d drawer.Drawer) Option {
	return func(p *Pipeline) {
		p.drawer = d
	}
}
