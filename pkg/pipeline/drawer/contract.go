// Package drawer renders the executed pipeline topology as a Graphviz DOT
// file, annotated with per-stage wall-clock durations and heat coloring.
package drawer

import "time"

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage node to the pipeline graph.
	AddStage(name string) error
	// AddLink adds a link between consecutive stages.
	AddLink(parentName, childName string) error
	// SetElapsed attaches a stage's measured duration to its node.
	SetElapsed(name string, elapsed time.Duration) error
	// Heat colors every timed stage from fastest to slowest.
	Heat(elapsed map[string]time.Duration) error
	// Draw writes the graph file.
	Draw() error
}
