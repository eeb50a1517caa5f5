// Package model provides the data structures shared across the pipeline.
// It defines the run configuration, the resolved external tool paths, the
// visualization settings handed off to the RVT step, and the callback
// contracts the pipeline uses to report progress and log messages.
package model
