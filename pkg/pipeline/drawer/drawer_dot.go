package drawer

import (
	"os"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/lidarch/lidarch/internal/store"
)

// DOTDrawer is a drawer that creates a DOT file with the pipeline graph.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.MutableStore[string, string]
	fileName string
}

// NewDOTDrawer creates a new DOT drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	st := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    st,
		graph:    graph.NewWithStore(graph.StringHash, st, graph.Directed()),
	}
}

// AddStage adds a stage node to the pipeline graph.
func (d *DOTDrawer) AddStage(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and child stages.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// SetElapsed attaches a stage's measured duration as the node's extra label.
func (d *DOTDrawer) SetElapsed(name string, elapsed time.Duration) error {
	if _, _, err := d.graph.VertexWithProperties(name); err != nil {
		return errors.Wrapf(err, "unable to get vertex %s", name)
	}

	d.store.UpdateVertex(name, func(p *graph.VertexProperties) {
		if p.Attributes == nil {
			p.Attributes = make(map[string]string)
		}
		p.Attributes["xlabel"] = round(elapsed).String()
	})

	return nil
}

const maxRGB = 240

// Heat fills every timed stage with a color scaled from the run's slowest
// stage (red) down to its fastest.
func (d *DOTDrawer) Heat(elapsed map[string]time.Duration) error {
	if len(elapsed) == 0 {
		return nil
	}

	var maxElapsed time.Duration
	for _, dur := range elapsed {
		if dur > maxElapsed {
			maxElapsed = dur
		}
	}
	if maxElapsed == 0 {
		return nil
	}

	for name, dur := range elapsed {
		ratio := float64(dur) / float64(maxElapsed)

		heat, err := colors.RGB(uint8(float64(maxRGB)*ratio), uint8(float64(maxRGB)*(1-ratio)), 0) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		d.store.UpdateVertex(name, func(p *graph.VertexProperties) {
			if p.Attributes == nil {
				p.Attributes = make(map[string]string)
			}
			p.Attributes["style"] = "filled"
			p.Attributes["fillcolor"] = heat.ToHEX().String()
		})
	}

	return nil
}

// Draw creates a DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.fileName)
	}

	return nil
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(100 * time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Drawer = (*DOTDrawer)(nil)
