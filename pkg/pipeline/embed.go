package pipeline

import (
	_ "embed"
	"os"
	"text/template"

	"github.com/pkg/errors"
)

// The Python hand-off scripts are compiled into the binary so a run never
// depends on files next to the executable.
var (
	//go:embed scripts/rvt_visualizations.py
	rvtScript []byte

	//go:embed scripts/fill_gaps.py.tmpl
	fillScriptTmpl string
)

var fillTemplate = template.Must(template.New("fill_gaps").Parse(fillScriptTmpl))

// writeRVTScript places the visualization script in the project directory,
// where it finds the DTM and vis_config.json by relative path.
func writeRVTScript(path string) error {
	return errors.Wrap(os.WriteFile(path, rvtScript, 0o644), "unable to write visualization script")
}

// writeFillScript renders the gap-filling script with the raw and final DTM
// paths baked in.
func writeFillScript(path, input, output string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create gap-filling script")
	}

	data := struct{ Input, Output string }{Input: input, Output: output}
	if err := fillTemplate.Execute(f, data); err != nil {
		f.Close()

		return errors.Wrap(err, "unable to render gap-filling script")
	}

	return errors.Wrap(f.Close(), "unable to flush gap-filling script")
}
