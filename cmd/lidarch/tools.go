package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

// resolveTools maps the three installation directories to the executables
// the workflow drives. Only layout knowledge lives here; existence checks
// happen in the pipeline's setup.
func resolveTools(lastoolsDir, sagaDir, qgisDir string) model.Tools {
	return model.Tools{
		Las2Las:   filepath.Join(lastoolsDir, exe("las2las64")),
		LasGround: filepath.Join(lastoolsDir, exe("lasground64")),
		LasMerge:  filepath.Join(lastoolsDir, exe("lasmerge64")),

		SagaCmd:       filepath.Join(sagaDir, exe("saga_cmd")),
		GdalBuildVRT:  filepath.Join(qgisDir, "bin", exe("gdalbuildvrt")),
		GdalTranslate: filepath.Join(qgisDir, "bin", exe("gdal_translate")),
		QGISPython:    qgisPython(qgisDir),

		SagaDir: sagaDir,
		QGISDir: qgisDir,
	}
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}

	return name
}

// qgisPython locates the QGIS-bundled Python interpreter. Windows installs
// wrap it in a batch file whose name depends on the release channel, with
// the LTR wrapper preferred when both exist.
func qgisPython(qgisDir string) string {
	if runtime.GOOS != "windows" {
		return filepath.Join(qgisDir, "bin", "python3")
	}

	ltr := filepath.Join(qgisDir, "bin", "python-qgis-ltr.bat")
	if _, err := os.Stat(ltr); err == nil {
		return ltr
	}

	return filepath.Join(qgisDir, "bin", "python-qgis.bat")
}
