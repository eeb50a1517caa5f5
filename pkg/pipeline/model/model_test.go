package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidarch/lidarch/pkg/pipeline/model"
)

func TestEstimateRemaining(t *testing.T) {
	t.Parallel()

	_, ok := model.EstimateRemaining(time.Minute, 0)
	assert.False(t, ok, "no estimate before the first progress")

	remaining, ok := model.EstimateRemaining(time.Minute, 25)
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, remaining)

	remaining, ok = model.EstimateRemaining(time.Minute, 50)
	require.True(t, ok)
	assert.Equal(t, time.Minute, remaining)

	remaining, ok = model.EstimateRemaining(time.Minute, 100)
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), remaining)
}

func TestDefaultVisualization(t *testing.T) {
	t.Parallel()

	vis := model.DefaultVisualization()

	assert.True(t, vis.Hillshade.Enabled)
	assert.Equal(t, 315, vis.Hillshade.Azimuth)
	assert.Equal(t, 30, vis.Hillshade.Altitude)
	assert.InDelta(t, 2.0, vis.Hillshade.ZFactor, 0)

	assert.True(t, vis.SLRM.Enabled)
	assert.Equal(t, 20, vis.SLRM.RadiusCells)

	assert.True(t, vis.SVF.Enabled)
	assert.Equal(t, 10, vis.SVF.RadiusMax)
	assert.Equal(t, 16, vis.SVF.Directions)

	assert.True(t, vis.LocalDominance.Enabled)
	assert.Equal(t, 15, vis.LocalDominance.MinRadius)
	assert.Equal(t, 25, vis.LocalDominance.MaxRadius)
}

func TestHandoffWireFormat(t *testing.T) {
	t.Parallel()

	handoff := model.Handoff{
		Config:   model.DefaultVisualization(),
		QGISPath: `C:\Program Files\QGIS 3.40.14`,
	}

	raw, err := json.Marshal(handoff)
	require.NoError(t, err)

	// The consuming script addresses these keys literally.
	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Contains(t, wire, "config")
	require.Contains(t, wire, "qgis_path")

	var cfg map[string]map[string]any
	require.NoError(t, json.Unmarshal(wire["config"], &cfg))
	require.Contains(t, cfg, "hillshade")
	require.Contains(t, cfg, "slrm")
	require.Contains(t, cfg, "svf")
	require.Contains(t, cfg, "local_dominance")

	assert.Equal(t, true, cfg["hillshade"]["enabled"])
	assert.InDelta(t, 315, cfg["hillshade"]["azimuth"].(float64), 0)
	assert.InDelta(t, 20, cfg["slrm"]["radius"].(float64), 0)
	assert.InDelta(t, 16, cfg["svf"]["n_dir"].(float64), 0)
	assert.InDelta(t, 25, cfg["local_dominance"]["max_rad"].(float64), 0)
}

func TestToolsAll(t *testing.T) {
	t.Parallel()

	tools := model.Tools{
		Las2Las:       "/bin/las2las64",
		LasGround:     "/bin/lasground64",
		LasMerge:      "/bin/lasmerge64",
		SagaCmd:       "/bin/saga_cmd",
		GdalBuildVRT:  "/bin/gdalbuildvrt",
		GdalTranslate: "/bin/gdal_translate",
		QGISPython:    "/bin/python3",
	}

	all := tools.All()
	assert.Len(t, all, 7)
	assert.Equal(t, "/bin/saga_cmd", all["saga_cmd"])
}
