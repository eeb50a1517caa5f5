package model

// HillshadeConfig drives the GDAL hillshade rendering.
type HillshadeConfig struct {
	Enabled  bool    `json:"enabled"`
	Azimuth  int     `json:"azimuth"`
	Altitude int     `json:"altitude"`
	ZFactor  float64 `json:"z_factor"`
}

// SLRMConfig drives the simple local relief model rendering.
type SLRMConfig struct {
	Enabled     bool `json:"enabled"`
	RadiusCells int  `json:"radius"`
}

// SVFConfig drives the sky-view-factor rendering.
type SVFConfig struct {
	Enabled    bool `json:"enabled"`
	RadiusMax  int  `json:"radius_max"`
	Directions int  `json:"n_dir"`
}

// LocalDominanceConfig drives the local dominance rendering.
type LocalDominanceConfig struct {
	Enabled   bool `json:"enabled"`
	MinRadius int  `json:"min_rad"`
	MaxRadius int  `json:"max_rad"`
}

// VisualizationConfig selects and parameterizes the four relief
// visualizations produced by the final pipeline stage. The JSON field names
// are part of the hand-off contract with the RVT script and must not change.
type VisualizationConfig struct {
	Hillshade      HillshadeConfig      `json:"hillshade"`
	SLRM           SLRMConfig           `json:"slrm"`
	SVF            SVFConfig            `json:"svf"`
	LocalDominance LocalDominanceConfig `json:"local_dominance"`
}

// DefaultVisualization returns the standard archaeological parameter set:
// hillshade 315/30/2, SLRM radius 20 cells, SVF radius 10 m over 16
// directions, local dominance 15-25 m.
func DefaultVisualization() VisualizationConfig {
	return VisualizationConfig{
		Hillshade:      HillshadeConfig{Enabled: true, Azimuth: 315, Altitude: 30, ZFactor: 2},
		SLRM:           SLRMConfig{Enabled: true, RadiusCells: 20},
		SVF:            SVFConfig{Enabled: true, RadiusMax: 10, Directions: 16},
		LocalDominance: LocalDominanceConfig{Enabled: true, MinRadius: 15, MaxRadius: 25},
	}
}

// Handoff is the wire shape of vis_config.json, written into the project
// directory before the visualization stage and consumed by the RVT script.
type Handoff struct {
	Config   VisualizationConfig `json:"config"`
	QGISPath string              `json:"qgis_path"`
}
