package config

import "sort"

// Presets are named single-run setups for the run and live commands.
var Presets = map[string]map[string]*ModelConfig{
	"mm": {
		"reference": {
			Name: "mm", Init: []float64{1.0, 0.0}, Dt: 1e-3, Steps: 10000,
		},
		"dilute": {
			Name: "mm", Init: []float64{0.1, 0.0}, Dt: 1e-3, Steps: 10000,
		},
		"saturated": {
			Name: "mm", Init: []float64{10.0, 0.0}, Dt: 1e-3, Steps: 20000,
		},
	},
	"sir": {
		"reference": {
			Name: "sir", Init: []float64{999, 1, 0}, Dt: 1e-2, Steps: 10000,
		},
		"slow": {
			Name: "sir", Init: []float64{999, 1, 0}, Dt: 1e-2, Steps: 20000,
			Params: map[string]float64{"beta": 0.15},
		},
		"small_town": {
			Name: "sir", Init: []float64{99, 1, 0}, Dt: 1e-2, Steps: 10000,
			Params: map[string]float64{"n": 100},
		},
	},
	"fhn": {
		"reference": {
			Name: "fhn", Init: []float64{-1.0, 1.0}, Dt: 1e-2, Steps: 5000,
		},
		"excited": {
			Name: "fhn", Init: []float64{1.5, 0.0}, Dt: 1e-2, Steps: 5000,
		},
	},
	"nernst": {
		"sodium": {
			Name: "nernst", Init: []float64{0.0}, Dt: 1e-3, Steps: 5000,
		},
		"potassium": {
			Name: "nernst", Init: []float64{0.0}, Dt: 1e-3, Steps: 5000,
			Params: map[string]float64{"co": 5, "ci": 140},
		},
	},
	"poiseuille": {
		"reference": {
			Name: "poiseuille", Init: []float64{0.0}, Dt: 1e-4, Steps: 5000,
		},
		"capillary": {
			Name: "poiseuille", Init: []float64{0.0}, Dt: 1e-4, Steps: 5000,
			Params: map[string]float64{"r": 4e-6, "l": 1e-3},
		},
	},
}

func GetPreset(model, preset string) *ModelConfig {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
