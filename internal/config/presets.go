package config

// Presets are named generation profiles selectable from the CLI.
var Presets = map[string]*Config{
	"euler": {
		Target: "python", Order: "tsp", Delta: DefaultDelta,
		Schemes: []string{"forward_explicit_euler"},
	},
	"stiff": {
		Target: "python", Order: "tsp", Delta: DefaultDelta,
		Schemes: []string{"generalized_rush_larsen"},
	},
	"c": {
		Target: "c", Order: "tsp", Delta: DefaultDelta,
		Schemes: []string{"forward_explicit_euler", "generalized_rush_larsen"},
	},
	"go": {
		Target: "go", Order: "tsp", Delta: DefaultDelta,
		Schemes: []string{"forward_explicit_euler", "generalized_rush_larsen"},
	},
}

// GetPreset returns a copy of the named preset, or nil when it does not
// exist. Callers may overwrite fields without affecting the preset table.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Schemes = append([]string(nil), p.Schemes...)
	cfg.StiffStates = append([]string(nil), p.StiffStates...)
	return &cfg
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
