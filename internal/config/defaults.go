package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

//go:embed defaults/pursuit.yaml
var defaultYAML []byte

var defaultPursuer = PursuerConfig{
	BaseIntervalMs: 250,
	JitterMs:       50,
	TerrainAware:   true,
}

// Default returns the hard-coded configuration. It matches the embedded
// defaults/pursuit.yaml.
func Default() Config {
	ambusher := defaultPursuer
	ambusher.BaseIntervalMs = 200
	ambusher.JitterMs = 100
	ambusher.Lookahead = 4

	wanderer := defaultPursuer
	wanderer.ShyRadius = 8

	return Config{
		Pursuers: map[string]PursuerConfig{
			strategy.Chaser:    defaultPursuer,
			strategy.Ambusher:  ambusher,
			strategy.Patroller: defaultPursuer,
			strategy.Wanderer:  wanderer,
		},
		Scoring: ScoringConfig{
			PelletValue: 10,
		},
		Display: DisplayConfig{
			FPS: 25,
		},
		Storage: StorageConfig{
			DBPath: "~/.pursuit/scores.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
