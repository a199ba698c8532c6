// Package config provides YAML-based configuration for pursuer pacing,
// scoring, display and storage.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// Config is the full application configuration.
type Config struct {
	Pursuers map[string]PursuerConfig `yaml:"pursuers"`
	Scoring  ScoringConfig            `yaml:"scoring"`
	Display  DisplayConfig            `yaml:"display"`
	Storage  StorageConfig            `yaml:"storage"`
}

// PursuerConfig tunes one pursuer variant.
type PursuerConfig struct {
	BaseIntervalMs int  `yaml:"base_interval_ms"`
	JitterMs       int  `yaml:"jitter_ms"`
	TerrainAware   bool `yaml:"terrain_aware"`
	Lookahead      int  `yaml:"lookahead,omitempty"`  // ambusher only
	ShyRadius      int  `yaml:"shy_radius,omitempty"` // wanderer only
}

// ScoringConfig defines point values.
type ScoringConfig struct {
	PelletValue int `yaml:"pellet_value"`
}

// DisplayConfig defines renderer parameters.
type DisplayConfig struct {
	FPS int `yaml:"fps"` // frames sampled per second, independent of moves
}

// StorageConfig defines where results are kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Timing converts the interval settings to a state.Timing.
func (p PursuerConfig) Timing() state.Timing {
	return state.Timing{
		Base:   time.Duration(p.BaseIntervalMs) * time.Millisecond,
		Jitter: time.Duration(p.JitterMs) * time.Millisecond,
	}
}

// Options converts the strategy settings to strategy.Options.
func (p PursuerConfig) Options() strategy.Options {
	return strategy.Options{
		TerrainAware: p.TerrainAware,
		Lookahead:    p.Lookahead,
		ShyRadius:    p.ShyRadius,
	}
}

// Pursuer returns the settings for a variant, falling back to the
// built-in defaults for variants the file does not mention.
func (c Config) Pursuer(variant string) PursuerConfig {
	if p, ok := c.Pursuers[variant]; ok {
		return p
	}
	if p, ok := Default().Pursuers[variant]; ok {
		return p
	}
	return defaultPursuer
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	names := make([]string, 0, len(c.Pursuers))
	for name := range c.Pursuers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := c.Pursuers[name]
		if !strategy.Exists(name) {
			return fmt.Errorf("config: pursuers: unknown variant %q", name)
		}
		if p.BaseIntervalMs <= 0 {
			return fmt.Errorf("config: pursuers.%s.base_interval_ms must be > 0, got %d", name, p.BaseIntervalMs)
		}
		if p.JitterMs < 0 {
			return fmt.Errorf("config: pursuers.%s.jitter_ms must be >= 0, got %d", name, p.JitterMs)
		}
		if p.Lookahead < 0 || p.ShyRadius < 0 {
			return fmt.Errorf("config: pursuers.%s: lookahead and shy_radius must be >= 0", name)
		}
	}
	if c.Scoring.PelletValue <= 0 {
		return fmt.Errorf("config: scoring.pellet_value must be > 0, got %d", c.Scoring.PelletValue)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("config: display.fps must be > 0, got %d", c.Display.FPS)
	}
	return nil
}
