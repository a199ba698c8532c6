package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration.
// Search order: customPath -> ~/.pursuit/config.yaml -> ./configs/pursuit.yaml -> embedded default.
// Values missing from a file keep their defaults. An explicit customPath
// that cannot be read or parsed is an error; the other locations are
// skipped when unusable.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil && cfg.Validate() == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "pursuit.yaml")); err == nil {
		if cfg, err := parse(data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // embedded file is broken, use hard-coded values
	}
	return cfg, nil
}

// parse decodes data on top of the defaults. Each pursuer entry is
// decoded over that variant's defaults, so a file may set a single field.
func parse(data []byte) (Config, error) {
	var raw struct {
		Pursuers map[string]yaml.Node `yaml:"pursuers"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Pursuers == nil {
		cfg.Pursuers = make(map[string]PursuerConfig, len(raw.Pursuers))
	}
	for name, node := range raw.Pursuers {
		p := Default().Pursuer(name)
		if err := node.Decode(&p); err != nil {
			return Config{}, fmt.Errorf("pursuers.%s: %w", name, err)
		}
		cfg.Pursuers[name] = p
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pursuit", filename)
}
