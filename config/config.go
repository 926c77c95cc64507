package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Logging   LoggingConfig   `toml:"logging"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Scripting ScriptingConfig `toml:"scripting"`
	Prefabs   PrefabConfig    `toml:"prefabs"`
}

type EngineConfig struct {
	Name      string        `toml:"name"`
	FixedStep time.Duration `toml:"fixed_step"` // frame delta handed to World.Update
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// PipelineConfig declares composition once at startup: an ordered list of
// system registrations the driver resolves against its constructor table.
// Order in the file breaks priority ties, matching Runner semantics.
type PipelineConfig struct {
	Systems []SystemEntry `toml:"systems"`
}

type SystemEntry struct {
	Name   string `toml:"name"`
	Update bool   `toml:"update"`
	Render bool   `toml:"render"`
}

type ScriptingConfig struct {
	Enabled    bool   `toml:"enabled"`
	ScriptsDir string `toml:"scripts_dir"`
	// Priority of the Lua on_update bridge within the update pipeline.
	HookPriority int `toml:"hook_priority"`
}

type PrefabConfig struct {
	TablePath string `toml:"table_path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:      "lumen",
			FixedStep: 16 * time.Millisecond, // ~60 Hz
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Enabled:      false,
			ScriptsDir:   "scripts",
			HookPriority: 500,
		},
	}
}

// Default returns the built-in configuration, for embedders that skip the
// TOML file entirely.
func Default() *Config {
	return defaults()
}
