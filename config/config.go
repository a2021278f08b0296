// Package config loads the engine settings from TOML and builds the logger.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/scenery/scene"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Physics PhysicsConfig `toml:"physics"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	StrictContracts bool          `toml:"strict_contracts"`
	LeakCheck       bool          `toml:"leak_check"`
	FrameInterval   time.Duration `toml:"frame_interval"`
}

type PhysicsConfig struct {
	Climbable    float32    `toml:"climbable"`  // min |dot(normal, up)| for ground
	Wall         float32    `toml:"wall"`       // dot(normal, up) above which faces are not walls
	MoveProbe    float32    `toml:"move_probe"` // radius for clipping horizontal movement
	MassEpsilon  float32    `toml:"mass_epsilon"`
	Gravity      mgl32.Vec3 `toml:"gravity"`
	FallbackAxis mgl32.Vec3 `toml:"fallback_axis"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML data over the defaults; name is used in errors.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	return cfg, nil
}

func Default() *Config {
	sc := scene.DefaultConfig()
	return &Config{
		Engine: EngineConfig{
			StrictContracts: sc.StrictContracts,
			LeakCheck:       sc.LeakCheck,
			FrameInterval:   time.Second / 60,
		},
		Physics: PhysicsConfig{
			Climbable:    sc.Physics.Climbable,
			Wall:         sc.Physics.Wall,
			MoveProbe:    sc.Physics.MoveProbe,
			MassEpsilon:  sc.Physics.MassEpsilon,
			Gravity:      sc.Physics.Gravity,
			FallbackAxis: sc.Physics.FallbackAxis,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Scene converts the settings to the form scene.WithConfig takes.
func (c *Config) Scene() scene.Config {
	return scene.Config{
		StrictContracts: c.Engine.StrictContracts,
		LeakCheck:       c.Engine.LeakCheck,
		Physics: scene.PhysicsConfig{
			Climbable:    c.Physics.Climbable,
			Wall:         c.Physics.Wall,
			MoveProbe:    c.Physics.MoveProbe,
			MassEpsilon:  c.Physics.MassEpsilon,
			Gravity:      c.Physics.Gravity,
			FallbackAxis: c.Physics.FallbackAxis,
		},
	}
}
