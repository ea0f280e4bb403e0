package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	golog "github.com/tochemey/goakt/v3/log"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalidConfig     = errors.New("invalid config")
)

type Config struct {
	// Viewport
	WorldWidth  float64 `json:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" toml:"worldHeight"`

	// Population
	GridSize int     `json:"gridSize" toml:"gridSize"`
	Spacing  float32 `json:"spacing" toml:"spacing"`

	// Engine
	Rules   flock.Rules `json:"rules" toml:"rules"`
	Forward mgl32.Vec3  `json:"forward" toml:"forward"` // model axis turned onto the velocity
	Workers int         `json:"workers" toml:"workers"`

	// Clock
	TicksPerSecond int     `json:"ticksPerSecond" toml:"ticksPerSecond"`
	LogInterval    float64 `json:"logInterval" toml:"logInterval"` // simulation seconds between telemetry lines, 0 disables

	// Headless runs
	Steps int `json:"steps" toml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:     1280,
		WorldHeight:    720,
		GridSize:       flock.DefaultLayout().GridSize,
		Spacing:        flock.DefaultLayout().Spacing,
		Rules:          flock.DefaultRules(),
		Forward:        flock.DefaultForward,
		Workers:        1,
		TicksPerSecond: 60,
		LogInterval:    2,
		Steps:          600,
	}
}

// Layout returns the seeding layout described by the config.
func (c *Config) Layout() flock.Layout {
	return flock.Layout{GridSize: c.GridSize, Spacing: c.Spacing}
}

// TickDuration is the fixed step the hosts feed to the world.
func (c *Config) TickDuration() time.Duration {
	if c.TicksPerSecond <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TicksPerSecond)
}

// NewEngine builds the flock engine described by the config.
func (c *Config) NewEngine(logger golog.Logger) *flock.Engine {
	return flock.NewEngine(c.Rules,
		flock.WithForward(c.Forward),
		flock.WithWorkers(c.Workers),
		flock.WithLogger(logger),
	)
}

// Validate checks what the JSON schema cannot express.
func (c *Config) Validate() error {
	if geometry.IsZero(c.Forward) {
		return fmt.Errorf("%w: forward axis must not be the zero vector", ErrInvalidConfig)
	}
	if c.TicksPerSecond <= 0 {
		return fmt.Errorf("%w: ticksPerSecond must be positive, got %d", ErrInvalidConfig, c.TicksPerSecond)
	}
	if c.Rules.Boundary == flock.BoundaryWrap {
		lo, hi := c.Rules.WrapMin, c.Rules.WrapMax
		if lo.X() >= hi.X() || lo.Y() >= hi.Y() {
			return fmt.Errorf("%w: wrap bound min %v must be below max %v", ErrInvalidConfig, lo, hi)
		}
	}
	return nil
}

// LoadConfig loads configuration from a JSON or TOML file over the defaults
// and validates it against the embedded schema.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Decode + validate per format
	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".json":
		cfg, err = loadJSON(configFile, sch)
	case ".toml":
		cfg, err = loadTOML(configFile, sch)
	default:
		return nil, fmt.Errorf("%w: %q (want .json or .toml)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	// 3. Cross-field checks
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadJSON(configFile string, sch *jsonschema.Schema) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// fields missing from the file keep their default value
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func loadTOML(configFile string, sch *jsonschema.Schema) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(configFile, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}
	if err := validateConfig(sch, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig runs the schema over an already decoded config.
func validateConfig(sch *jsonschema.Schema, cfg *Config) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
