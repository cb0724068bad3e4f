package config

import "time"

// Config is the complete mindmap configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Placement PlacementConfig `yaml:"placement"`
	Redraw    RedrawConfig    `yaml:"redraw"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string   `yaml:"addr" validate:"required"`
	ReadTimeout  Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout Duration `yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout  Duration `yaml:"idle_timeout" validate:"gte=0"`
}

// CanvasConfig is the drawing surface extent
type CanvasConfig struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// PlacementConfig tunes automatic node placement
type PlacementConfig struct {
	Alignment string `yaml:"alignment" validate:"oneof=centered margin"`
	Seed      uint64 `yaml:"seed"` // 0 = seeded from the clock
}

// RedrawConfig holds the batched redraw cadence
type RedrawConfig struct {
	FrameInterval Duration `yaml:"frame_interval" validate:"gt=0"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
