package app

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GiovanniGrieco/joy/internal/command"
	"github.com/GiovanniGrieco/joy/internal/drone"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Joystick JoystickConfig `yaml:"joystick"`
	Drone    DroneConfig    `yaml:"drone"`
	Log      LogConfig      `yaml:"flightLog"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level maps the configured log level name onto a slog level. Unknown names
// fall back to Info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JoystickConfig selects the device and its mapping, and tunes the input
// filter.
type JoystickConfig struct {
	ID             int             `yaml:"id"`
	Mapping        string          `yaml:"mapping"`
	DeadZone       float64         `yaml:"deadZone"`
	AxisDeadZones  map[int]float64 `yaml:"axisDeadZones"`
	PollIntervalMs int             `yaml:"pollIntervalMs"`
	Buttons        map[int]string  `yaml:"buttons"` // overrides for the mapping's button table
}

// DroneConfig addresses the drone and tunes the dispatch cadence.
type DroneConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TickIntervalMs int    `yaml:"tickIntervalMs"`
	SendTimeoutMs  int    `yaml:"sendTimeoutMs"`
}

// LogConfig enables the optional sqlite flight log. With Enabled false the
// program writes no files at all.
type LogConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DataDirectory string `yaml:"dataDirectory"`
}

const defaultDeadZone = 0.08

// LoadConfig reads, parses and validates the configuration file. Invalid
// dead zones, intervals or mapping names are fatal here, before the control
// loop ever starts.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := Config{
		Joystick: JoystickConfig{DeadZone: defaultDeadZone},
		Drone:    DroneConfig{Host: drone.DefaultHost, Port: drone.DefaultPort},
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err = config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Joystick.DeadZone < 0 || c.Joystick.DeadZone >= 1 {
		return fmt.Errorf("joystick.deadZone %v out of range [0,1)", c.Joystick.DeadZone)
	}
	for axis, d := range c.Joystick.AxisDeadZones {
		if d < 0 || d >= 1 {
			return fmt.Errorf("joystick.axisDeadZones[%d] %v out of range [0,1)", axis, d)
		}
	}

	if c.Joystick.Mapping == "" {
		names := command.MappingNames()
		sort.Strings(names)
		return fmt.Errorf("joystick.mapping is required, one of: %s", strings.Join(names, ", "))
	}
	if _, err := command.MappingByName(c.Joystick.Mapping); err != nil {
		return err
	}
	for button, name := range c.Joystick.Buttons {
		if _, err := command.ParseKind(name); err != nil {
			return fmt.Errorf("joystick.buttons[%d]: %w", button, err)
		}
	}

	if c.Joystick.PollIntervalMs < 0 {
		return fmt.Errorf("joystick.pollIntervalMs must not be negative")
	}
	if c.Drone.TickIntervalMs < 0 {
		return fmt.Errorf("drone.tickIntervalMs must not be negative")
	}
	if c.Drone.SendTimeoutMs < 0 {
		return fmt.Errorf("drone.sendTimeoutMs must not be negative")
	}
	if c.Drone.Host == "" {
		return fmt.Errorf("drone.host is required")
	}
	if c.Drone.Port <= 0 || c.Drone.Port > 65535 {
		return fmt.Errorf("drone.port %d out of range", c.Drone.Port)
	}

	if c.Log.Enabled && c.Log.DataDirectory == "" {
		return fmt.Errorf("flightLog.dataDirectory is required when the flight log is enabled")
	}

	return nil
}

// buttonTable merges config overrides into the named mapping's button table.
func (c *Config) buttonTable() (command.Mapping, error) {
	mapping, err := command.MappingByName(c.Joystick.Mapping)
	if err != nil {
		return command.Mapping{}, err
	}

	for button, name := range c.Joystick.Buttons {
		kind, err := command.ParseKind(name)
		if err != nil {
			return command.Mapping{}, err
		}
		mapping.Buttons[button] = kind
	}

	return mapping, nil
}

func (c *Config) pollInterval() time.Duration {
	return time.Duration(c.Joystick.PollIntervalMs) * time.Millisecond
}

func (c *Config) tickInterval() time.Duration {
	return time.Duration(c.Drone.TickIntervalMs) * time.Millisecond
}

func (c *Config) sendTimeout() time.Duration {
	return time.Duration(c.Drone.SendTimeoutMs) * time.Millisecond
}
