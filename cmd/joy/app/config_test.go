package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/GiovanniGrieco/joy/internal/command"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "joy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
joystick:
  id: 1
  mapping: dualshock4
  deadZone: 0.2
  axisDeadZones:
    3: 0.3
  buttons:
    5: takeoff
drone:
  host: 192.168.10.1
  port: 8889
  tickIntervalMs: 40
flightLog:
  enabled: true
  dataDirectory: data
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Settings.Level() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", config.Settings.Level())
	}
	if config.Joystick.DeadZone != 0.2 {
		t.Errorf("Expected dead zone 0.2, got %v", config.Joystick.DeadZone)
	}
	if config.Joystick.AxisDeadZones[3] != 0.3 {
		t.Errorf("Expected per-axis dead zone 0.3, got %v", config.Joystick.AxisDeadZones[3])
	}
	if config.Drone.TickIntervalMs != 40 {
		t.Errorf("Expected tick interval 40ms, got %d", config.Drone.TickIntervalMs)
	}

	mapping, err := config.buttonTable()
	if err != nil {
		t.Fatalf("Failed to build button table: %v", err)
	}
	if mapping.Buttons[5] != command.Takeoff {
		t.Errorf("Expected button 5 override to takeoff, got %v", mapping.Buttons[5])
	}
	if mapping.Buttons[0] != command.Land {
		t.Errorf("Expected base mapping preserved, got %v", mapping.Buttons[0])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
joystick:
  mapping: xbox
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Drone.Host != "192.168.10.1" || config.Drone.Port != 8889 {
		t.Errorf("Expected default drone endpoint, got %s:%d", config.Drone.Host, config.Drone.Port)
	}
	if config.Joystick.DeadZone != defaultDeadZone {
		t.Errorf("Expected default dead zone, got %v", config.Joystick.DeadZone)
	}
	if config.Settings.Level() != slog.LevelInfo {
		t.Errorf("Expected info level by default, got %v", config.Settings.Level())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			"dead zone at one",
			"joystick:\n  mapping: xbox\n  deadZone: 1.0\n",
		},
		{
			"dead zone above one",
			"joystick:\n  mapping: xbox\n  deadZone: 1.5\n",
		},
		{
			"negative per-axis dead zone",
			"joystick:\n  mapping: xbox\n  axisDeadZones:\n    0: -0.1\n",
		},
		{
			"missing mapping",
			"joystick:\n  id: 0\n",
		},
		{
			"unknown mapping",
			"joystick:\n  mapping: rock-candy\n",
		},
		{
			"unknown button command",
			"joystick:\n  mapping: xbox\n  buttons:\n    2: backflip\n",
		},
		{
			"bad port",
			"joystick:\n  mapping: xbox\ndrone:\n  host: 192.168.10.1\n  port: 90000\n",
		},
		{
			"flight log without directory",
			"joystick:\n  mapping: xbox\nflightLog:\n  enabled: true\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}
