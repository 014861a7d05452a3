package server

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "slimearena.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Room.BufferCapacity != 4 {
		t.Fatalf("default buffer capacity = %d, want 4", cfg.Room.BufferCapacity)
	}
}

func TestLoadConfigOverridesKeepDefaults(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `
ticks_per_second: 30
room:
  buffer_capacity: 6
  simulate_drop_prob: 0.25
log:
  level: info
  console: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	want.TicksPerSecond = 30
	want.Room.BufferCapacity = 6
	want.Room.SimulateDropProb = 0.25
	want.Log.Level = "info"
	want.Log.Console = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file error = %v, want ErrNotExist", err)
	}

	if _, err := LoadConfig(writeConfigFile(t, dir, "room: [")); err == nil {
		t.Fatalf("expected yaml error")
	}

	if _, err := LoadConfig(writeConfigFile(t, dir, "room:\n  move_every_ticks: 0\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRoomConfigValidate(t *testing.T) {
	base := DefaultConfig().Room
	tests := []struct {
		name    string
		mutate  func(*RoomConfig)
		wantErr bool
	}{
		{"default", func(*RoomConfig) {}, false},
		{"zero_width", func(c *RoomConfig) { c.Width = 0 }, true},
		{"zero_slime", func(c *RoomConfig) { c.SlimeLength = 0 }, true},
		{"zero_buffer", func(c *RoomConfig) { c.BufferCapacity = 0 }, true},
		{"zero_rate", func(c *RoomConfig) { c.MaxInputsPerTick = 0 }, true},
		{"delay_inverted", func(c *RoomConfig) { c.SimulateDelayMinMs, c.SimulateDelayMaxMs = 20, 10 }, true},
		{"delay_fixed", func(c *RoomConfig) { c.SimulateDelayMinMs, c.SimulateDelayMaxMs = 10, 10 }, false},
		{"drop_too_high", func(c *RoomConfig) { c.SimulateDropProb = 1.5 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
