package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/errcode"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tofscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
link:
  port: /dev/ttyUSB3
sensor:
  resolution: 8x8
  frequency_hz: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Link.Port = "/dev/ttyUSB3"
	want.Sensor.Resolution = "8x8"
	want.Sensor.FrequencyHz = 10
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
link:
  port: /dev/serial/by-id/usb-pico
  baud: 230400
  timeout_ms: 250
sensor:
  address: 0x44
  resolution: 4x4
  frequency_hz: 30
  integration_time_ms: 8
  sharpener_percent: 14
  target_order: closest
  ranging_mode: continuous
capture:
  poll_every_ms: 5
  database: /tmp/capture.db
  seconds: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 230400, cfg.Link.Baud)
	assert.Equal(t, 250*time.Millisecond, cfg.Link.Timeout())
	assert.Equal(t, uint16(0x44), cfg.Sensor.Address)

	res, err := cfg.Sensor.DriverResolution()
	require.NoError(t, err)
	assert.Equal(t, vl53l5cx.Resolution4x4, res)

	order, err := cfg.Sensor.DriverTargetOrder()
	require.NoError(t, err)
	assert.Equal(t, vl53l5cx.TargetOrderClosest, order)

	mode, err := cfg.Sensor.DriverRangingMode()
	require.NoError(t, err)
	assert.Equal(t, vl53l5cx.RangingModeContinuous, mode)

	assert.Equal(t, 5*time.Millisecond, cfg.Capture.PollEvery())
	assert.Equal(t, 30*time.Second, cfg.Capture.Duration())
	assert.Equal(t, "/tmp/capture.db", cfg.Capture.Database)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Link.Port = "" }},
		{"zero baud", func(c *Config) { c.Link.Baud = 0 }},
		{"zero timeout", func(c *Config) { c.Link.TimeoutMs = 0 }},
		{"wide address", func(c *Config) { c.Sensor.Address = 0x80 }},
		{"unknown resolution", func(c *Config) { c.Sensor.Resolution = "2x2" }},
		{"unknown target order", func(c *Config) { c.Sensor.TargetOrder = "nearest" }},
		{"unknown ranging mode", func(c *Config) { c.Sensor.RangingMode = "oneshot" }},
		{"zero frequency", func(c *Config) { c.Sensor.FrequencyHz = 0 }},
		{"frequency beyond 4x4 limit", func(c *Config) { c.Sensor.FrequencyHz = 61 }},
		{"frequency beyond 8x8 limit", func(c *Config) {
			c.Sensor.Resolution = "8x8"
			c.Sensor.FrequencyHz = 16
		}},
		{"integration too short", func(c *Config) { c.Sensor.IntegrationTimeMs = 1 }},
		{"integration too long", func(c *Config) { c.Sensor.IntegrationTimeMs = 1001 }},
		{"sharpener at 100", func(c *Config) { c.Sensor.SharpenerPercent = 100 }},
		{"zero poll period", func(c *Config) { c.Capture.PollEveryMs = 0 }},
		{"negative capture length", func(c *Config) { c.Capture.Seconds = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "sensor: ["))
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}
