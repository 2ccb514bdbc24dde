// Package config loads and validates the host tool configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/errcode"
	"vl53l5cx-go/x/mathx"
)

type Config struct {
	Link    LinkConfig    `yaml:"link"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Capture CaptureConfig `yaml:"capture"`
}

type LinkConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type SensorConfig struct {
	Address           uint16 `yaml:"address"` // 7-bit, 0 keeps the power-on default
	Resolution        string `yaml:"resolution"`
	FrequencyHz       uint8  `yaml:"frequency_hz"`
	IntegrationTimeMs uint32 `yaml:"integration_time_ms"`
	SharpenerPercent  uint8  `yaml:"sharpener_percent"`
	TargetOrder       string `yaml:"target_order"`
	RangingMode       string `yaml:"ranging_mode"`
}

type CaptureConfig struct {
	PollEveryMs int    `yaml:"poll_every_ms"`
	Database    string `yaml:"database"` // empty disables recording
	Seconds     int    `yaml:"seconds"`  // 0 runs until interrupted
}

// Default mirrors the sensor's power-on settings.
func Default() *Config {
	return &Config{
		Link: LinkConfig{
			Port:      "/dev/ttyACM0",
			Baud:      115200,
			TimeoutMs: 500,
		},
		Sensor: SensorConfig{
			Resolution:        "4x4",
			FrequencyHz:       1,
			IntegrationTimeMs: 5,
			SharpenerPercent:  5,
			TargetOrder:       "strongest",
			RangingMode:       "autonomous",
		},
		Capture: CaptureConfig{
			PollEveryMs: 15,
		},
	}
}

// Load reads path, overlays it on the defaults and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "load config", Err: err}
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "parse config", Err: err}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg.Link.Port == "" {
		return invalid("link.port is required")
	}
	if cfg.Link.Baud <= 0 {
		return invalid("link.baud must be positive")
	}
	if cfg.Link.TimeoutMs <= 0 {
		return invalid("link.timeout_ms must be positive")
	}

	if cfg.Sensor.Address > 0x7f {
		return invalid(fmt.Sprintf("sensor.address %#x is not a 7-bit address", cfg.Sensor.Address))
	}
	res, err := cfg.Sensor.DriverResolution()
	if err != nil {
		return err
	}
	if _, err := cfg.Sensor.DriverTargetOrder(); err != nil {
		return err
	}
	if _, err := cfg.Sensor.DriverRangingMode(); err != nil {
		return err
	}
	if hz := cfg.Sensor.FrequencyHz; !mathx.Between(hz, 1, res.MaxFrequencyHz()) {
		return invalid(fmt.Sprintf("sensor.frequency_hz %d out of range 1..%d at %s",
			hz, res.MaxFrequencyHz(), res))
	}
	if ms := cfg.Sensor.IntegrationTimeMs; !mathx.Between(ms, 2, 1000) {
		return invalid(fmt.Sprintf("sensor.integration_time_ms %d out of range 2..1000", ms))
	}
	if cfg.Sensor.SharpenerPercent >= 100 {
		return invalid(fmt.Sprintf("sensor.sharpener_percent %d out of range 0..99",
			cfg.Sensor.SharpenerPercent))
	}

	if cfg.Capture.PollEveryMs <= 0 {
		return invalid("capture.poll_every_ms must be positive")
	}
	if cfg.Capture.Seconds < 0 {
		return invalid("capture.seconds must not be negative")
	}
	return nil
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "validate config", Msg: msg}
}

// DriverResolution maps the resolution string to the driver enum.
func (c *SensorConfig) DriverResolution() (vl53l5cx.Resolution, error) {
	switch c.Resolution {
	case "4x4":
		return vl53l5cx.Resolution4x4, nil
	case "8x8":
		return vl53l5cx.Resolution8x8, nil
	}
	return 0, invalid(fmt.Sprintf("sensor.resolution %q is not 4x4 or 8x8", c.Resolution))
}

// DriverTargetOrder maps the target order string to the driver enum.
func (c *SensorConfig) DriverTargetOrder() (vl53l5cx.TargetOrder, error) {
	switch c.TargetOrder {
	case "closest":
		return vl53l5cx.TargetOrderClosest, nil
	case "strongest":
		return vl53l5cx.TargetOrderStrongest, nil
	}
	return 0, invalid(fmt.Sprintf("sensor.target_order %q is not closest or strongest", c.TargetOrder))
}

// DriverRangingMode maps the ranging mode string to the driver enum.
func (c *SensorConfig) DriverRangingMode() (vl53l5cx.RangingMode, error) {
	switch c.RangingMode {
	case "continuous":
		return vl53l5cx.RangingModeContinuous, nil
	case "autonomous":
		return vl53l5cx.RangingModeAutonomous, nil
	}
	return 0, invalid(fmt.Sprintf("sensor.ranging_mode %q is not continuous or autonomous", c.RangingMode))
}

// Timeout returns the link timeout as a duration.
func (c *LinkConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// PollEvery returns the data-ready polling period as a duration.
func (c *CaptureConfig) PollEvery() time.Duration {
	return time.Duration(c.PollEveryMs) * time.Millisecond
}

// Duration returns the capture run length; zero means unbounded.
func (c *CaptureConfig) Duration() time.Duration {
	return time.Duration(c.Seconds) * time.Second
}
