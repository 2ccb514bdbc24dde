//go:build !(rp2040 || rp2350)

// Command tofscan drives a VL53L5CX behind a picolink bridge: it uploads
// the sensor firmware, applies the configured ranging settings and streams
// live frames to the terminal, optionally recording them to SQLite.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/internal/config"
	"vl53l5cx-go/internal/framedb"
	"vl53l5cx-go/seriallink"
	"vl53l5cx-go/services/ranger"
	"vl53l5cx-go/stream"
	"vl53l5cx-go/x/gridfmt"
	"vl53l5cx-go/x/strx"
)

const sensorID = "tof0"

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML config file; defaults apply when empty")
		port    = flag.String("port", "", "bridge serial port (overrides config)")
		blobs   = flag.String("blobs", "blobs", "directory holding the sensor firmware blobs")
		dbPath  = flag.String("db", "", "record frames to this SQLite file (overrides config)")
		heat    = flag.Bool("heatmap", false, "render a shade heatmap instead of distances")
		quiet   = flag.Bool("quiet", false, "suppress per-frame output")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	cfg.Link.Port = strx.Coalesce(*port, cfg.Link.Port)
	cfg.Capture.Database = strx.Coalesce(*dbPath, cfg.Capture.Database)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg, *blobs, *heat, *quiet); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, blobDir string, heatmap, quiet bool) error {
	link, err := seriallink.Open(cfg.Link.Port, cfg.Link.Baud, seriallink.LinkConfig{
		Timeout: cfg.Link.Timeout(),
	})
	if err != nil {
		return err
	}
	defer link.Close()
	if err := link.Ping(); err != nil {
		return fmt.Errorf("bridge not answering on %s: %w", cfg.Link.Port, err)
	}

	bundle, err := vl53l5cx.LoadFirmwareBundle(os.DirFS(blobDir), ".")
	if err != nil {
		return err
	}
	dev, err := vl53l5cx.New(link, vl53l5cx.Config{Bundle: bundle})
	if err != nil {
		return err
	}

	alive, err := dev.IsAlive()
	if err != nil {
		return err
	}
	if !alive {
		return errors.New("sensor does not identify as a VL53L5CX")
	}

	log.Printf("uploading firmware")
	if err := dev.Init(); err != nil {
		return err
	}
	if err := applySettings(dev, &cfg.Sensor); err != nil {
		return err
	}

	var db *framedb.DB
	if cfg.Capture.Database != "" {
		db, err = framedb.Open(cfg.Capture.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Printf("recording to %s (session %s)", cfg.Capture.Database, db.Session())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := cfg.Capture.Duration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	hub := stream.NewHub[vl53l5cx.Frame](4)
	sub := hub.Subscribe(sensorID)
	defer sub.Unsubscribe()

	svc := ranger.New(dev, hub, ranger.Config{
		SensorID:  sensorID,
		PollEvery: cfg.Capture.PollEvery(),
		Log:       log.Default(),
	})

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	var r gridfmt.Renderer
	for {
		select {
		case err := <-done:
			if db != nil {
				if derr := drain(db, sub.Channel()); derr != nil && err == nil {
					err = derr
				}
			}
			stats := svc.Stats()
			log.Printf("captured %d frames, %d empty polls, %d errors",
				stats.Frames, stats.NotReady, stats.Errors)
			return err
		case f := <-sub.Channel():
			if db != nil {
				if err := db.RecordFrame(sensorID, &f); err != nil {
					return err
				}
			}
			if quiet {
				continue
			}
			if heatmap {
				fmt.Printf("silicon %d C\n%s\n", f.SiliconTempCelsius(), r.Heatmap(&f))
			} else {
				fmt.Printf("silicon %d C\n%s\n", f.SiliconTempCelsius(), r.Distance(&f))
			}
		}
	}
}

// drain records frames still queued after the service stopped.
func drain(db *framedb.DB, ch <-chan vl53l5cx.Frame) error {
	for {
		select {
		case f := <-ch:
			if err := db.RecordFrame(sensorID, &f); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// applySettings pushes the configured ranging parameters. Resolution goes
// first: the device rejects frequencies above the grid's limit, so the grid
// has to be in place before the rate.
func applySettings(dev *vl53l5cx.Device, sc *config.SensorConfig) error {
	if sc.Address != 0 {
		if err := dev.SetI2CAddress(sc.Address); err != nil {
			return fmt.Errorf("set address: %w", err)
		}
	}
	res, err := sc.DriverResolution()
	if err != nil {
		return err
	}
	if err := dev.SetResolution(res); err != nil {
		return fmt.Errorf("set resolution: %w", err)
	}
	if err := dev.SetRangingFrequencyHz(sc.FrequencyHz); err != nil {
		return fmt.Errorf("set frequency: %w", err)
	}
	if err := dev.SetIntegrationTimeMS(sc.IntegrationTimeMs); err != nil {
		return fmt.Errorf("set integration time: %w", err)
	}
	if err := dev.SetSharpenerPercent(sc.SharpenerPercent); err != nil {
		return fmt.Errorf("set sharpener: %w", err)
	}
	order, err := sc.DriverTargetOrder()
	if err != nil {
		return err
	}
	if err := dev.SetTargetOrder(order); err != nil {
		return fmt.Errorf("set target order: %w", err)
	}
	mode, err := sc.DriverRangingMode()
	if err != nil {
		return err
	}
	if err := dev.SetRangingMode(mode); err != nil {
		return fmt.Errorf("set ranging mode: %w", err)
	}
	return nil
}
