// Package ranger runs the acquisition loop for one ranging sensor: poll for
// a frame, fetch it, publish it to a stream topic. The sensor must be
// initialized and idle; ranger owns the start/stop of the ranging session
// around its polling loop.
package ranger

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"time"

	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/errcode"
	"vl53l5cx-go/stream"
	"vl53l5cx-go/x/strx"
)

// Sensor is the slice of the driver the service needs.
type Sensor interface {
	StartRanging() error
	StopRanging() error
	CheckDataReady() (bool, error)
	GetRangingData(out *vl53l5cx.Frame) error
}

var _ Sensor = (*vl53l5cx.Device)(nil)

// Config adjusts a Service. The zero value polls every 15 ms, publishes on
// topic "tof0", tolerates 8 consecutive errors and logs nowhere.
type Config struct {
	// SensorID is the stream topic frames are published on.
	SensorID string
	// PollEvery is the data-ready poll interval.
	PollEvery time.Duration
	// MaxErrors is the consecutive-error cap; hitting it ends the run.
	MaxErrors int
	// Log receives poll failures.
	Log *log.Logger
}

// Stats is a snapshot of the service counters.
type Stats struct {
	Frames   uint64 // frames fetched and published
	NotReady uint64 // polls that found no new frame
	Errors   uint64 // failed polls or fetches
}

// Service polls one sensor and publishes decoded frames.
type Service struct {
	sensor Sensor
	hub    *stream.Hub[vl53l5cx.Frame]
	cfg    Config

	frames   atomic.Uint64
	notReady atomic.Uint64
	errors   atomic.Uint64
}

// New wires a sensor to a hub. The hub may be shared with other services.
func New(sensor Sensor, hub *stream.Hub[vl53l5cx.Frame], cfg Config) *Service {
	cfg.SensorID = strx.Coalesce(cfg.SensorID, "tof0")
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 15 * time.Millisecond
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 8
	}
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	return &Service{sensor: sensor, hub: hub, cfg: cfg}
}

// Stats returns the current counters. Safe to call while running.
func (s *Service) Stats() Stats {
	return Stats{
		Frames:   s.frames.Load(),
		NotReady: s.notReady.Load(),
		Errors:   s.errors.Load(),
	}
}

// Run starts ranging, polls until ctx is cancelled or the consecutive-error
// cap is hit, then stops ranging. The sensor is stopped even when the loop
// fails; the loop error wins over a stop error.
func (s *Service) Run(ctx context.Context) error {
	if err := s.sensor.StartRanging(); err != nil {
		return &errcode.E{C: errcode.SensorError, Op: "start ranging", Err: err}
	}

	loopErr := s.loop(ctx)
	stopErr := s.sensor.StopRanging()

	if loopErr != nil {
		return loopErr
	}
	if stopErr != nil {
		return &errcode.E{C: errcode.SensorError, Op: "stop ranging", Err: stopErr}
	}
	return nil
}

func (s *Service) loop(ctx context.Context) error {
	tick := time.NewTicker(s.cfg.PollEvery)
	defer tick.Stop()

	var frame vl53l5cx.Frame
	consecutive := 0

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			ready, err := s.sensor.CheckDataReady()
			if err == nil && ready {
				err = s.sensor.GetRangingData(&frame)
			}
			if err != nil {
				s.errors.Add(1)
				consecutive++
				s.cfg.Log.Printf("ranger %s: poll: %v", s.cfg.SensorID, err)
				if consecutive >= s.cfg.MaxErrors {
					return &errcode.E{C: errcode.SensorError, Op: "poll", Err: err}
				}
				continue
			}
			consecutive = 0
			if !ready {
				s.notReady.Add(1)
				continue
			}
			s.frames.Add(1)
			s.hub.Publish(s.cfg.SensorID, frame)
		}
	}
}
