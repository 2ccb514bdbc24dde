//go:build !(rp2040 || rp2350)

package seriallink

import (
	"time"

	"go.bug.st/serial"
)

// Open opens the named serial device at 8N1 and wraps it in a Link. The
// port gets a short read timeout so the Link's request deadline can fire
// between reads.
func Open(device string, baud int, cfg LinkConfig) (*Link, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(50 * time.Millisecond); err != nil {
		port.Close()
		return nil, err
	}
	return NewLink(port, cfg), nil
}
