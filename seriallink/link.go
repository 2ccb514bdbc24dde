package seriallink

import (
	"io"
	"time"

	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/errcode"
)

// Link is the host end of the tether. It satisfies the sensor driver's
// Platform contract, translating burst reads and writes into framed
// requests; large transfers are split into chunks with the register index
// advanced per chunk, mirroring what an I2C master on the same registers
// would do.
//
// The port's Read should return within a bounded time when no data arrives
// (a serial read timeout); Open configures that. A Link is not safe for
// concurrent use, matching the single-threaded Platform contract.
type Link struct {
	port    io.ReadWriteCloser
	timeout time.Duration

	seq uint8
	dec decoder

	tx   [lengthMax]byte
	rx   [lengthMax]byte
	resp [maxPayload]byte
	req  [maxPayload]byte
}

// LinkConfig adjusts a Link. The zero value uses a 500 ms request timeout.
type LinkConfig struct {
	// Timeout bounds one request/response round trip.
	Timeout time.Duration
}

var (
	_ vl53l5cx.Platform        = (*Link)(nil)
	_ vl53l5cx.AddressObserver = (*Link)(nil)
)

// NewLink wraps an open port.
func NewLink(port io.ReadWriteCloser, cfg LinkConfig) *Link {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &Link{port: port, timeout: timeout}
}

// Close closes the underlying port.
func (l *Link) Close() error { return l.port.Close() }

// Ping verifies the far end decodes and answers: a nonce is sent and must
// be echoed back.
func (l *Link) Ping() error {
	nonce := [4]byte{0xA5, l.seq + 1, 0x5A, ^(l.seq + 1)}
	req := append(l.req[:0], opPing)
	req = append(req, nonce[:]...)

	data, err := l.roundTrip("ping", req)
	if err != nil {
		return err
	}
	if len(data) != len(nonce) {
		return &errcode.E{C: errcode.LinkDesync, Op: "ping", Msg: "echo length mismatch"}
	}
	for i := range nonce {
		if data[i] != nonce[i] {
			return &errcode.E{C: errcode.LinkDesync, Op: "ping", Msg: "echo mismatch"}
		}
	}
	return nil
}

func (l *Link) ReadBytes(index uint16, buf []byte) error {
	for len(buf) > 0 {
		n := len(buf)
		if n > chunkData {
			n = chunkData
		}
		req := append(l.req[:0], opRead, byte(index>>8), byte(index), byte(n))
		data, err := l.roundTrip("read", req)
		if err != nil {
			return err
		}
		if len(data) != n {
			return &errcode.E{C: errcode.LinkDesync, Op: "read", Msg: "short read"}
		}
		copy(buf, data)
		buf = buf[n:]
		index += uint16(n)
	}
	return nil
}

func (l *Link) WriteBytes(index uint16, data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > chunkData {
			n = chunkData
		}
		req := append(l.req[:0], opWrite, byte(index>>8), byte(index))
		req = append(req, data[:n]...)
		if _, err := l.roundTrip("write", req); err != nil {
			return err
		}
		data = data[n:]
		index += uint16(n)
	}
	return nil
}

func (l *Link) WaitMS(ms uint32) error {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return nil
}

func (l *Link) SwapBuffer(buf []byte) { vl53l5cx.SwapBuffer(buf) }

// SetRemoteAddress points the responder's I2C transactions at a new sensor
// address.
func (l *Link) SetRemoteAddress(addr uint16) error {
	req := append(l.req[:0], opSetAddr, byte(addr>>8), byte(addr))
	_, err := l.roundTrip("set address", req)
	return err
}

// AddressChanged implements vl53l5cx.AddressObserver. A failed retarget
// surfaces on the next request, which times out against the old address.
func (l *Link) AddressChanged(addr uint16) { _ = l.SetRemoteAddress(addr) }

// roundTrip sends one request and waits for its response, discarding stale
// frames from earlier timed-out requests. The returned slice is valid until
// the next call.
func (l *Link) roundTrip(op string, req []byte) ([]byte, error) {
	l.seq++
	frame := appendFrame(l.tx[:0], l.seq, req)
	if _, err := l.port.Write(frame); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: op, Msg: "port write", Err: err}
	}

	deadline := time.Now().Add(l.timeout)
	for {
		for {
			seq, payload, ok, err := l.dec.next(l.resp[:])
			if err == errCRC {
				return nil, &errcode.E{C: errcode.CRCMismatch, Op: op, Err: err}
			}
			if err != nil {
				return nil, &errcode.E{C: errcode.LinkDesync, Op: op, Err: err}
			}
			if !ok {
				break
			}
			if seq != l.seq {
				continue // stale response
			}
			if len(payload) < 1 {
				return nil, &errcode.E{C: errcode.LinkDesync, Op: op, Msg: "empty response"}
			}
			switch payload[0] {
			case respOK:
				return payload[1:], nil
			case respBusError:
				return nil, &errcode.E{C: errcode.SensorError, Op: op, Msg: "remote bus error"}
			default:
				return nil, &errcode.E{C: errcode.LinkDesync, Op: op, Msg: "remote rejected request"}
			}
		}

		if time.Now().After(deadline) {
			return nil, &errcode.E{C: errcode.Timeout, Op: op}
		}
		n, err := l.port.Read(l.rx[:])
		if err != nil {
			return nil, &errcode.E{C: errcode.Error, Op: op, Msg: "port read", Err: err}
		}
		if n > 0 {
			l.dec.feed(l.rx[:n])
		}
	}
}
