package seriallink

import (
	"io"

	"tinygo.org/x/drivers"

	"vl53l5cx-go/drivers/vl53l5cx"
)

// Responder is the device end of the tether: it decodes request frames,
// executes them on a local I2C bus and writes response frames. It is built
// to run on an MCU main loop: fixed buffers, no fmt, no allocation per
// frame. Feed it whatever the UART delivers, in any chunking.
type Responder struct {
	bus  drivers.I2C
	w    io.Writer
	addr uint16

	dec  decoder
	req  [maxPayload]byte
	resp [maxPayload]byte
	tx   [lengthMax]byte
	i2cw [2 + chunkData]byte
}

// ResponderConfig adjusts a Responder. The zero value targets the sensor's
// default bus address.
type ResponderConfig struct {
	// Address is the sensor's 7-bit I2C address.
	Address uint16
}

// NewResponder serves requests against bus, writing responses to w.
func NewResponder(bus drivers.I2C, w io.Writer, cfg ResponderConfig) *Responder {
	addr := cfg.Address
	if addr == 0 {
		addr = vl53l5cx.AddressDefault
	}
	return &Responder{bus: bus, w: w, addr: addr}
}

// Address returns the bus address requests currently target.
func (r *Responder) Address() uint16 { return r.addr }

// Feed consumes raw link bytes, answering every complete request found.
// Corrupt frames are dropped; the host times out and reports the failure.
func (r *Responder) Feed(p []byte) {
	r.dec.feed(p)
	for {
		seq, req, ok, err := r.dec.next(r.req[:])
		if err != nil {
			continue
		}
		if !ok {
			return
		}
		r.serve(seq, req)
	}
}

func (r *Responder) serve(seq uint8, req []byte) {
	resp := r.resp[:1]
	resp[0] = respOK

	if len(req) == 0 {
		resp[0] = respBadOp
	} else {
		op, args := req[0], req[1:]
		switch op {
		case opPing:
			resp = append(resp, args...)

		case opRead:
			if len(args) != 3 || int(args[2]) > maxPayload-1 {
				resp[0] = respBadArgs
				break
			}
			n := int(args[2])
			r.i2cw[0], r.i2cw[1] = args[0], args[1]
			if err := r.bus.Tx(r.addr, r.i2cw[:2], r.resp[1:1+n]); err != nil {
				resp[0] = respBusError
				break
			}
			resp = r.resp[:1+n]

		case opWrite:
			if len(args) < 2 || len(args)-2 > chunkData {
				resp[0] = respBadArgs
				break
			}
			r.i2cw[0], r.i2cw[1] = args[0], args[1]
			n := copy(r.i2cw[2:], args[2:])
			if err := r.bus.Tx(r.addr, r.i2cw[:2+n], nil); err != nil {
				resp[0] = respBusError
			}

		case opSetAddr:
			if len(args) != 2 {
				resp[0] = respBadArgs
				break
			}
			r.addr = uint16(args[0])<<8 | uint16(args[1])

		default:
			resp[0] = respBadOp
		}
	}

	frame := appendFrame(r.tx[:0], seq, resp)
	// A lost response shows up host-side as a timeout; nothing useful to do
	// with a UART write error here.
	_, _ = r.w.Write(frame)
}
