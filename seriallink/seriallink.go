// Package seriallink carries the sensor platform capabilities over a byte
// stream, so a host process can drive a sensor wired to an MCU on the far
// side of a UART. The host end (Link) speaks the request side and satisfies
// the driver's Platform contract; the device end (Responder) executes
// requests against a local I2C bus. Both ends share one frame codec.
//
// Frame layout, after the Klipper MCU protocol:
//
//	len seq payload... crc_hi crc_lo sync(0x7E)
//
// len counts the whole frame. The CRC-16 covers len through payload. A
// receiver that loses framing scans forward to the next sync byte.
//
// Request payloads are an op byte plus arguments; response payloads are a
// status byte plus data. The responder echoes the request's seq so the host
// can discard stale replies after a timeout.
package seriallink

import (
	"bytes"
	"errors"
)

const (
	syncByte   = 0x7E
	headerSize = 2 // len seq
	lengthMin  = headerSize + 3
	lengthMax  = 64

	// maxPayload is the op/status byte plus arguments.
	maxPayload = lengthMax - lengthMin

	// chunkData bounds the register bytes moved per request, the tighter of
	// the read and write payload limits.
	chunkData = maxPayload - 3
)

// Request ops.
const (
	opPing    = 0x01 // args echoed back
	opRead    = 0x02 // index_hi index_lo count
	opWrite   = 0x03 // index_hi index_lo data...
	opSetAddr = 0x04 // addr_hi addr_lo
)

// Response status byte.
const (
	respOK       = 0x00
	respBadOp    = 0x01
	respBadArgs  = 0x02
	respBusError = 0x03
)

var (
	errFraming = errors.New("seriallink: framing error")
	errCRC     = errors.New("seriallink: crc mismatch")
)

// crc16 is the Klipper message checksum.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// appendFrame appends one frame carrying payload to dst and returns the
// extended slice. len(payload) must not exceed maxPayload.
func appendFrame(dst []byte, seq uint8, payload []byte) []byte {
	start := len(dst)
	dst = append(dst, byte(lengthMin+len(payload)), seq)
	dst = append(dst, payload...)
	crc := crc16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc), syncByte)
}

// decoder accumulates raw link bytes and yields complete frames. The zero
// value is ready to use. Fixed backing, no allocation.
type decoder struct {
	buf    [2 * lengthMax]byte
	n      int
	desync bool
}

func (d *decoder) feed(p []byte) {
	for len(p) > 0 {
		if d.n == len(d.buf) {
			// Full without a parsable frame: discard and rescan.
			d.n = 0
			d.desync = true
		}
		k := copy(d.buf[d.n:], p)
		d.n += k
		p = p[k:]
	}
}

func (d *decoder) drop(k int) {
	copy(d.buf[:], d.buf[k:d.n])
	d.n -= k
}

// next extracts the first complete frame, copying its payload into dst.
// ok is false when more bytes are needed. A non-nil error reports one
// framing or CRC violation; the decoder keeps scanning for the next sync
// byte, so callers may simply call next again.
func (d *decoder) next(dst []byte) (seq uint8, payload []byte, ok bool, err error) {
	for {
		if d.desync {
			i := bytes.IndexByte(d.buf[:d.n], syncByte)
			if i < 0 {
				d.n = 0
				return 0, nil, false, nil
			}
			d.drop(i + 1)
			d.desync = false
		}

		b := d.buf[:d.n]
		if len(b) > 0 && b[0] == syncByte {
			d.drop(1)
			continue
		}
		if len(b) < lengthMin {
			return 0, nil, false, nil
		}

		msgLen := int(b[0])
		if msgLen < lengthMin || msgLen > lengthMax {
			d.desync = true
			return 0, nil, false, errFraming
		}
		if len(b) < msgLen {
			return 0, nil, false, nil
		}
		if b[msgLen-1] != syncByte {
			d.desync = true
			return 0, nil, false, errFraming
		}
		want := uint16(b[msgLen-3])<<8 | uint16(b[msgLen-2])
		if crc16(b[:msgLen-3]) != want {
			d.desync = true
			return 0, nil, false, errCRC
		}

		seq = b[1]
		n := copy(dst, b[headerSize:msgLen-3])
		d.drop(msgLen)
		return seq, dst[:n], true, nil
	}
}
