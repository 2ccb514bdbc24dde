package vl53l5cx

import (
	"time"

	"tinygo.org/x/drivers"
)

// Platform supplies the four host capabilities the sensor core needs. The
// register index space is 16-bit and auto-incrementing: a burst of N bytes
// at index i touches i..i+N-1.
//
// Implementations are not required to be safe for concurrent use; a Device
// drives its Platform from a single logical thread of control.
type Platform interface {
	// ReadBytes fills buf from the register window starting at index.
	ReadBytes(index uint16, buf []byte) error
	// WriteBytes writes data to the register window starting at index.
	WriteBytes(index uint16, data []byte) error
	// WaitMS blocks for the given number of milliseconds. The core only
	// calls it with small bounded values (100 ms at most, usually 1-10 ms
	// inside bounded poll loops).
	WaitMS(ms uint32) error
	// SwapBuffer reorders each aligned 4-byte group of buf between the
	// sensor's byte order and host order. Pure and infallible; almost all
	// implementations delegate to the package-level SwapBuffer.
	SwapBuffer(buf []byte)
}

// AddressObserver is implemented by Platforms that need to know when
// SetI2CAddress moves the device to a new bus address.
type AddressObserver interface {
	AddressChanged(addr uint16)
}

// SwapBuffer reverses each aligned 4-byte group in place. A trailing group
// shorter than 4 bytes is left untouched.
func SwapBuffer(buf []byte) {
	for i := 0; i+4 <= len(buf); i += 4 {
		buf[i], buf[i+3] = buf[i+3], buf[i]
		buf[i+1], buf[i+2] = buf[i+2], buf[i+1]
	}
}

// Compile-time checks.
var (
	_ Platform        = (*I2CPlatform)(nil)
	_ AddressObserver = (*I2CPlatform)(nil)
)

// I2CPlatform is the standard Platform over an I2C bus. Transfers larger
// than the chunk limit are split into successive transactions, each
// re-addressed at the advanced register index, so the full 84 KiB firmware
// download works through masters with bounded transaction sizes.
//
// The bus's Tx must perform a write followed by a repeated-start read when
// both buffers are provided.
type I2CPlatform struct {
	bus  drivers.I2C
	addr uint16

	chunk int
	w     []byte // chunk+2 scratch: index header plus payload
}

// I2CConfig adjusts an I2CPlatform. The zero value selects the sensor's
// default address and a 1 KiB transfer chunk.
type I2CConfig struct {
	// Address is the 7-bit bus address. Defaults to AddressDefault (0x29).
	Address uint16
	// MaxTransfer bounds the payload bytes moved per bus transaction.
	MaxTransfer int
}

// NewI2CPlatform wraps an already-configured bus.
func NewI2CPlatform(bus drivers.I2C, cfg I2CConfig) *I2CPlatform {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	chunk := cfg.MaxTransfer
	if chunk <= 0 {
		chunk = 1024
	}
	return &I2CPlatform{
		bus:   bus,
		addr:  addr,
		chunk: chunk,
		w:     make([]byte, 2, chunk+2),
	}
}

// Address returns the current 7-bit device address.
func (p *I2CPlatform) Address() uint16 { return p.addr }

func (p *I2CPlatform) ReadBytes(index uint16, buf []byte) error {
	for len(buf) > 0 {
		n := len(buf)
		if n > p.chunk {
			n = p.chunk
		}
		p.w = p.w[:2]
		p.w[0] = byte(index >> 8)
		p.w[1] = byte(index)
		if err := p.bus.Tx(p.addr, p.w[:2], buf[:n]); err != nil {
			return err
		}
		buf = buf[n:]
		index += uint16(n)
	}
	return nil
}

func (p *I2CPlatform) WriteBytes(index uint16, data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > p.chunk {
			n = p.chunk
		}
		p.w = p.w[:2+n]
		p.w[0] = byte(index >> 8)
		p.w[1] = byte(index)
		copy(p.w[2:], data[:n])
		if err := p.bus.Tx(p.addr, p.w, nil); err != nil {
			return err
		}
		data = data[n:]
		index += uint16(n)
	}
	return nil
}

func (p *I2CPlatform) WaitMS(ms uint32) error {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return nil
}

func (p *I2CPlatform) SwapBuffer(buf []byte) { SwapBuffer(buf) }

// AddressChanged retargets subsequent transactions; called by the Device
// after a successful SetI2CAddress.
func (p *I2CPlatform) AddressChanged(addr uint16) { p.addr = addr }
