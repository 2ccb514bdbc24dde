//go:build rp2040 || rp2350

// Command picolink turns a Raspberry Pi Pico into a UART-to-I2C bridge for
// a VL53L5CX. The host speaks the seriallink framing over the UART; this
// side executes the bus transfers and answers.
package main

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"vl53l5cx-go/seriallink"
)

const uartBaud = 115200

func main() {
	// Allow USB CDC to enumerate before the first diagnostics.
	time.Sleep(2 * time.Second)
	println("picolink: boot")

	sda := machine.I2C0_SDA_PIN
	scl := machine.I2C0_SCL_PIN
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       sda,
		SCL:       scl,
	})
	if err != nil {
		println("picolink: i2c configure failed:", err.Error())
		return
	}

	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{
		BaudRate: uartBaud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	r := seriallink.NewResponder(machine.I2C0, uart, seriallink.ResponderConfig{})
	println("picolink: listening at", uartBaud, "baud, sensor at", r.Address())

	ctx := context.Background()
	var buf [64]byte
	for {
		n, err := uart.RecvSomeContext(ctx, buf[:])
		if err != nil {
			continue
		}
		r.Feed(buf[:n])
	}
}
