// Package afe drives a TI AFE4400 pulse oximeter analog front-end wired
// behind an I²C-to-SPI bridge.
package afe

import (
	"fmt"

	"github.com/cgxeiji/afe4400/i2cbus"
)

// Device defines an AFE4400 device.
type Device struct {
	m    i2cbus.Manager
	bus  string
	addr uint16
}

// New returns a device at addr on the given bus. No transaction is
// performed. If addr is 0, Addr is used.
func New(m i2cbus.Manager, bus string, addr uint16) *Device {
	if addr == 0 {
		addr = Addr
	}
	return &Device{m: m, bus: bus, addr: addr}
}

// Bus returns the name of the bus the device is on.
func (d *Device) Bus() string { return d.bus }

// Addr returns the 7-bit address of the device.
func (d *Device) Addr() uint16 { return d.addr }

// Configure applies the register program.
func (d *Device) Configure() error {
	return Apply(d.m, d.bus, d.addr)
}

// Read selects reg on the readback path and reads its 24-bit value. The
// select write and the read are separate transactions.
func (d *Device) Read(reg byte) (int32, error) {
	if _, err := d.m.Perform(d.bus, d.addr, i2cbus.Write(SPISelect, reg, dummy, dummy, dummy)); err != nil {
		return 0, fmt.Errorf("afe: could not select register %#02x: %w", reg, err)
	}

	res, err := d.m.Perform(d.bus, d.addr, i2cbus.Read(frameSize))
	if err != nil {
		return 0, fmt.Errorf("afe: could not read register %#02x: %w", reg, err)
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("afe: could not read register %#02x: got %d responses", reg, len(res))
	}

	v, err := Decode(res[0])
	if err != nil {
		return 0, fmt.Errorf("afe: could not read register %#02x: %w", reg, err)
	}
	return v, nil
}

// Decode decodes a readback response. The first byte is discarded; the
// next three are a big-endian 24-bit value whose high byte is sign
// extended.
func Decode(b []byte) (int32, error) {
	if len(b) < frameSize {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", i2cbus.ErrShortRead, len(b), frameSize)
	}
	return int32(int8(b[1]))<<16 |
		int32(b[2])<<8 |
		int32(b[3]), nil
}
