package afe

import (
	"fmt"

	"github.com/cgxeiji/afe4400/i2cbus"
)

// RegWrite is a write of a 24-bit value to a register.
type RegWrite struct {
	Reg byte
	Val uint32 // only the low 24 bits are sent
}

// Tx returns the bus transaction writing w through the SPI bridge.
func (w RegWrite) Tx() i2cbus.Tx {
	return i2cbus.Write(SPISelect, w.Reg, byte(w.Val>>16), byte(w.Val>>8), byte(w.Val))
}

func (w RegWrite) String() string {
	return fmt.Sprintf("reg %#02x = %#06x", w.Reg, w.Val&0xFFFFFF)
}

// program brings the AFE4400 from power-on to a 500 samples/s timing
// configuration, then switches the output path to SPI readback. Control0 is
// only written last: its other bits are self-clearing commands, so a zero
// write at the start does nothing.
var program = [...]RegWrite{
	{LED2STC, 0x0017D4},
	{LED2ENDC, 0x001DAE},
	{LED2LEDSTC, 0x001770},
	{LED2LEDENDC, 0x001DAF},
	{ALED2STC, 0x000000},
	{ALED2ENDC, 0x00063E},
	{LED1STC, 0x000834},
	{LED1ENDC, 0x000E0E},
	{LED1LEDSTC, 0x0007D0},
	{LED1LEDENDC, 0x000E0F},
	{ALED1STC, 0x000FA0},
	{ALED1ENDC, 0x0015DE},
	{LED2CONVST, 0x000002},
	{LED2CONVEND, 0x0007CF},
	{ALED2CONVST, 0x0007D2},
	{ALED2CONVEND, 0x000F9F},
	{LED1CONVST, 0x000FA2},
	{LED1CONVEND, 0x00176F},
	{ALED1CONVST, 0x001772},
	{ALED1CONVEND, 0x001F3F},
	{ADCRSTSTCT0, 0x000000},
	{ADCRSTENDCT0, 0x000000},
	{ADCRSTSTCT1, 0x0007D0},
	{ADCRSTENDCT1, 0x0007D0},
	{ADCRSTSTCT2, 0x000FA0},
	{ADCRSTENDCT2, 0x000FA0},
	{ADCRSTSTCT3, 0x001770},
	{ADCRSTENDCT3, 0x001770},
	{PRPCount, 0x001F3F},
	{Control1, 0x000101},
	{Spare1, 0x000000},
	{TIAGain, 0x000000},
	{TIAAmbGain, 0x00000A},
	{LEDCntrl, 0x011429},
	{Control2, 0x020100},
	{Spare2, 0x000000},
	{Spare3, 0x000000},
	{Spare4, 0x000000},
	{Reserved1, 0x000000},
	{Reserved2, 0x000000},
	{Alarm, 0x000000},
	{LED2VAL, 0x000000},
	{ALED2VAL, 0x000000},
	{LED1VAL, 0x000000},
	{ALED1VAL, 0x000000},
	{LED2ALED2VAL, 0x000000},
	{LED1ALED1VAL, 0x000000},
	{Diag, 0x000000},

	// must be last: no register can be written once SPI readback is on.
	{Control0, SPIRead},
}

// Program returns a copy of the register program, in the order it is
// applied.
func Program() []RegWrite {
	return append([]RegWrite(nil), program[:]...)
}

// Apply writes the register program to the device at addr on bus, one
// transaction per register. It stops at the first failing write and leaves
// the device partially configured.
func Apply(m i2cbus.Manager, bus string, addr uint16) error {
	for i, w := range program {
		if _, err := m.Perform(bus, addr, w.Tx()); err != nil {
			return fmt.Errorf("afe: could not write %v (#%d/%d): %w", w, i+1, len(program), err)
		}
	}
	return nil
}
