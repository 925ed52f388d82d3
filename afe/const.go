package afe

// Register addresses
const (
	Control0     = 0x00
	LED2STC      = 0x01
	LED2ENDC     = 0x02
	LED2LEDSTC   = 0x03
	LED2LEDENDC  = 0x04
	ALED2STC     = 0x05
	ALED2ENDC    = 0x06
	LED1STC      = 0x07
	LED1ENDC     = 0x08
	LED1LEDSTC   = 0x09
	LED1LEDENDC  = 0x0A
	ALED1STC     = 0x0B
	ALED1ENDC    = 0x0C
	LED2CONVST   = 0x0D
	LED2CONVEND  = 0x0E
	ALED2CONVST  = 0x0F
	ALED2CONVEND = 0x10
	LED1CONVST   = 0x11
	LED1CONVEND  = 0x12
	ALED1CONVST  = 0x13
	ALED1CONVEND = 0x14
	ADCRSTSTCT0  = 0x15
	ADCRSTENDCT0 = 0x16
	ADCRSTSTCT1  = 0x17
	ADCRSTENDCT1 = 0x18
	ADCRSTSTCT2  = 0x19
	ADCRSTENDCT2 = 0x1A
	ADCRSTSTCT3  = 0x1B
	ADCRSTENDCT3 = 0x1C
	PRPCount     = 0x1D
	Control1     = 0x1E
	Spare1       = 0x1F
	TIAGain      = 0x20
	TIAAmbGain   = 0x21
	LEDCntrl     = 0x22
	Control2     = 0x23
	Spare2       = 0x24
	Spare3       = 0x25
	Spare4       = 0x26
	Reserved1    = 0x27
	Reserved2    = 0x28
	Alarm        = 0x29
	LED2VAL      = 0x2A
	ALED2VAL     = 0x2B
	LED1VAL      = 0x2C
	ALED1VAL     = 0x2D
	LED2ALED2VAL = 0x2E
	LED1ALED1VAL = 0x2F
	Diag         = 0x30
	NumRegisters = Diag + 1
)

// Control0 flags
const (
	SPIRead = 0x000001
)

// Device constants
const (
	// Addr is the 7-bit address of the I²C-to-SPI bridge in front of the
	// AFE4400 (0x50 in 8-bit notation).
	Addr = 0x50 >> 1

	// SPISelect is the bridge function byte selecting SPI slave 1.
	SPISelect = 0x01

	// dummy is clocked out while the AFE4400 shifts a register value in.
	dummy = 0xFF

	// frameSize is the size of a readback response: the echo of the
	// register address followed by a 24-bit value.
	frameSize = 4
)
