// Package i2cbus describes ordered read/write transactions against an I²C
// peripheral and the managers that execute them.
package i2cbus

import (
	"errors"
	"fmt"
)

var (
	// ErrShortRead is returned when a bus returns fewer bytes than a Read
	// transaction requested.
	ErrShortRead = errors.New("i2cbus: short read")
	// ErrUnknownBus is returned when Perform is called with a bus name the
	// manager does not know about.
	ErrUnknownBus = errors.New("i2cbus: unknown bus")
)

type kind uint8

const (
	kindWrite kind = iota
	kindRead
)

// Tx is a single unit of a bus transaction: either a write of a selector
// byte, a register (or command) byte and a payload, or a read of a fixed
// number of bytes.
//
// A Tx is immutable once constructed.
type Tx struct {
	kind kind
	sel  byte
	reg  byte
	data []byte
	n    int
}

// Write returns a write unit. On the wire it is sent as sel, reg, data...
func Write(sel, reg byte, data ...byte) Tx {
	return Tx{
		kind: kindWrite,
		sel:  sel,
		reg:  reg,
		data: append([]byte(nil), data...),
	}
}

// Read returns a read unit requesting n bytes.
func Read(n int) Tx {
	if n < 0 {
		n = 0
	}
	return Tx{kind: kindRead, n: n}
}

// IsRead reports whether t is a read unit.
func (t Tx) IsRead() bool { return t.kind == kindRead }

// Selector returns the sub-address selector byte of a write unit.
func (t Tx) Selector() byte { return t.sel }

// Register returns the register or command byte of a write unit.
func (t Tx) Register() byte { return t.reg }

// Payload returns a copy of the payload of a write unit.
func (t Tx) Payload() []byte { return append([]byte(nil), t.data...) }

// Len returns the number of bytes moved on the bus by t.
func (t Tx) Len() int {
	if t.IsRead() {
		return t.n
	}
	return 2 + len(t.data)
}

// Bytes returns the wire bytes of a write unit, or nil for a read unit.
func (t Tx) Bytes() []byte {
	if t.IsRead() {
		return nil
	}
	b := make([]byte, 0, t.Len())
	b = append(b, t.sel, t.reg)
	return append(b, t.data...)
}

func (t Tx) String() string {
	if t.IsRead() {
		return fmt.Sprintf("read(%d)", t.n)
	}
	return fmt.Sprintf("write(%#02x, %#02x, % x)", t.sel, t.reg, t.data)
}

// Manager lists the available buses and performs transactions on them.
//
// Perform executes txs in order against the device at the 7-bit address
// addr and returns one entry per unit: the raw bytes for reads, nil for
// writes. The first failing unit aborts the batch and is reported as an
// *Error. Managers never retry.
type Manager interface {
	Buses() ([]string, error)
	Perform(bus string, addr uint16, txs ...Tx) ([][]byte, error)
}

// Error is a failed bus transaction.
type Error struct {
	Bus   string
	Addr  uint16
	Index int // index of the failing unit in its batch
	Tx    Tx
	Err   error
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("i2cbus: %s@%#02x: %v", e.Bus, e.Addr, e.Err)
	}
	return fmt.Sprintf("i2cbus: %s@%#02x: tx #%d %v: %v", e.Bus, e.Addr, e.Index, e.Tx, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
