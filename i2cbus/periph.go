package i2cbus

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// Periph is a Manager backed by the periph.io I²C registry.
//
// Buses are opened on first use and kept open until Close. Perform calls are
// serialized.
type Periph struct {
	mu    sync.Mutex
	list  func() []string
	open  func(name string) (i2c.BusCloser, error)
	buses map[string]i2c.BusCloser
}

var _ Manager = (*Periph)(nil)

// NewPeriph initializes the host drivers and returns a Manager over every
// registered I²C bus, in registry order.
func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2cbus: could not initialize host: %w", err)
	}

	return &Periph{
		list:  registered,
		open:  i2creg.Open,
		buses: make(map[string]i2c.BusCloser),
	}, nil
}

// NewPeriphBus returns a Manager over a single, already opened bus.
func NewPeriphBus(name string, bus i2c.BusCloser) *Periph {
	return &Periph{
		list: func() []string { return []string{name} },
		open: func(n string) (i2c.BusCloser, error) {
			if n != name {
				return nil, fmt.Errorf("%w %q", ErrUnknownBus, n)
			}
			return bus, nil
		},
		buses: make(map[string]i2c.BusCloser),
	}
}

func registered() []string {
	refs := i2creg.All()
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// Buses returns the names of the available buses.
func (p *Periph) Buses() ([]string, error) {
	return p.list(), nil
}

// Perform executes txs in order against the device at addr on bus. Every
// unit is sent as its own bus message.
func (p *Periph) Perform(bus string, addr uint16, txs ...Tx) ([][]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, err := p.bus(bus)
	if err != nil {
		return nil, &Error{Bus: bus, Addr: addr, Index: -1, Err: err}
	}

	dev := &i2c.Dev{Addr: addr, Bus: b}
	out := make([][]byte, len(txs))
	for i, tx := range txs {
		if !tx.IsRead() {
			if err := dev.Tx(tx.Bytes(), nil); err != nil {
				return nil, &Error{Bus: bus, Addr: addr, Index: i, Tx: tx, Err: err}
			}
			continue
		}

		buf := make([]byte, tx.Len())
		if err := dev.Tx(nil, buf); err != nil {
			return nil, &Error{Bus: bus, Addr: addr, Index: i, Tx: tx, Err: err}
		}
		out[i] = buf
	}

	return out, nil
}

func (p *Periph) bus(name string) (i2c.BusCloser, error) {
	if b, ok := p.buses[name]; ok {
		return b, nil
	}
	b, err := p.open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open I2C bus: %w", err)
	}
	p.buses[name] = b
	return b, nil
}

// Close closes every bus opened by p.
func (p *Periph) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for name, b := range p.buses {
		if e := b.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("i2cbus: could not close %q: %w", name, e))
		}
		delete(p.buses, name)
	}
	return err
}
