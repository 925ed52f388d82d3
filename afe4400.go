// Package afe4400 acquires photoplethysmography samples from a TI AFE4400
// analog front-end.
//
// A Loop configures the device once, then reads the two ambient-corrected
// LED values every cycle, appends them to a record file and reports them to
// a Listener until it is asked to stop or a bus transaction fails.
package afe4400

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cgxeiji/afe4400/afe"
	"github.com/cgxeiji/afe4400/i2cbus"
	"github.com/cgxeiji/afe4400/record"
)

var (
	// ErrNoBus is returned when no usable I²C bus is available.
	ErrNoBus = errors.New("afe4400: no I2C bus available")
	// ErrStarted is returned when starting a loop that was already started.
	ErrStarted = errors.New("afe4400: loop already started")
)

// Sink receives decoded samples. Close is called exactly once.
type Sink interface {
	Append(a, b int32) error
	Close() error
}

// Frame is a pair of samples read in one cycle: A from LED2-ALED2VAL and B
// from LED1-ALED1VAL.
type Frame struct {
	A, B int32
}

// String formats f as two right-justified 8-character fields.
func (f Frame) String() string {
	return fmt.Sprintf("%8d %8d", f.A, f.B)
}

// Loop is a single acquisition run. A Loop cannot be restarted.
type Loop struct {
	m        i2cbus.Manager
	listener Listener

	bus      string
	addr     uint16
	output   string
	create   func(path string) (Sink, error)
	logger   *log.Logger
	delay    int
	interval time.Duration
	sleep    func(time.Duration)

	id      ulid.ULID
	started atomic.Bool
	stop    atomic.Bool
	state   atomic.Int32
	cycles  atomic.Int64

	err  error
	done chan struct{}
}

// New returns an idle loop acquiring through m and reporting to listener.
// A nil listener discards status updates.
func New(m i2cbus.Manager, listener Listener, opts ...Option) *Loop {
	l := &Loop{
		m:        m,
		listener: listener,
		addr:     afe.Addr,
		output:   "plox.dat",
		create:   createRecord,
		logger:   log.New(os.Stderr, "afe4400: ", log.LstdFlags),
		sleep:    time.Sleep,
		id:       ulid.Make(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard, "", 0)
	}
	if l.create == nil {
		l.create = createRecord
	}
	return l
}

func createRecord(path string) (Sink, error) {
	return record.Create(path)
}

// RunID identifies this run in logs.
func (l *Loop) RunID() string { return l.id.String() }

// State returns the current state.
func (l *Loop) State() State { return State(l.state.Load()) }

// Cycles returns the number of completed acquisition cycles.
func (l *Loop) Cycles() int64 { return l.cycles.Load() }

// Done is closed when the loop reached a terminal state and every status
// update was delivered.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Err returns the error that made the loop fail, or nil if it did not fail
// or has not terminated yet.
func (l *Loop) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Start runs the loop in a new goroutine.
func (l *Loop) Start() error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	go l.run()
	return nil
}

// Run runs the loop in the calling goroutine until it stops or fails.
func (l *Loop) Run() error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	l.run()
	return l.err
}

// Wait blocks until the loop terminated and returns its error. Wait never
// returns for a loop that was not started.
func (l *Loop) Wait() error {
	<-l.done
	return l.err
}

// RequestStop asks the loop to stop at the beginning of its next cycle.
// It is a no-op on a loop that was not started or has already terminated.
func (l *Loop) RequestStop() {
	if !l.started.Load() {
		return
	}
	l.stop.Store(true)
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}

func (l *Loop) run() {
	st := newReporter(l.listener)
	defer close(l.done)
	defer st.close()

	l.logger.Printf("run %s: started", l.id)
	l.err = l.acquire(st)
	switch {
	case l.err != nil:
		l.logger.Printf("run %s: failed after %d cycles: %+v", l.id, l.Cycles(), l.err)
	default:
		l.logger.Printf("run %s: stopped after %d cycles", l.id, l.Cycles())
	}
}

func (l *Loop) acquire(st *reporter) error {
	bus, err := l.selectBus()
	if err != nil {
		l.setState(Failed)
		if err == ErrNoBus {
			st.report("no I2C buses found")
		} else {
			st.report(fmt.Sprintf("could not select I2C bus: %v", err))
		}
		return err
	}

	if !l.countdown(st) {
		l.setState(Stopped)
		return nil
	}

	l.setState(Initializing)
	dev := afe.New(l.m, bus, l.addr)
	if err := dev.Configure(); err != nil {
		l.setState(Failed)
		st.report(fmt.Sprintf("transaction error: %v", err))
		return fmt.Errorf("afe4400: could not configure device: %w", err)
	}
	l.logger.Printf("run %s: configured device %#02x on %s", l.id, dev.Addr(), dev.Bus())

	sink := l.openSink()
	defer l.closeSink(sink)

	l.setState(Steady)
	for {
		if l.stop.Load() {
			l.setState(Stopped)
			return nil
		}

		f, err := l.frame(dev)
		if err != nil {
			l.setState(Failed)
			st.report(fmt.Sprintf("error while reading back: %v", err))
			return fmt.Errorf("afe4400: could not read samples: %w", err)
		}

		if sink != nil {
			if err := sink.Append(f.A, f.B); err != nil {
				l.logger.Printf("run %s: could not store %v: %+v", l.id, f, err)
			}
		}
		l.cycles.Add(1)
		st.report(f.String())

		if l.interval > 0 {
			l.sleep(l.interval)
		}
	}
}

// frame reads A then B. Each read re-selects the readback register, so the
// two reads must not be reordered or merged.
func (l *Loop) frame(dev *afe.Device) (Frame, error) {
	var (
		f   Frame
		err error
	)
	if f.A, err = dev.Read(afe.LED2ALED2VAL); err != nil {
		return f, err
	}
	if f.B, err = dev.Read(afe.LED1ALED1VAL); err != nil {
		return f, err
	}
	return f, nil
}

func (l *Loop) selectBus() (string, error) {
	buses, err := l.m.Buses()
	if err != nil {
		return "", fmt.Errorf("%w: could not list buses: %w", ErrNoBus, err)
	}
	if len(buses) == 0 {
		return "", ErrNoBus
	}
	if l.bus == "" {
		return buses[0], nil
	}
	for _, name := range buses {
		if name == l.bus {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q not in %q", ErrNoBus, l.bus, buses)
}

// countdown reports the seconds left before configuration. It returns false
// if a stop was requested meanwhile.
func (l *Loop) countdown(st *reporter) bool {
	for n := l.delay; n > 0; n-- {
		if l.stop.Load() {
			return false
		}
		st.report(fmt.Sprintf("starting in %d...", n))
		l.sleep(time.Second)
	}
	return true
}

func (l *Loop) openSink() Sink {
	sink, err := l.create(l.output)
	if err != nil {
		l.logger.Printf("run %s: samples will not be stored: %+v", l.id, err)
		return nil
	}
	return sink
}

func (l *Loop) closeSink(sink Sink) {
	if sink == nil {
		return
	}
	if err := sink.Close(); err != nil {
		l.logger.Printf("run %s: could not close sink: %+v", l.id, err)
	}
}
