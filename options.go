package afe4400

import (
	"log"
	"time"
)

// An Option configures a loop.
type Option func(l *Loop) Option

// OnBus can be used to specify the I²C bus name ("/dev/i2c-2", "I2C2",
// "2"). By default, the bus name is "", which selects the first available
// bus.
func OnBus(name string) Option {
	return func(l *Loop) Option {
		old := l.bus
		l.bus = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify an alternative I²C address.
// By default, the address is 0x28.
func OnAddr(addr uint16) Option {
	return func(l *Loop) Option {
		old := l.addr
		l.addr = addr
		return OnAddr(old)
	}
}

// WithOutput sets the path of the record file. By default, samples are
// written to "plox.dat".
func WithOutput(path string) Option {
	return func(l *Loop) Option {
		old := l.output
		l.output = path
		return WithOutput(old)
	}
}

// WithSink replaces the function used to open the sample sink.
func WithSink(open func(path string) (Sink, error)) Option {
	return func(l *Loop) Option {
		old := l.create
		l.create = open
		return WithSink(old)
	}
}

// WithLogger sets the logger used for diagnostics that are not status
// updates, such as sink errors.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) Option {
		old := l.logger
		l.logger = logger
		return WithLogger(old)
	}
}

// WithStartDelay makes the loop count down n seconds, reporting each
// second, before it configures the device.
func WithStartDelay(n int) Option {
	return func(l *Loop) Option {
		old := l.delay
		l.delay = n
		return WithStartDelay(old)
	}
}

// WithInterval sets a pause between acquisition cycles. By default, cycles
// run back to back.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) Option {
		old := l.interval
		l.interval = d
		return WithInterval(old)
	}
}
