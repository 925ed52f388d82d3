// Command afe4400 acquires samples from an AFE4400 until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cgxeiji/afe4400"
	"github.com/cgxeiji/afe4400/config"
	"github.com/cgxeiji/afe4400/i2cbus"
)

func main() {
	var (
		cfgFile  = flag.String("config", "", "path to a YAML configuration file")
		bus      = flag.String("bus", "", "I2C bus name (default: first available)")
		addr     = flag.Uint("addr", 0, "7-bit I2C address (default: 0x28)")
		output   = flag.String("o", "", "output record file")
		printCfg = flag.Bool("print-config", false, "print the effective configuration and exit")
	)

	log.SetPrefix("afe4400: ")
	log.SetFlags(0)

	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := override(cfg, *bus, *addr, *output); err != nil {
		log.Fatal(err)
	}

	if *printCfg {
		b, err := cfg.YAML()
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(b)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("could not run acquisition: %+v", err)
	}
}

// override applies the command-line flags on top of cfg and validates the
// result. Zero values leave the configured setting in place.
func override(cfg *config.Config, bus string, addr uint, output string) error {
	if bus != "" {
		cfg.Bus = bus
	}
	if addr != 0 {
		if addr > 0x7f {
			return fmt.Errorf("invalid 7-bit I2C address %#x", addr)
		}
		cfg.Addr = uint16(addr)
	}
	if output != "" {
		cfg.Output = output
	}
	return cfg.Validate()
}

func run(cfg *config.Config) error {
	m, err := i2cbus.NewPeriph()
	if err != nil {
		return err
	}
	defer m.Close()

	listener := afe4400.ListenerFunc(func(text string) {
		fmt.Printf("\r%s ", text)
	})
	loop := afe4400.New(m, listener, cfg.Options()...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := loop.Start(); err != nil {
		return err
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer cancel()
		return loop.Wait()
	})
	grp.Go(func() error {
		<-ctx.Done()
		loop.RequestStop()
		return nil
	})

	err = grp.Wait()
	fmt.Println()
	return err
}
