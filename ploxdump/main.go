// Command ploxdump prints the samples of a record file, one cycle per line.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cgxeiji/afe4400"
	"github.com/cgxeiji/afe4400/record"
)

func main() {
	log.SetPrefix("ploxdump: ")
	log.SetFlags(0)

	n := flag.Int("n", -1, "number of records to print (-1: all)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ploxdump [options] file.dat\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := dump(os.Stdout, flag.Arg(0), *n); err != nil {
		log.Fatalf("could not dump %q: %+v", flag.Arg(0), err)
	}
}

func dump(w io.Writer, fname string, n int) error {
	r, err := record.Open(fname)
	if err != nil {
		return err
	}
	defer r.Close()

	out := bufio.NewWriter(w)
	defer out.Flush()

	for i := 0; n < 0 || i < n; i++ {
		a, b, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("record #%d: %w", i, err)
		}
		fmt.Fprintln(out, afe4400.Frame{A: a, B: b})
	}

	return out.Flush()
}
