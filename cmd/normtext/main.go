// cmd/normtext/main.go
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/transform"

	"github.com/tamzrod/modbus-display-bridge/internal/textnorm"
)

// maxPerByte bounds display output per input byte.
const maxPerByte = 3

type options struct {
	capacity int
	strict   bool
	hex      bool
	preview  bool
}

func main() {
	var opts options

	fs := flag.NewFlagSet("normtext", flag.ExitOnError)
	fs.IntVar(&opts.capacity, "cap", 0, "Output capacity in bytes per argument (0 = unlimited)")
	fs.BoolVar(&opts.strict, "strict", false, "Fail on unmapped characters, bad escapes and cut-off input")
	fs.BoolVar(&opts.hex, "hex", false, "Print display bytes as hex")
	fs.BoolVar(&opts.preview, "preview", false, "Print display bytes rendered back to UTF-8")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: normtext [-cap N] [-strict] [-hex] [-preview] [text...]")
		fmt.Fprintln(fs.Output(), "       reads stdin when no text is given")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if err := run(opts, fs.Args(), os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	no := textnorm.Options{Strict: opts.strict}

	if len(args) == 0 {
		out, err := io.ReadAll(transform.NewReader(stdin, textnorm.NewTransformer(no)))
		if err != nil {
			return err
		}
		return emit(stdout, opts, out)
	}

	for _, arg := range args {
		capacity := opts.capacity
		if capacity <= 0 {
			capacity = len(arg) * maxPerByte
		}

		dst := make([]byte, capacity)
		res, err := textnorm.Normalize(dst, []byte(arg), no)
		switch {
		case errors.Is(err, textnorm.ErrOutputFull):
			fmt.Fprintf(stderr, "truncated to %d bytes\n", res.N)
		case err != nil:
			return err
		}
		if res.Degraded() {
			fmt.Fprintf(stderr, "dropped=%d invalid_escapes=%d escape_truncated=%t incomplete=%t\n",
				res.Dropped, res.InvalidEscapes, res.EscapeTruncated, res.Incomplete)
		}

		if err := emit(stdout, opts, dst[:res.N]); err != nil {
			return err
		}
	}
	return nil
}

func emit(w io.Writer, opts options, b []byte) error {
	var err error
	switch {
	case opts.hex && opts.preview:
		_, err = fmt.Fprintf(w, "%s\t%s\n", hex.EncodeToString(b), textnorm.Preview(b))
	case opts.hex:
		_, err = fmt.Fprintln(w, hex.EncodeToString(b))
	case opts.preview:
		_, err = fmt.Fprintln(w, textnorm.Preview(b))
	default:
		if _, err = w.Write(b); err == nil {
			_, err = w.Write([]byte{'\n'})
		}
	}
	return err
}
