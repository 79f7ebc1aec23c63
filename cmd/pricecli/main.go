package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/pricelib/cmd/pricecli/internal/autocall"
	"github.com/meenmo/pricelib/cmd/pricecli/internal/barrier"
	"github.com/meenmo/pricelib/cmd/pricecli/internal/vanilla"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "vanilla":
		return vanilla.Run(args[1:], stdin, stdout, stderr)
	case "barrier":
		return barrier.Run(args[1:], stdin, stdout, stderr)
	case "autocall":
		return autocall.Run(args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pricecli <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  vanilla   European/American vanilla option PV and Greeks")
	fmt.Fprintln(w, "  barrier   Single-barrier option PV and Greeks")
	fmt.Fprintln(w, "  autocall  Snowball/phoenix/FCN/DCN autocallable PV via Monte Carlo")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `pricecli <command> -h` for command-specific help.")
}
