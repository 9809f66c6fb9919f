package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/glycerine/seekhole"
)

func main() {
	seekhole.Exit1IfVersionReq()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the os.Exit, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := seekhole.NewConfig()

	fs := flag.NewFlagSet("seekhole", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.SetFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: seekhole [flags] <path> [<start-block>]\n\n"+
			"Report the holes between allocated extents of one file, in filesystem blocks.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if err := cfg.FinishConfig(fs); err != nil {
		fmt.Fprintf(stderr, "seekhole error: %v\n\n", err)
		fs.Usage()
		return 1
	}
	seekhole.SetVerbose(cfg.Verbose, cfg.VerboseVerbose)

	sess, err := seekhole.Open(cfg.Path, cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "seekhole error: %v\n", err)
		return 1
	}
	defer sess.Close()

	fmt.Fprintf(stdout, "Block size is %v\n", sess.BlockSize())

	sum, err := sess.Walk(func(h seekhole.Hole) {
		fmt.Fprintln(stdout, h.String())
	})
	if err != nil {
		fmt.Fprintf(stderr, "seekhole error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, sum.String())
	return 0
}
