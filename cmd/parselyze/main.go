// Command parselyze submits documents to the Parselyze API, inspects jobs, and
// verifies webhook payloads.
//
// Usage:
//
//	parselyze submit --template tpl_123 [--wait] [--export results.xlsx] invoice.pdf s3://bucket/scan.png
//	parselyze job [--wait] job_abc
//	parselyze parse --template tpl_123 invoice.pdf
//	parselyze verify --signature <hex> payload.json
//
// Settings are read from flags, PARSELYZE_* environment variables and .env.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: parselyze <command> [flags] [args]

commands:
  submit   submit files for asynchronous parsing
  job      show the state of one or more jobs
  parse    parse files synchronously (deprecated endpoint)
  verify   check a webhook payload signature
`

// errInvalidSignature makes verify exit non-zero without extra output.
var errInvalidSignature = errors.New("invalid signature")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errInvalidSignature) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "submit":
		return runSubmit(ctx, rest, stdout, stderr)
	case "job":
		return runJob(ctx, rest, stdout, stderr)
	case "parse":
		return runParse(ctx, rest, stdout, stderr)
	case "verify":
		return runVerify(rest, stdin, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
