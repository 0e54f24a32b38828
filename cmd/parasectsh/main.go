// Command parasectsh runs a parallel bisection search where the oracle is
// an external command: exit code 0 is Good, any other exit code is Bad, and
// a failure to spawn the command at all is Stop. It is a thin
// demonstration harness, not a general-purpose CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/exec"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/jonathan-lemos/parasect"
	"github.com/jonathan-lemos/parasect/interval"
)

func main() {
	lo := flag.Int64("lo", 0, "lower bound of the search range (inclusive)")
	hi := flag.Int64("hi", 0, "upper bound of the search range (inclusive)")
	parallelism := flag.Int("parallelism", 0, "max concurrent probes (default: number of CPUs)")
	verbose := flag.Bool("verbose", false, "log each probe as it completes")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: parasectsh -lo N -hi N -- <command> [args with {} as the probed point]")
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []parasect.Option{parasect.WithLogger(logger)}
	if *parallelism > 0 {
		opts = append(opts, parasect.WithMaxParallelism(*parallelism))
	}

	cfg := parasect.NewConfig(interval.FromInt64(*lo, *hi), subprocessOracle(args), opts...)

	answer, err := parasect.Run(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parasect:", err)
		os.Exit(1)
	}

	fmt.Println(answer.String())
}

// subprocessOracle runs argv with every occurrence of the literal token "{}"
// replaced by the probed point, mapping exit code 0 to Good, any other exit
// code to Bad, and a spawn failure to Stop.
func subprocessOracle(argv []string) parasect.PayloadFunc {
	return func(ctx context.Context, point *big.Int) parasect.Result {
		expanded := make([]string, len(argv))
		for i, a := range argv {
			if a == "{}" {
				expanded[i] = point.String()
			} else {
				expanded[i] = a
			}
		}

		cmd := exec.CommandContext(ctx, expanded[0], expanded[1:]...)
		err := cmd.Run()

		var exitErr *exec.ExitError
		switch {
		case err == nil:
			return parasect.ContinueResult{Answer: parasect.Good}
		case errors.As(err, &exitErr):
			return parasect.ContinueResult{Answer: parasect.Bad}
		default:
			return parasect.StopResult{Reason: fmt.Sprintf("failed to run %q at %s: %v", argv[0], point.String(), err)}
		}
	}
}
