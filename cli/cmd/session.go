package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/engine"
	"github.com/malusev998/currency-converter/logging"
	"github.com/malusev998/currency-converter/telemetry"
)

const sessionHelp = `commands:
  pair FROM TO     select the currency pair
  from CODE        select the source currency
  to CODE          select the target currency
  swap             exchange source and target
  convert AMOUNT   convert over the selected pair (a bare number works too)
  result           show the latest result
  history          show past conversions, newest first
  clear            clear the history
  currencies       list known currencies
  help             show this help
  quit             end the session`

var errQuit = errors.New("quit")

type repl struct {
	converter Converter
	out       io.Writer
	errOut    io.Writer
}

func (r repl) printPair() {
	pair := r.converter.Pair()
	fmt.Fprintf(r.out, "pair: %s -> %s\n", pair.From, pair.To)
}

func (r repl) selectPair(from, to string) error {
	pair := r.converter.Pair()

	if from != "" {
		code, err := currency.ParseCode(from)
		if err != nil {
			return err
		}
		pair.From = code
	}

	if to != "" {
		code, err := currency.ParseCode(to)
		if err != nil {
			return err
		}
		pair.To = code
	}

	r.converter.Select(pair)
	r.printPair()

	return nil
}

func (r repl) convert(ctx context.Context, amount string) {
	conversion, err := r.converter.ConvertSelected(ctx, amount)

	switch {
	case errors.Is(err, engine.ErrInvalidAmount):
		return
	case err != nil:
		fmt.Fprintf(r.errOut, "error: %v\n", err)
	default:
		fmt.Fprintln(r.out, conversion)
	}
}

func (r repl) history() {
	history := r.converter.History()

	if len(history) == 0 {
		fmt.Fprintln(r.out, "history is empty")
		return
	}

	for _, record := range history {
		fmt.Fprintln(r.out, record)
	}
}

func (r repl) currencies(ctx context.Context) {
	codes, err := r.converter.ListCurrencies(ctx)
	if err != nil {
		fmt.Fprintf(r.errOut, "warning: %v\n", err)
	}

	fmt.Fprintf(r.out, "%d currencies available\n", len(codes))
	printCurrencies(r.out, codes, false)
}

func (r repl) handle(ctx context.Context, line string) error {
	fields := strings.Fields(line)

	if len(fields) == 0 {
		return nil
	}

	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(r.out, sessionHelp)
	case "pair":
		if len(args) != 2 {
			return errors.New("usage: pair FROM TO")
		}
		return r.selectPair(args[0], args[1])
	case "from":
		if len(args) != 1 {
			return errors.New("usage: from CODE")
		}
		return r.selectPair(args[0], "")
	case "to":
		if len(args) != 1 {
			return errors.New("usage: to CODE")
		}
		return r.selectPair("", args[0])
	case "swap":
		r.converter.Swap()
		r.printPair()
	case "convert":
		r.convert(ctx, strings.Join(args, " "))
	case "result":
		if latest, ok := r.converter.LatestResult(); ok {
			fmt.Fprintln(r.out, latest)
		} else {
			fmt.Fprintln(r.out, "no result")
		}
	case "history":
		r.history()
	case "clear":
		r.converter.ClearHistory()
		fmt.Fprintln(r.out, "history cleared")
	case "currencies":
		r.currencies(ctx)
	default:
		if _, err := engine.ParseAmount(fields[0]); err == nil && len(args) == 0 {
			r.convert(ctx, fields[0])
			return nil
		}

		return fmt.Errorf("unknown command %q, type help", fields[0])
	}

	return nil
}

// run handles lines from in until quit, EOF or ctx is done. A reader blocked
// on in does not hold up cancellation; its goroutine ends with the next line
// or when in is closed.
func (r repl) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr <- scanner.Err()
	}()

	fmt.Fprint(r.out, "> ")

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			err := r.handle(ctx, line)

			if errors.Is(err, errQuit) {
				return nil
			}

			if err != nil {
				fmt.Fprintf(r.errOut, "error: %v\n", err)
			}

			fmt.Fprint(r.out, "> ")
		}
	}
}

func session(config *Config) *cobra.Command {
	var metricsAddr string

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive conversion session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			logger := logging.Logger().Named("session")

			if metricsAddr != "" {
				go func() {
					if err := telemetry.Serve(ctx, metricsAddr, logger); err != nil {
						logger.Error("Metrics server stopped", zap.Error(err))
					}
				}()
			}

			r := repl{
				converter: config.Converter,
				out:       cmd.OutOrStdout(),
				errOut:    cmd.ErrOrStderr(),
			}

			fmt.Fprintf(r.out, "session %s\n", config.Converter.SessionID())
			r.currencies(ctx)
			r.printPair()

			return r.run(ctx, cmd.InOrStdin())
		},
	}

	sessionCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address during the session")

	return sessionCmd
}
