package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/engine"
)

func convert(config *Config) *cobra.Command {
	var from, to string

	convertCmd := &cobra.Command{
		Use:   "convert AMOUNT",
		Short: "Convert an amount between two currencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := config.Converter.Pair()

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

			amount := ""
			if len(args) > 0 {
				amount = args[0]
			}

			conversion, err := config.Converter.Convert(cmd.Context(), amount, pair.From, pair.To)

			if errors.Is(err, engine.ErrInvalidAmount) {
				return nil
			}

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), conversion)

			return nil
		},
	}

	convertCmd.Flags().StringVarP(&from, "from", "f", "", "Source currency (defaults to the configured pair)")
	convertCmd.Flags().StringVarP(&to, "to", "t", "", "Target currency (defaults to the configured pair)")

	return convertCmd
}
