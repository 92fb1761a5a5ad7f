package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
)

func printCurrencies(out io.Writer, codes []currency.Code, flags bool) {
	for _, code := range codes {
		if flags {
			fmt.Fprintf(out, "%s\t%s\n", code, currency.FlagURL(code))
			continue
		}

		fmt.Fprintln(out, code)
	}
}

func currencies(config *Config) *cobra.Command {
	var flags bool

	currenciesCmd := &cobra.Command{
		Use:   "currencies",
		Short: "List currencies known to the rate provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := config.Converter.ListCurrencies(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			printCurrencies(cmd.OutOrStdout(), codes, flags)

			return nil
		},
	}

	currenciesCmd.Flags().BoolVar(&flags, "flags", false, "Print the flag image URL next to each code")

	return currenciesCmd
}
