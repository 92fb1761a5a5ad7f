package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
)

var ErrNotConfigured = errors.New("converter is not configured")

type (
	// Converter is the session engine the commands drive.
	Converter interface {
		ListCurrencies(ctx context.Context) ([]currency.Code, error)
		Convert(ctx context.Context, amount string, from, to currency.Code) (*currency.Conversion, error)
		ConvertSelected(ctx context.Context, amount string) (*currency.Conversion, error)
		Select(pair currency.Pair)
		Pair() currency.Pair
		Swap() currency.Pair
		ClearHistory()
		History() []currency.ConversionRecord
		LatestResult() (currency.Conversion, bool)
		SessionID() string
	}

	Config struct {
		Converter  Converter
		ConfigFile string
		Debug      bool
		// Setup is called once flags are parsed and must set Converter.
		// It is skipped when Converter is already set.
		Setup func(ctx context.Context, config *Config) error
	}
)

func NewRootCommand(config *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "currency-converter",
		Short:        "Currency converter with conversion history",
		Version:      "v2.0.0",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if config.Converter != nil {
				return nil
			}

			if config.Setup == nil {
				return ErrNotConfigured
			}

			if err := config.Setup(cmd.Context(), config); err != nil {
				return err
			}

			if config.Converter == nil {
				return ErrNotConfigured
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&config.Debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config", "./config.yml", "Path to config file")

	rootCmd.AddCommand(currencies(config), convert(config), session(config))

	return rootCmd
}

func Execute(ctx context.Context, config *Config) error {
	return NewRootCommand(config).ExecuteContext(ctx)
}
