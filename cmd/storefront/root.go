package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
)

type rootOptions struct {
	apiURL string
	app    *app
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront client for the commerce backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				cfg.APIURL = opts.apiURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "commerce backend base URL (overrides STOREFRONT_API_URL)")

	cmd.AddCommand(
		newServeCmd(opts),
		newProductsCmd(opts),
		newProductCmd(opts),
		newCartCmd(opts),
		newOrdersCmd(opts),
		newOrderCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
