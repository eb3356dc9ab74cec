package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	var (
		page, size int
		filters    []string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}
			b := opts.app.catalog
			products, err := b.Fetch(cmd.Context(), page, size, f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"products":    products,
				"pagination":  b.Cursor(),
				"activeCount": b.ActiveCount(),
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", catalog.DefaultPageSize, "page size")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "backend filter as key=value (repeatable)")
	return cmd
}

func newProductCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.app.catalog.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func parseFilters(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid filter %q, want key=value", kv)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
