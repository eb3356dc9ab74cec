package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// Each cart command is one process, so the local list is loaded from the
// backend before any mutation.
func newCartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(context.Context, *cart.Reconciler) error { return nil })
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty := 1
				if len(args) == 2 {
					n, err := strconv.Atoi(args[1])
					if err != nil {
						return fmt.Errorf("invalid quantity %q", args[1])
					}
					qty = n
				}
				return withCart(cmd, opts, func(ctx context.Context, r *cart.Reconciler) error {
					p, err := opts.app.catalog.FetchDetail(ctx, args[0])
					if err != nil {
						return err
					}
					return r.AddToCart(ctx, p.Product, qty)
				})
			},
		},
		&cobra.Command{
			Use:   "update <product-id> <quantity>",
			Short: "Set an item's quantity; 0 removes it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				return withCart(cmd, opts, func(ctx context.Context, r *cart.Reconciler) error {
					return r.UpdateQuantity(ctx, args[0], qty)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Flip an item's selection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCart(cmd, opts, func(ctx context.Context, r *cart.Reconciler) error {
					return r.ToggleSelection(ctx, args[0])
				})
			},
		},
		newCartSelectCmd(opts),
		&cobra.Command{
			Use:   "remove [product-id...]",
			Short: "Remove the listed items, or the selected ones when none are given",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCart(cmd, opts, func(ctx context.Context, r *cart.Reconciler) error {
					if len(args) == 0 {
						return r.RemoveSelected(ctx)
					}
					return r.RemoveItems(ctx, args)
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCart(cmd, opts, func(ctx context.Context, r *cart.Reconciler) error {
					return r.ClearCart(ctx)
				})
			},
		},
	)
	return cmd
}

func newCartSelectCmd(opts *rootOptions) *cobra.Command {
	var none bool
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select every item (or none with --none)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, opts, func(ctx context.Context, r *cart.Reconciler) error {
				return r.SetAllSelection(ctx, !none)
			})
		},
	}
	cmd.Flags().BoolVar(&none, "none", false, "clear every selection instead")
	return cmd
}

func withCart(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *cart.Reconciler) error) error {
	ctx := cmd.Context()
	r := opts.app.cart
	if err := r.Load(ctx); err != nil {
		return err
	}
	if err := fn(ctx, r); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), r.Snapshot())
}
