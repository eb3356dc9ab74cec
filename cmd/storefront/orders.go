package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	var (
		status     string
		page, size int
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := order.Status(strings.ToUpper(strings.TrimSpace(status)))
			if st != "" && !st.Known() {
				return fmt.Errorf("unknown order status %q", status)
			}
			w := opts.app.orders
			orders, err := w.Fetch(cmd.Context(), order.Query{
				Status: st,
				Page:   page,
				Size:   size,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"orders":     orders,
				"pagination": w.Cursor(),
				"counts":     w.Counts(),
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "PENDING_PAYMENT, PAID, COMPLETED or CANCELLED")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", order.DefaultPageSize, "page size")
	return cmd
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Create, inspect and move orders through their lifecycle",
	}

	var remark string
	create := &cobra.Command{
		Use:   "create [product-id...]",
		Short: "Order the listed products, or the cart's selected items when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := args
			if len(ids) == 0 {
				if err := opts.app.cart.Load(ctx); err != nil {
					return err
				}
				ids = opts.app.cart.SelectedIDs()
			}
			o, err := opts.app.orders.Create(ctx, ids, remark)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), o)
		},
	}
	create.Flags().StringVar(&remark, "remark", "", "note attached to the order")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "get <order-id>",
			Short: "Show one order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				o, err := opts.app.orders.FetchDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), o)
			},
		},
		newTransitionCmd(opts, "pay", "Pay an unpaid order", (*order.Workflow).Pay),
		newTransitionCmd(opts, "cancel", "Cancel an unpaid order", (*order.Workflow).Cancel),
		newTransitionCmd(opts, "complete", "Confirm receipt of a paid order", (*order.Workflow).Complete),
	)
	return cmd
}

// newTransitionCmd loads the order first so an illegal transition is
// rejected locally.
func newTransitionCmd(opts *rootOptions, verb, short string, fn func(*order.Workflow, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <order-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := opts.app.orders
			if _, err := w.FetchDetail(ctx, args[0]); err != nil {
				return err
			}
			if err := fn(w, ctx, args[0]); err != nil {
				return err
			}
			cur, _ := w.Current()
			return printJSON(cmd.OutOrStdout(), cur)
		},
	}
}
