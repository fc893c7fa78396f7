package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Additional-Code/hiretrack/internal/app"
	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
	ordersvc "github.com/Additional-Code/hiretrack/internal/service/order"
)

// withOrders runs fn with an order service backed by the configured store.
func withOrders(ctx context.Context, fn func(context.Context, *ordersvc.Service) error) error {
	var svc *ordersvc.Service
	opts := fx.Options(app.Core, fx.Populate(&svc))
	return runWithApp(ctx, opts, func(ctx context.Context) error {
		return fn(ctx, svc)
	})
}

var fieldFlags = map[form.Field]string{
	form.FieldCustomerName:  "customer-name",
	form.FieldReceiptNumber: "receipt-number",
	form.FieldItemHired:     "item-hired",
	form.FieldHowMany:       "how-many",
	form.FieldHiredOn:       "hired-on",
	form.FieldReturnOn:      "return-on",
}

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "List, add and delete hire orders",
	}
	cmd.AddCommand(
		newOrdersListCmd(),
		newOrdersAddCmd(),
		newOrdersShowCmd(),
		newOrdersDeleteCmd(),
		newOrdersOverdueCmd(),
	)
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print every order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOrders(cmd.Context(), func(ctx context.Context, svc *ordersvc.Service) error {
				orders, err := svc.List(ctx)
				if err != nil {
					return err
				}
				return renderOrders(cmd.OutOrStdout(), orders)
			})
		},
	}
}

func newOrdersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new order",
		Long: "Record a new order. Every field is required; dates are YYYY-MM-DD.\n" +
			"With --interactive each field is prompted for until it is valid.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive, _ := cmd.Flags().GetBool("interactive")

			f := form.New()
			if interactive {
				if err := promptForm(cmd.InOrStdin(), cmd.ErrOrStderr(), f); err != nil {
					return err
				}
			} else {
				for _, field := range form.Fields {
					value, _ := cmd.Flags().GetString(fieldFlags[field])
					f.Set(field, value)
				}
			}

			return withOrders(cmd.Context(), func(ctx context.Context, svc *ordersvc.Service) error {
				order, err := svc.Submit(ctx, f)
				if err != nil {
					var fieldErrs form.Errors
					if errors.As(err, &fieldErrs) {
						renderFieldErrors(cmd.ErrOrStderr(), fieldErrs)
					}
					return err
				}
				return renderOrder(cmd.OutOrStdout(), order)
			})
		},
	}
	for _, field := range form.Fields {
		cmd.Flags().String(fieldFlags[field], "", field.Label())
	}
	cmd.Flags().BoolP("interactive", "i", false, "Prompt for each field")
	return cmd
}

// promptForm asks for each field in turn and repeats a field until its
// error clears.
func promptForm(in io.Reader, out io.Writer, f *form.OrderForm) error {
	scanner := bufio.NewScanner(in)
	for _, field := range form.Fields {
		for {
			fmt.Fprintf(out, "%s *: ", field.Label())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return err
				}
				return fmt.Errorf("input ended before %s was entered", strings.ToLower(field.Label()))
			}
			f.Set(field, strings.TrimRight(scanner.Text(), "\r"))
			msg, bad := f.FieldError(field)
			if !bad {
				break
			}
			fmt.Fprintf(out, "  %s\n", msg)
		}
	}
	return nil
}

func newOrdersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withOrders(cmd.Context(), func(ctx context.Context, svc *ordersvc.Service) error {
				order, err := svc.Get(ctx, id)
				if err != nil {
					return err
				}
				return renderOrder(cmd.OutOrStdout(), order)
			})
		},
	}
}

func newOrdersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an order by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withOrders(cmd.Context(), func(ctx context.Context, svc *ordersvc.Service) error {
				if err := svc.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %d deleted\n", id)
				return nil
			})
		},
	}
}

func newOrdersOverdueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Print orders past their return date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf := entity.Today()
			if raw, _ := cmd.Flags().GetString("as-of"); raw != "" {
				parsed, err := entity.ParseDate(raw)
				if err != nil {
					return fmt.Errorf("--as-of must be formatted as YYYY-MM-DD: %w", err)
				}
				asOf = parsed
			}
			return withOrders(cmd.Context(), func(ctx context.Context, svc *ordersvc.Service) error {
				orders, err := svc.Overdue(ctx, asOf)
				if err != nil {
					return err
				}
				return renderOrders(cmd.OutOrStdout(), orders)
			})
		},
	}
	cmd.Flags().String("as-of", "", "Reference date (default today)")
	return cmd
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", raw)
	}
	return id, nil
}
