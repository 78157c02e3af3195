package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"easybudget/internal/core"
	"easybudget/internal/services"
)

func newExpenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record, change, remove or list expenses",
	}
	cmd.AddCommand(
		newExpenseAddCmd(a),
		newExpenseDeleteCmd(a),
		newExpenseEditCmd(a),
		newExpenseListCmd(a),
	)
	return cmd
}

func newExpenseAddCmd(a *app) *cobra.Command {
	var price, description, vendor, date, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record an expense in the ledger and print its identifier.

Examples:
  easybudget expense add --price 12,50 --description lunch --vendor deli --category "Food & Groceries"
  easybudget expense add --price 900 --description rent --vendor landlord --date 2024-05-01 --category Housing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseAmount(price)
			if err != nil {
				return err
			}
			c, err := parseCategory(category)
			if err != nil {
				return err
			}
			d := core.DateOf(a.clock())
			if date != "" {
				if d, err = core.ParseDate(date); err != nil {
					return err
				}
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				id, err := s.Tracker().AddExpense(p, description, vendor, d, c)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "Amount paid (dot or comma decimals)")
	cmd.Flags().StringVar(&description, "description", "", "What was bought")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Who it was bought from")
	cmd.Flags().StringVar(&date, "date", "", "Purchase date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "Spending category")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("vendor")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newExpenseDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an expense from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				return s.Tracker().DeleteExpense(core.ExpenseID(args[0]))
			})
		},
	}
}

func newExpenseEditCmd(a *app) *cobra.Command {
	var price, description, vendor, date, category string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an expense",
		Long: `Change one or more fields of an expense. Only the flags given are applied,
in the order price, description, vendor, date, category. Every value is
checked before the ledger is touched, so an invalid flag changes nothing.

Examples:
  easybudget expense edit 6f1c... --price 14
  easybudget expense edit 6f1c... --vendor "corner deli" --category "Food & Groceries"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := core.ExpenseID(args[0])
			flags := cmd.Flags()

			var edits []func(t *core.SpendingTracker) error
			if flags.Changed("price") {
				p, err := parseAmount(price)
				if err != nil {
					return err
				}
				edits = append(edits, func(t *core.SpendingTracker) error { return t.EditPriceOf(id, p) })
			}
			if flags.Changed("description") {
				if description == "" {
					return core.ErrEmptyDescription
				}
				edits = append(edits, func(t *core.SpendingTracker) error { return t.EditDescriptionOf(id, description) })
			}
			if flags.Changed("vendor") {
				if vendor == "" {
					return core.ErrEmptyVendor
				}
				edits = append(edits, func(t *core.SpendingTracker) error { return t.EditVendorOf(id, vendor) })
			}
			if flags.Changed("date") {
				d, err := core.ParseDate(date)
				if err != nil {
					return err
				}
				edits = append(edits, func(t *core.SpendingTracker) error { return t.EditDateOf(id, d) })
			}
			if flags.Changed("category") {
				c, err := parseCategory(category)
				if err != nil {
					return err
				}
				edits = append(edits, func(t *core.SpendingTracker) error { return t.EditCategoryOf(id, c) })
			}
			if len(edits) == 0 {
				return fmt.Errorf("nothing to edit: pass at least one of --price, --description, --vendor, --date, --category")
			}

			return a.withSession(cmd.Context(), func(s *services.Session) error {
				for _, edit := range edits {
					if err := edit(s.Tracker()); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "New amount")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&vendor, "vendor", "", "New vendor")
	cmd.Flags().StringVar(&date, "date", "", "New date, YYYY-MM-DD")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	return cmd
}

func newExpenseListCmd(a *app) *cobra.Command {
	var from, to string
	var month, year int
	var categories []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, optionally filtered",
		Long: `List expenses in ledger order. Filters combine: an expense is shown only
when it passes every filter given.

Examples:
  easybudget expense list
  easybudget expense list --month 5 --year 2024
  easybudget expense list --from 2024-01-01 --to 2024-03-31 --category Housing --category "Debt Payments"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters []core.ExpenseFilter

			switch {
			case month != 0:
				if month < 1 || month > 12 {
					return fmt.Errorf("invalid month %d", month)
				}
				if year == 0 {
					year = a.clock().Year()
				}
				filters = append(filters, core.NewMonthFilter(time.Month(month), year))
			case from != "" || to != "":
				df := core.NewDateFilter(core.Date{}, core.Date{})
				if from != "" {
					d, err := core.ParseDate(from)
					if err != nil {
						return err
					}
					df.SetStart(d)
				}
				if to != "" {
					d, err := core.ParseDate(to)
					if err != nil {
						return err
					}
					df.SetEnd(d)
				}
				filters = append(filters, df)
			}

			if len(categories) > 0 {
				cf := core.NewCategoryFilter()
				for _, name := range categories {
					c, err := parseCategory(name)
					if err != nil {
						return err
					}
					cf.Add(c)
				}
				filters = append(filters, cf)
			}

			return a.withSession(cmd.Context(), func(s *services.Session) error {
				for _, f := range filters {
					if str, ok := f.(fmt.Stringer); ok && str.String() != "" {
						fmt.Fprintln(a.out, str.String())
					}
				}
				a.printExpenses(s.Tracker().Filter(filters...))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last date, YYYY-MM-DD")
	cmd.Flags().IntVar(&month, "month", 0, "Calendar month 1-12 (overrides --from/--to)")
	cmd.Flags().IntVar(&year, "year", 0, "Year for --month (default this year)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category to include (repeatable)")
	return cmd
}

func (a *app) printExpenses(expenses []core.Expense) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tVENDOR\tCATEGORY\tPRICE")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID(), e.Date, e.Description, e.Vendor, e.Category, core.FormatAmount(e.Price))
	}
	tw.Flush()
	fmt.Fprintf(a.out, "\n%d expense(s), total %s\n", len(expenses), core.FormatAmount(core.SumPrices(expenses)))
}
