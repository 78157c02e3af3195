package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"easybudget/internal/core"
	"easybudget/internal/services"
)

func newBudgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or change the budget",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the total limit and every allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				a.printBudget(s.Budget())
				return nil
			})
		},
	}

	setLimit := &cobra.Command{
		Use:   "set-limit <amount>",
		Short: "Change the total limit",
		Long: `Change the total limit of the budget. The new limit must be positive and
at least the sum of the current allocations.

Examples:
  easybudget budget set-limit 2500
  easybudget budget set-limit 1999,99`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				return s.Budget().SetTotalLimit(limit)
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <category> <limit>",
		Short: "Allocate part of the budget to a category",
		Long: `Allocate part of the total limit to a category. Each category can be
allocated once, and the allocations together cannot exceed the total limit.

Examples:
  easybudget budget add Housing 800
  easybudget budget add "Food & Groceries" 350.50`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			limit, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				return s.Budget().AddItem(limit, category)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove a category allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				return s.Budget().RemoveItem(category)
			})
		},
	}

	edit := &cobra.Command{
		Use:   "edit <category> <limit>",
		Short: "Change the limit of an existing allocation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			limit, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				return s.Budget().EditLimit(category, limit)
			})
		},
	}

	cmd.AddCommand(show, setLimit, add, remove, edit)
	return cmd
}

func (a *app) printBudget(b *core.Budget) {
	total := b.TotalLimit()
	allocated := b.SumOfLimits()

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tLIMIT")
	for item := range b.All() {
		fmt.Fprintf(tw, "%s\t%s\n", item.Category(), core.FormatAmount(item.Limit()))
	}
	tw.Flush()

	fmt.Fprintf(a.out, "\nTotal limit: %s\n", core.FormatAmount(total))
	fmt.Fprintf(a.out, "Allocated:   %s\n", core.FormatAmount(allocated))
	fmt.Fprintf(a.out, "Unallocated: %s\n", core.FormatAmount(total.Sub(allocated)))
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the spending categories",
		Args:  cobra.NoArgs,
		// The category list is fixed; no backend is needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range core.Categories() {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
}
