package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"easybudget/internal/core"
	"easybudget/internal/services"
)

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <category>",
		Short: "Compare this month's spend in a category with its allocation",
		Long: `Sum this month's expenses in a category and say whether the spend is
under, on, or over the allocated limit.

Examples:
  easybudget compare Housing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				cmp, actual, err := s.Compare(category)
				if err != nil {
					return err
				}
				item, _ := s.Budget().Item(category)
				fmt.Fprintf(a.out, "%s: spent %s of %s, %s budget\n",
					category, core.FormatAmount(actual), core.FormatAmount(item.Limit()), cmp)
				return nil
			})
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize one month against the budget",
		Long: `Print the month's total spend by category, then compare every allocation
with what was spent. Defaults to the current month.

Examples:
  easybudget report
  easybudget report --month 3 --year 2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				ov := s.MonthOverview(year, time.Month(month))
				fmt.Fprintf(a.out, "%s %d: total %s\n", ov.Month, ov.Year, core.FormatAmount(ov.Total))

				at := time.Date(ov.Year, ov.Month, 1, 0, 0, 0, 0, time.UTC)
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CATEGORY\tLIMIT\tSPENT\tSTATUS")
				for _, r := range s.ReportAt(at) {
					status := r.Comparison.String()
					if r.Err != nil {
						status = "no expenses"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						r.Category, core.FormatAmount(r.Limit), core.FormatAmount(r.Actual), status)
				}
				for _, ca := range ov.ByCategory {
					if _, ok := s.Budget().Item(ca.Category); !ok {
						fmt.Fprintf(tw, "%s\t-\t%s\tnot allocated\n", ca.Category, core.FormatAmount(ca.Amount))
					}
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "Calendar month 1-12 (default this month)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default this year)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the budget and ledger to Google Sheets",
		Long: `Replace the contents of the configured spreadsheet tabs with the current
budget and ledger. Requires GOOGLE_SPREADSHEET_ID and service account
credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *services.Session) error {
				res, err := s.Export(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Exported %d expense row(s) and %d budget row(s)\n", res.ExpenseRows, res.BudgetRows)
				return nil
			})
		},
	}
}
