package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"easybudget/internal/backend"
	"easybudget/internal/cli"
	"easybudget/internal/core"
	"easybudget/internal/log"
	"easybudget/internal/services"
)

// app holds what every command needs. Tests preset res and clock to run
// commands against in-memory backends.
type app struct {
	out    io.Writer
	errOut io.Writer

	res          *backend.BackendResult
	defaultLimit decimal.Decimal
	clock        func() time.Time
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "easybudget",
		Short: "Plan a monthly budget and track spending against it",
		Long: `EasyBudget keeps one budget (a total limit split into per-category
allocations) and one ledger of expenses. Every command loads the saved
document, applies a single change, saves it, and prints the events it caused.

Configuration comes from the environment or a .env file (DATA_BACKEND,
DATA_DIR, SQLITE_DB_PATH, AMQP_URL, GOOGLE_SPREADSHEET_ID, LOG_LEVEL, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.AddCommand(
		newBudgetCmd(a),
		newExpenseCmd(a),
		newCompareCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newCategoriesCmd(a),
	)
	return root
}

// setup loads configuration and opens the backend unless one was injected.
func (a *app) setup(ctx context.Context) error {
	if a.clock == nil {
		a.clock = time.Now
	}
	if a.res != nil {
		if a.defaultLimit.IsZero() {
			a.defaultLimit = decimal.NewFromInt(1000)
		}
		return nil
	}

	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentCLI, a.errOut)

	limit, err := cfg.BudgetLimit()
	if err != nil {
		return err
	}
	a.defaultLimit = limit

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	a.res = res
	return nil
}

func (a *app) cleanup() {
	if a.res != nil && a.res.Cleanup != nil {
		_ = a.res.Cleanup()
	}
}

// withSession opens a session, runs fn, then closes the session and prints
// the events it drained. The session is closed even when fn fails.
func (a *app) withSession(ctx context.Context, fn func(s *services.Session) error) error {
	s, err := services.Open(ctx, a.res.Store, a.defaultLimit, services.Options{
		Publisher: a.res.Publisher,
		Exporter:  a.res.Exporter,
		Clock:     a.clock,
	})
	if err != nil {
		return err
	}

	runErr := fn(s)
	events, closeErr := s.Close(ctx)
	a.printEvents(events)
	return errors.Join(runErr, closeErr)
}

func (a *app) printEvents(events []core.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Events:")
	for _, e := range events {
		fmt.Fprintln(a.out, e.String())
	}
}

func parseCategory(s string) (core.Category, error) {
	if c, ok := core.LookupCategory(strings.TrimSpace(s)); ok {
		return c, nil
	}
	names := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		names = append(names, c.String())
	}
	return core.NoCategory, fmt.Errorf("unknown category %q (one of: %s)", s, strings.Join(names, ", "))
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := core.ParseAmount(s)
	if err != nil {
		return d, fmt.Errorf("%q: %w", s, err)
	}
	return d, nil
}
