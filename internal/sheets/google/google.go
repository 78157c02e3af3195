// Package google exports EasyBudget snapshots to a Google spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"easybudget/internal/log"
	"easybudget/internal/sheets"
)

// Config names the target spreadsheet and how to authenticate.
type Config struct {
	SpreadsheetID      string
	ExpensesSheet      string
	BudgetSheet        string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	budgetSheet   string
}

var _ sheets.Exporter = (*Client)(nil)

// New creates a Sheets client. Sheet names default to "Expenses" and
// "Budget".
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		log.FieldComponent, log.ComponentSheets,
		"spreadsheet_id", spreadsheetID)

	return newClient(svc, spreadsheetID, cfg.ExpensesSheet, cfg.BudgetSheet), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, expenses, budget string) *Client {
	if strings.TrimSpace(expenses) == "" {
		expenses = "Expenses"
	}
	if strings.TrimSpace(budget) == "" {
		budget = "Budget"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		expensesSheet: expenses,
		budgetSheet:   budget,
	}
}

// credentials prefers inline JSON, then the file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	path := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Export overwrites both sheets. The two writes run concurrently and the
// first failure cancels the other.
func (c *Client) Export(ctx context.Context, snap sheets.Snapshot) (sheets.Result, error) {
	if c.svc == nil {
		return sheets.Result{}, errors.New("sheets service not initialized")
	}

	expenseRows := sheets.ExpenseRows(snap.Expenses)
	budgetRows := sheets.BudgetRows(snap)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.replace(gctx, c.expensesSheet, expenseRows) })
	g.Go(func() error { return c.replace(gctx, c.budgetSheet, budgetRows) })
	if err := g.Wait(); err != nil {
		return sheets.Result{}, err
	}

	res := sheets.Result{ExpenseRows: len(expenseRows) - 1, BudgetRows: len(budgetRows) - 1}
	slog.InfoContext(ctx, "Exported snapshot to Google Sheets",
		log.FieldComponent, log.ComponentSheets,
		log.FieldOperation, log.OpExport,
		"expense_rows", res.ExpenseRows,
		"budget_rows", res.BudgetRows)
	return res, nil
}

func (c *Client) replace(ctx context.Context, sheet string, rows [][]any) error {
	all := quoteSheet(sheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, all, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}

	rng := dataRange(sheet, len(rows), len(rows[0]))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.DebugContext(ctx, "Sheet replaced",
		log.FieldComponent, log.ComponentSheets,
		log.FieldSheetsRange, rng)
	return nil
}

// quoteSheet wraps a sheet name in single quotes as A1 notation requires
// for names with spaces or punctuation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// dataRange returns the A1 range covering rows x cols from A1.
func dataRange(sheet string, rows, cols int) string {
	return fmt.Sprintf("%s!A1:%s%d", quoteSheet(sheet), columnName(cols), rows)
}

// columnName converts a 1-based column index to its letter form.
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
