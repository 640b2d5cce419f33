package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"controlpanel/internal/core"
	"controlpanel/internal/repository"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Config struct {
	SpreadsheetID      string
	CustomersSheet     string
	TransactionsSheet  string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	customersSheet    string
	transactionsSheet string

	// serialises the read-modify-write in UpdateCustomer
	writeMu sync.Mutex
}

var _ repository.Store = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
// Credentials come from cfg, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg.ServiceAccountJSON, cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, cfg), nil
}

func newClient(svc *gsheet.Service, cfg Config) *Client {
	customers := strings.TrimSpace(cfg.CustomersSheet)
	if customers == "" {
		customers = "Customers"
	}
	transactions := strings.TrimSpace(cfg.TransactionsSheet)
	if transactions == "" {
		transactions = "Transactions"
	}
	return &Client{
		svc:               svc,
		spreadsheetID:     strings.TrimSpace(cfg.SpreadsheetID),
		customersSheet:    customers,
		transactionsSheet: transactions,
	}
}

func newSheetsService(ctx context.Context, inlineJSON, file string) (*gsheet.Service, error) {
	inlineJSON = strings.TrimSpace(inlineJSON)
	file = strings.TrimSpace(file)
	if inlineJSON == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(inlineJSON)
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

func (c *Client) readSheet(ctx context.Context, sheet string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:AZ", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// EnsureHeaders writes the header row into tabs that are still empty.
func (c *Client) EnsureHeaders(ctx context.Context) error {
	tabs := []struct {
		sheet   string
		columns []string
	}{
		{c.customersSheet, customerColumns},
		{c.transactionsSheet, transactionColumns},
	}
	for _, tab := range tabs {
		values, err := c.readSheet(ctx, tab.sheet)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			continue
		}
		row := make([]interface{}, len(tab.columns))
		for i, col := range tab.columns {
			row[i] = col
		}
		rng := fmt.Sprintf("%s!A1:%s1", tab.sheet, columnName(len(row)-1))
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]interface{}{row}}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header %s: %w", rng, err)
		}
		slog.InfoContext(ctx, "Wrote sheet header", "sheet", tab.sheet, "columns", len(row))
	}
	return nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	values, err := c.readSheet(ctx, c.customersSheet)
	if err != nil {
		return nil, err
	}
	records, rowErrs, err := parseCustomers(c.customersSheet, values)
	if err != nil {
		return nil, err
	}
	logRowErrors(ctx, rowErrs)

	out := make([]core.Customer, 0, len(records))
	for _, r := range records {
		cust, err := r.ToCustomer()
		if err != nil {
			slog.WarnContext(ctx, "Skipping customer row", "sheet", c.customersSheet, "id", r.ID, "error", err)
			continue
		}
		out = append(out, cust)
	}
	return out, nil
}

func (c *Client) FindCustomer(ctx context.Context, id int64) (core.Customer, error) {
	all, err := c.ListCustomers(ctx)
	if err != nil {
		return core.Customer{}, err
	}
	for _, cust := range all {
		if cust.ID == id {
			return cust, nil
		}
	}
	return core.Customer{}, core.ErrCustomerNotFound
}

// UpdateCustomer rewrites the editable cells of the row holding the
// customer's id.
func (c *Client) UpdateCustomer(ctx context.Context, cust core.Customer) error {
	if err := cust.Validate(); err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	values, err := c.readSheet(ctx, c.customersSheet)
	if err != nil {
		return err
	}
	rowNum := findCustomerRow(values, cust.ID)
	if rowNum == -1 {
		return core.ErrCustomerNotFound
	}
	width := len(values[0])
	row := editedCustomerRow(newHeader(values[0]), width, values[rowNum-1], cust)
	rng := fmt.Sprintf("%s!A%d:%s%d", c.customersSheet, rowNum, columnName(width-1), rowNum)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Customer row updated", "range", rng, "customer_id", cust.ID)
	return nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	values, err := c.readSheet(ctx, c.transactionsSheet)
	if err != nil {
		return nil, err
	}
	txs, rowErrs, err := parseTransactions(c.transactionsSheet, values)
	if err != nil {
		return nil, err
	}
	logRowErrors(ctx, rowErrs)
	repository.LogUnbalanced(ctx, "sheets", txs)
	return txs, nil
}

func logRowErrors(ctx context.Context, rowErrs []error) {
	for _, err := range rowErrs {
		slog.WarnContext(ctx, "Skipping malformed sheet row", "error", err)
	}
}
