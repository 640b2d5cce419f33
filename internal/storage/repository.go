package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"controlpanel/internal/core"
	"controlpanel/internal/repository"

	_ "modernc.org/sqlite"
)

var _ repository.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewSQLiteRepository opens dbPath, applies migrations and seeds the
// built-in dataset into an empty database.
func NewSQLiteRepository(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	n, err := repo.queries.CountCustomers(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if n == 0 {
		if err := repo.Seed(ctx, core.SampleCustomerRecords(), core.SampleTransactions()); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Seed inserts customers and transactions in one transaction.
func (r *SQLiteRepository) Seed(ctx context.Context, customers []core.CustomerRecord, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	for _, c := range customers {
		row, err := customerToRow(c)
		if err != nil {
			return err
		}
		if err := q.InsertCustomer(ctx, row); err != nil {
			return fmt.Errorf("insert customer %d: %w", c.ID, err)
		}
	}
	for _, t := range txs {
		if err := q.InsertTransaction(ctx, transactionToRow(t)); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Seeded SQLite database", "customers", len(customers), "transactions", len(txs))
	return nil
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]core.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := rowToCustomer(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed customer row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *SQLiteRepository) FindCustomer(ctx context.Context, id int64) (core.Customer, error) {
	row, err := r.queries.GetCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Customer{}, core.ErrCustomerNotFound
	}
	if err != nil {
		return core.Customer{}, fmt.Errorf("get customer %d: %w", id, err)
	}
	return rowToCustomer(row)
}

func (r *SQLiteRepository) UpdateCustomer(ctx context.Context, c core.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	row, err := customerToRow(core.FromCustomer(c))
	if err != nil {
		return err
	}
	n, err := r.queries.UpdateCustomer(ctx, row)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	if n == 0 {
		return core.ErrCustomerNotFound
	}
	slog.InfoContext(ctx, "Customer updated in SQLite", "id", c.ID)
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := rowToTransaction(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, t)
	}
	repository.LogUnbalanced(ctx, "sqlite", out)
	return out, nil
}

func customerToRow(r core.CustomerRecord) (CustomerRow, error) {
	files, err := jsonColumn(r.UploadedFiles, r.UploadedFiles == nil)
	if err != nil {
		return CustomerRow{}, fmt.Errorf("encode uploaded files: %w", err)
	}
	services, err := jsonColumn(r.ActiveServices, r.ActiveServices == nil)
	if err != nil {
		return CustomerRow{}, fmt.Errorf("encode active services: %w", err)
	}
	return CustomerRow{
		ID:                 r.ID,
		Name:               r.Name,
		CompanyName:        r.CompanyName,
		Type:               string(r.Type),
		Email:              r.Email,
		Phone:              r.Phone,
		ActivityStatus:     string(r.ActivityStatus),
		AccountStatus:      string(r.AccountStatus),
		TotalTransactions:  r.TotalTransactions.String(),
		OpeningDate:        r.OpeningDate,
		IsAuthenticated:    r.IsAuthenticated,
		LastLoginIP:        r.LastLoginIP,
		LastLoginLocation:  r.LastLoginLocation,
		UploadedFiles:      files,
		ActiveServices:     services,
		Address:            r.Address,
		DOB:                r.DOB,
		NationalID:         r.NationalID,
		IsCompanyAccount:   r.IsCompanyAccount,
		CompanyRegNumber:   r.CompanyRegistrationNumber,
		CompanyTaxNumber:   r.CompanyTaxNumber,
		CompanyStatsNumber: r.CompanyStatsNumber,
		CompanyAddress:     r.CompanyAddress,
	}, nil
}

func rowToCustomer(row CustomerRow) (core.Customer, error) {
	total, err := core.ParseMoney(row.TotalTransactions)
	if err != nil {
		return core.Customer{}, err
	}
	rec := core.CustomerRecord{
		ID:                        row.ID,
		Name:                      row.Name,
		CompanyName:               row.CompanyName,
		Type:                      core.AccountType(row.Type),
		Email:                     row.Email,
		Phone:                     row.Phone,
		ActivityStatus:            core.ActivityStatus(row.ActivityStatus),
		AccountStatus:             core.AccountStatus(row.AccountStatus),
		TotalTransactions:         total,
		OpeningDate:               row.OpeningDate,
		IsAuthenticated:           row.IsAuthenticated,
		LastLoginIP:               row.LastLoginIP,
		LastLoginLocation:         row.LastLoginLocation,
		Address:                   row.Address,
		DOB:                       row.DOB,
		NationalID:                row.NationalID,
		IsCompanyAccount:          row.IsCompanyAccount,
		CompanyRegistrationNumber: row.CompanyRegNumber,
		CompanyTaxNumber:          row.CompanyTaxNumber,
		CompanyStatsNumber:        row.CompanyStatsNumber,
		CompanyAddress:            row.CompanyAddress,
	}
	if row.UploadedFiles.Valid {
		if err := json.Unmarshal([]byte(row.UploadedFiles.String), &rec.UploadedFiles); err != nil {
			return core.Customer{}, fmt.Errorf("decode uploaded files: %w", err)
		}
	}
	if row.ActiveServices.Valid {
		if err := json.Unmarshal([]byte(row.ActiveServices.String), &rec.ActiveServices); err != nil {
			return core.Customer{}, fmt.Errorf("decode active services: %w", err)
		}
	}
	return rec.ToCustomer()
}

func transactionToRow(t core.Transaction) TransactionRow {
	return TransactionRow{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		DateTime:        t.DateTime.UTC().Format(time.RFC3339),
		Type:            string(t.Type),
		Status:          string(t.Status),
		PaymentMethod:   string(t.PaymentMethod),
		Amount:          t.Amount.String(),
		AmountPaid:      t.AmountPaid.String(),
		RemainingAmount: t.RemainingAmount.String(),
		Details:         t.Details,
	}
}

func rowToTransaction(row TransactionRow) (core.Transaction, error) {
	when, err := time.Parse(time.RFC3339, row.DateTime)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date_time: %w", err)
	}
	var amounts [3]core.Money
	for i, raw := range []string{row.Amount, row.AmountPaid, row.RemainingAmount} {
		if amounts[i], err = core.ParseMoney(raw); err != nil {
			return core.Transaction{}, err
		}
	}
	return core.Transaction{
		ID:              row.ID,
		CustomerID:      row.CustomerID,
		DateTime:        when,
		Type:            core.TransactionType(row.Type),
		Status:          core.TransactionStatus(row.Status),
		PaymentMethod:   core.PaymentMethod(row.PaymentMethod),
		Amount:          amounts[0],
		AmountPaid:      amounts[1],
		RemainingAmount: amounts[2],
		Details:         row.Details,
	}, nil
}

// jsonColumn encodes v, or NULL when absent.
func jsonColumn(v any, absent bool) (sql.NullString, error) {
	if absent {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
