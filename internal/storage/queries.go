package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// CustomerRow mirrors the customers table.
type CustomerRow struct {
	ID                 int64
	Name               string
	CompanyName        string
	Type               string
	Email              string
	Phone              string
	ActivityStatus     string
	AccountStatus      string
	TotalTransactions  string
	OpeningDate        string
	IsAuthenticated    bool
	LastLoginIP        string
	LastLoginLocation  string
	UploadedFiles      sql.NullString
	ActiveServices     sql.NullString
	Address            string
	DOB                string
	NationalID         string
	IsCompanyAccount   bool
	CompanyRegNumber   string
	CompanyTaxNumber   string
	CompanyStatsNumber string
	CompanyAddress     string
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	ID              string
	CustomerID      int64
	DateTime        string
	Type            string
	Status          string
	PaymentMethod   string
	Amount          string
	AmountPaid      string
	RemainingAmount string
	Details         string
}

const customerColumns = `id, name, company_name, type, email, phone, activity_status, account_status,
	total_transactions, opening_date, is_authenticated, last_login_ip, last_login_location,
	uploaded_files, active_services, address, dob, national_id, is_company_account,
	company_reg_number, company_tax_number, company_stats_number, company_address`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(s scanner) (CustomerRow, error) {
	var c CustomerRow
	err := s.Scan(
		&c.ID, &c.Name, &c.CompanyName, &c.Type, &c.Email, &c.Phone, &c.ActivityStatus, &c.AccountStatus,
		&c.TotalTransactions, &c.OpeningDate, &c.IsAuthenticated, &c.LastLoginIP, &c.LastLoginLocation,
		&c.UploadedFiles, &c.ActiveServices, &c.Address, &c.DOB, &c.NationalID, &c.IsCompanyAccount,
		&c.CompanyRegNumber, &c.CompanyTaxNumber, &c.CompanyStatsNumber, &c.CompanyAddress,
	)
	return c, err
}

const listCustomers = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`

func (q *Queries) ListCustomers(ctx context.Context) ([]CustomerRow, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CustomerRow
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const getCustomer = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`

func (q *Queries) GetCustomer(ctx context.Context, id int64) (CustomerRow, error) {
	return scanCustomer(q.db.QueryRowContext(ctx, getCustomer, id))
}

const countCustomers = `SELECT COUNT(*) FROM customers`

func (q *Queries) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countCustomers).Scan(&n)
	return n, err
}

const insertCustomer = `INSERT INTO customers (` + customerColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertCustomer(ctx context.Context, c CustomerRow) error {
	_, err := q.db.ExecContext(ctx, insertCustomer,
		c.ID, c.Name, c.CompanyName, c.Type, c.Email, c.Phone, c.ActivityStatus, c.AccountStatus,
		c.TotalTransactions, c.OpeningDate, c.IsAuthenticated, c.LastLoginIP, c.LastLoginLocation,
		c.UploadedFiles, c.ActiveServices, c.Address, c.DOB, c.NationalID, c.IsCompanyAccount,
		c.CompanyRegNumber, c.CompanyTaxNumber, c.CompanyStatsNumber, c.CompanyAddress,
	)
	return err
}

// updateCustomer touches only the columns an edit can change, so gated
// columns (dob, national id, company) survive while their flag is off.
const updateCustomer = `UPDATE customers SET
	name = ?, email = ?, phone = ?, address = ?, type = ?, activity_status = ?, account_status = ?,
	updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

// UpdateCustomer returns the number of rows changed.
func (q *Queries) UpdateCustomer(ctx context.Context, c CustomerRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCustomer,
		c.Name, c.Email, c.Phone, c.Address, c.Type, c.ActivityStatus, c.AccountStatus,
		c.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listTransactions = `SELECT id, customer_id, date_time, type, status, payment_method,
	amount, amount_paid, remaining_amount, details
FROM transactions ORDER BY rowid`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.DateTime, &t.Type, &t.Status, &t.PaymentMethod,
			&t.Amount, &t.AmountPaid, &t.RemainingAmount, &t.Details); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const insertTransaction = `INSERT INTO transactions (id, customer_id, date_time, type, status, payment_method,
	amount, amount_paid, remaining_amount, details)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, t TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		t.ID, t.CustomerID, t.DateTime, t.Type, t.Status, t.PaymentMethod,
		t.Amount, t.AmountPaid, t.RemainingAmount, t.Details,
	)
	return err
}
