package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"controlpanel/internal/core"
	"controlpanel/internal/repository"
)

const (
	CustomersFile    = "customers.json"
	TransactionsFile = "transactions.json"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	mu        sync.Mutex
	customers []core.Customer
	txs       []core.Transaction
}

func New(customers []core.Customer, txs []core.Transaction) *Store {
	s := &Store{
		customers: make([]core.Customer, 0, len(customers)),
		txs:       append([]core.Transaction(nil), txs...),
	}
	for _, c := range customers {
		s.customers = append(s.customers, c.Clone())
	}
	repository.LogUnbalanced(context.Background(), "memory", s.txs)
	return s
}

// NewSample returns a store holding the built-in dataset.
func NewSample() *Store {
	return New(core.SampleCustomers(), core.SampleTransactions())
}

// NewFromFiles seeds the store from JSON files under base. A missing file
// falls back to the built-in dataset for that collection; a malformed
// file is an error.
func NewFromFiles(base string) (*Store, error) {
	customers := core.SampleCustomers()
	var records []core.CustomerRecord
	ok, err := readJSON(filepath.Join(base, CustomersFile), &records)
	if err != nil {
		return nil, err
	}
	if ok {
		customers, err = core.CustomersFromRecords(records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", CustomersFile, err)
		}
	}

	txs := core.SampleTransactions()
	var loaded []core.Transaction
	ok, err = readJSON(filepath.Join(base, TransactionsFile), &loaded)
	if err != nil {
		return nil, err
	}
	if ok {
		txs = loaded
	}
	return New(customers, txs), nil
}

func readJSON(path string, dst any) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// ListCustomers returns copies in insertion order.
func (s *Store) ListCustomers(_ context.Context) ([]core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *Store) FindCustomer(_ context.Context, id int64) (core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return core.Customer{}, core.ErrCustomerNotFound
}

func (s *Store) UpdateCustomer(_ context.Context, c core.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == c.ID {
			s.customers[i] = c.Clone()
			return nil
		}
	}
	return core.ErrCustomerNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}
