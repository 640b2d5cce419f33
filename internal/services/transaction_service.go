package services

import (
	"context"
	"fmt"

	"controlpanel/internal/core"
	"controlpanel/internal/repository"

	"golang.org/x/sync/errgroup"
)

type TransactionService struct {
	customers repository.CustomerLister
	txs       repository.TransactionLister
}

func NewTransactionService(customers repository.CustomerLister, txs repository.TransactionLister) *TransactionService {
	return &TransactionService{customers: customers, txs: txs}
}

// List returns the filtered transactions in source order, each row carrying
// its customer's name when known.
func (s *TransactionService) List(ctx context.Context, criteria core.TransactionCriteria) ([]TransactionRow, error) {
	var (
		customers []core.Customer
		txs       []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if customers, err = s.customers.ListCustomers(gctx); err != nil {
			return fmt.Errorf("list customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if txs, err = s.txs.ListTransactions(gctx); err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	matched := core.FilterTransactions(txs, criteria)
	rows := make([]TransactionRow, 0, len(matched))
	for _, tx := range matched {
		row := transactionRow(tx)
		row.CustomerName = names[tx.CustomerID]
		rows = append(rows, row)
	}
	return rows, nil
}
