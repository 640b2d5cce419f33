package services

import (
	"context"
	"fmt"
	"sort"

	"controlpanel/internal/core"
	"controlpanel/internal/repository"

	"golang.org/x/sync/errgroup"
)

// StatusCount is one bucket of a breakdown, in stable display order.
type StatusCount struct {
	Status string     `json:"status"`
	Badge  core.Badge `json:"badge"`
	Count  int        `json:"count"`
}

type DashboardSummary struct {
	Customers           int           `json:"customers"`
	ByAccountStatus     []StatusCount `json:"byAccountStatus"`
	ByActivityStatus    []StatusCount `json:"byActivityStatus"`
	Transactions        int           `json:"transactions"`
	ByTransactionStatus []StatusCount `json:"byTransactionStatus"`
	Outstanding         core.Money    `json:"outstanding"`
	OutstandingDisplay  string        `json:"outstandingDisplay"`
	Unbalanced          int           `json:"unbalanced"`
}

// Summarize computes the dashboard counts. Outstanding is the remaining
// amount of Pending and Draft transactions.
func Summarize(customers []core.Customer, txs []core.Transaction) DashboardSummary {
	account := map[string]int{}
	activity := map[string]int{}
	for _, c := range customers {
		account[string(c.AccountStatus)]++
		activity[string(c.ActivityStatus)]++
	}

	status := map[string]int{}
	outstanding := core.NewMoney(0)
	unbalanced := 0
	for _, tx := range txs {
		status[string(tx.Status)]++
		if tx.Status == core.Pending || tx.Status == core.Draft {
			outstanding = outstanding.Add(tx.RemainingAmount)
		}
		if !tx.Balanced() {
			unbalanced++
		}
	}

	return DashboardSummary{
		Customers:           len(customers),
		ByAccountStatus:     breakdown(account, toStrings(core.AccountStatuses())),
		ByActivityStatus:    breakdown(activity, toStrings(core.ActivityStatuses())),
		Transactions:        len(txs),
		ByTransactionStatus: breakdown(status, toStrings(core.TransactionStatuses())),
		Outstanding:         outstanding,
		OutstandingDisplay:  outstanding.Display(),
		Unbalanced:          unbalanced,
	}
}

// breakdown lists every known value in order, followed by any unknown
// values found in the data sorted by name.
func breakdown(counts map[string]int, known []string) []StatusCount {
	out := make([]StatusCount, 0, len(counts)+len(known))
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
		out = append(out, StatusCount{Status: k, Badge: core.StatusBadge(k), Count: counts[k]})
	}
	var extra []string
	for k := range counts {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, StatusCount{Status: k, Badge: core.StatusBadge(k), Count: counts[k]})
	}
	return out
}

func toStrings[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// DashboardService loads both datasets concurrently and summarizes them.
type DashboardService struct {
	customers repository.CustomerLister
	txs       repository.TransactionLister
}

func NewDashboardService(customers repository.CustomerLister, txs repository.TransactionLister) *DashboardService {
	return &DashboardService{customers: customers, txs: txs}
}

func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
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
		return DashboardSummary{}, err
	}
	return Summarize(customers, txs), nil
}
