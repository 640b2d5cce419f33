// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for the customer quick stats.
// Each counter (payments, activity cases, tickets) is a PeriodCounter so
// that placeholder figures and computed ones are interchangeable.

package services

import (
	"fmt"
	"time"

	"controlpanel/internal/core"
)

// Period is an inclusive time window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LastMonth returns the 30 days ending at ref.
func LastMonth(ref time.Time) Period {
	return Period{Start: ref.AddDate(0, 0, -30), End: ref}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// PeriodCounter is the strategy interface behind each quick stat.
type PeriodCounter interface {
	Count(c core.Customer, txs []core.Transaction, p Period) int
}

// PaidReceiptsCounter counts the customer's paid payment receipts in the period.
type PaidReceiptsCounter struct{}

func (PaidReceiptsCounter) Count(c core.Customer, txs []core.Transaction, p Period) int {
	n := 0
	mine := core.FilterTransactions(txs, core.TransactionCriteria{
		CustomerID: c.ID,
		Status:     string(core.Paid),
		Type:       string(core.PaymentReceipt),
	})
	for _, tx := range mine {
		if p.Contains(tx.DateTime) {
			n++
		}
	}
	return n
}

// StaticCounter returns a fixed value per customer id, 0 for unknown ids.
type StaticCounter map[int64]int

func (s StaticCounter) Count(c core.Customer, _ []core.Transaction, _ Period) int {
	return s[c.ID]
}

// StatsSources selects a counter per stat. A nil counter yields 0.
type StatsSources struct {
	Payments      PeriodCounter
	ActivityCases PeriodCounter
	TicketsOpened PeriodCounter
}

type QuickStats struct {
	Period                  Period `json:"period"`
	PaymentsLastPeriod      int    `json:"paymentsLastPeriod"`
	ActivityCasesLastPeriod int    `json:"activityCasesLastPeriod"`
	TicketsOpenedLastPeriod int    `json:"ticketsOpenedLastPeriod"`
	ActiveServiceCount      int    `json:"activeServiceCount"`
}

// ComputeQuickStats derives the quick stats for c. ActiveServiceCount is
// always the number of active services.
func ComputeQuickStats(c core.Customer, txs []core.Transaction, p Period, src StatsSources) QuickStats {
	count := func(pc PeriodCounter) int {
		if pc == nil {
			return 0
		}
		return pc.Count(c, txs, p)
	}
	return QuickStats{
		Period:                  p,
		PaymentsLastPeriod:      count(src.Payments),
		ActivityCasesLastPeriod: count(src.ActivityCases),
		TicketsOpenedLastPeriod: count(src.TicketsOpened),
		ActiveServiceCount:      len(c.ActiveServices),
	}
}

const (
	StatsComputed    = "computed"
	StatsPlaceholder = "placeholder"
)

// statsSources maps source names to their counter sets.
var statsSources = map[string]StatsSources{
	// Payments come from the ledger. There is no ticketing or activity
	// data source yet, so those stay on the placeholder figures.
	StatsComputed: {
		Payments:      PaidReceiptsCounter{},
		ActivityCases: StaticCounter{1: 1, 2: 5},
		TicketsOpened: StaticCounter{1: 0, 2: 2},
	},
	StatsPlaceholder: {
		Payments:      StaticCounter{1: 3, 2: 12},
		ActivityCases: StaticCounter{1: 1, 2: 5},
		TicketsOpened: StaticCounter{1: 0, 2: 2},
	},
}

// GetStatsSources returns the named counter set.
func GetStatsSources(name string) (StatsSources, error) {
	src, ok := statsSources[name]
	if !ok {
		return StatsSources{}, fmt.Errorf("unknown stats source: %s", name)
	}
	return src, nil
}
