package services

import (
	"context"
	"errors"
	"testing"

	"controlpanel/internal/core"
	"controlpanel/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countOf(t *testing.T, counts []StatusCount, status string) int {
	t.Helper()
	for _, c := range counts {
		if c.Status == status {
			return c.Count
		}
	}
	t.Fatalf("status %q missing from breakdown", status)
	return 0
}

func TestSummarize_SampleData(t *testing.T) {
	s := Summarize(core.SampleCustomers(), core.SampleTransactions())

	assert.Equal(t, 5, s.Customers)
	assert.Equal(t, 13, s.Transactions)
	assert.Equal(t, 2, countOf(t, s.ByAccountStatus, "Activated"))
	assert.Equal(t, 1, countOf(t, s.ByAccountStatus, "Blocked"))
	assert.Equal(t, 0, countOf(t, s.ByAccountStatus, "Deactivated"))
	assert.Equal(t, 4, countOf(t, s.ByActivityStatus, "Active"))
	assert.Equal(t, 1, countOf(t, s.ByActivityStatus, "Inactive"))
	assert.Equal(t, 8, countOf(t, s.ByTransactionStatus, "Paid"))
	assert.Equal(t, 2, countOf(t, s.ByTransactionStatus, "Refunded"))

	assert.True(t, s.Outstanding.Equal(core.NewMoney(110000)), s.Outstanding.String())
	assert.Equal(t, "110 000 DA", s.OutstandingDisplay)
	assert.Equal(t, 0, s.Unbalanced)

	// known values keep display order
	assert.Equal(t, "Activated", s.ByAccountStatus[0].Status)
	assert.Equal(t, core.Positive, s.ByAccountStatus[0].Badge.Category)
}

func TestSummarize_UnknownAndUnbalanced(t *testing.T) {
	txs := []core.Transaction{
		{ID: "X-1", Status: "Disputed", Amount: core.NewMoney(100), AmountPaid: core.NewMoney(10), RemainingAmount: core.NewMoney(10)},
		{ID: "X-2", Status: core.Draft, Amount: core.NewMoney(50), RemainingAmount: core.NewMoney(50)},
	}
	s := Summarize(nil, txs)

	assert.Equal(t, 0, s.Customers)
	assert.Equal(t, 1, s.Unbalanced)
	assert.Equal(t, "Disputed", s.ByTransactionStatus[len(s.ByTransactionStatus)-1].Status)
	assert.Equal(t, core.Neutral, s.ByTransactionStatus[len(s.ByTransactionStatus)-1].Badge.Category)
	assert.Equal(t, "50 DA", s.OutstandingDisplay)
}

type failingLister struct{}

func (failingLister) ListCustomers(context.Context) ([]core.Customer, error) {
	return nil, errors.New("sheet unavailable")
}

func TestDashboardService_Summary(t *testing.T) {
	store := memory.NewSample()

	s, err := NewDashboardService(store, store).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, s.Customers)

	_, err = NewDashboardService(failingLister{}, store).Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet unavailable")
}

func TestTransactionService_List(t *testing.T) {
	store := memory.NewSample()
	svc := NewTransactionService(store, store)
	ctx := context.Background()

	rows, err := svc.List(ctx, core.TransactionCriteria{CustomerID: 1, Status: "Paid"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-001", rows[0].ID)
	assert.Equal(t, "PAY-001", rows[1].ID)
	assert.Equal(t, "Alice Wonderland", rows[0].CustomerName)
	assert.Equal(t, "5 000 DA", rows[0].Amount)
	assert.Equal(t, core.CIBCategory, rows[0].MethodBadge.Category)
	assert.Equal(t, "2024-07-26 10:30", rows[0].DateTime)

	all, err := svc.List(ctx, core.TransactionCriteria{Status: core.FilterAll, Type: core.FilterAll})
	require.NoError(t, err)
	assert.Len(t, all, 13)

	refunds, err := svc.List(ctx, core.TransactionCriteria{Type: string(core.PaymentReceipt), Status: string(core.Refunded)})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, "-500 DA", refunds[0].Amount)

	byDay, err := svc.List(ctx, core.TransactionCriteria{Date: "2024-07-15"})
	require.NoError(t, err)
	assert.Len(t, byDay, 2)

	badDay, err := svc.List(ctx, core.TransactionCriteria{Date: "15/07/2024"})
	require.NoError(t, err)
	assert.Len(t, badDay, 13)

	none, err := svc.List(ctx, core.TransactionCriteria{SearchText: "zzz"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
