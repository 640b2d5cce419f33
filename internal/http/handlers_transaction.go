package http

import (
	"net/http"

	"controlpanel/internal/core"
	applog "controlpanel/internal/log"
	"controlpanel/internal/services"
)

// transactionTable feeds the shared transaction table partial.
// ShowCustomer adds the customer column on the ledger page.
type transactionTable struct {
	Rows         []services.TransactionRow
	ShowCustomer bool
}

type transactionListView struct {
	Query    string
	Date     string
	Statuses []filterOption
	Types    []filterOption
	Table    transactionTable
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	criteria := ParseTransactionCriteria(r.URL.Query())
	rows, err := s.transactions.List(r.Context(), criteria)
	if err != nil {
		s.serverError(w, r, "Transaction list failed", err)
		return
	}
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Transactions filtered",
		applog.NewFields().
			WithFilter(criteria.SearchText, criteria.Status, criteria.Type, criteria.Date).
			WithResultCount(len(rows)).
			WithOperation(applog.OpFilter).ToSlice()...)

	table := transactionTable{Rows: rows, ShowCustomer: true}
	if isHTMX(r) {
		s.render(w, r, http.StatusOK, "transactions", "transaction_table",
			pageData{Data: table})
		return
	}
	s.render(w, r, http.StatusOK, "transactions", "", pageData{
		Title: "Transactions",
		Nav:   "transactions",
		Data: transactionListView{
			Query:    criteria.SearchText,
			Date:     criteria.Date,
			Statuses: options(core.TransactionStatuses(), criteria.Status),
			Types:    options(core.TransactionTypes(), criteria.Type),
			Table:    table,
		},
	})
}

func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.transactions.List(r.Context(), ParseTransactionCriteria(r.URL.Query()))
	if err != nil {
		s.structured.LogError(r.Context(), "Transaction list failed", err, applog.ComponentLedger, applog.OpList, nil)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
