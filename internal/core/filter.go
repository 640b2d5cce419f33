package core

import (
	"sort"
	"strings"
	"time"
)

// CustomerCriteria narrows the customer list. Empty or "All" values
// disable the matching criterion.
type CustomerCriteria struct {
	SearchText    string
	AccountStatus string
	AccountType   string
}

// TransactionCriteria narrows the transaction list. Date is YYYY-MM-DD;
// a value that does not parse is ignored.
type TransactionCriteria struct {
	SearchText string
	Status     string
	Date       string
	Type       string
	CustomerID int64
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == FilterAll
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// FilterCustomers returns the customers matching every active criterion,
// in input order. The result is never nil.
func FilterCustomers(all []Customer, c CustomerCriteria) []Customer {
	needle := strings.ToLower(strings.TrimSpace(c.SearchText))
	out := make([]Customer, 0, len(all))
	for _, cust := range all {
		if needle != "" && !customerMatchesText(cust, needle) {
			continue
		}
		if !isAll(c.AccountStatus) && string(cust.AccountStatus) != c.AccountStatus {
			continue
		}
		if !isAll(c.AccountType) && string(cust.Type) != c.AccountType {
			continue
		}
		out = append(out, cust)
	}
	return out
}

func customerMatchesText(c Customer, needle string) bool {
	if containsFold(c.Name, needle) || containsFold(c.Email, needle) || containsFold(c.Phone, needle) {
		return true
	}
	if name := c.CompanyName(); name != "" && containsFold(name, needle) {
		return true
	}
	return false
}

// FilterTransactions returns the transactions matching every active
// criterion, in input order. The result is never nil.
func FilterTransactions(all []Transaction, c TransactionCriteria) []Transaction {
	needle := strings.ToLower(strings.TrimSpace(c.SearchText))
	day, hasDay := parseFilterDay(c.Date)
	out := make([]Transaction, 0, len(all))
	for _, tx := range all {
		if c.CustomerID > 0 && tx.CustomerID != c.CustomerID {
			continue
		}
		if needle != "" && !transactionMatchesText(tx, needle) {
			continue
		}
		if !isAll(c.Status) && string(tx.Status) != c.Status {
			continue
		}
		if !isAll(c.Type) && string(tx.Type) != c.Type {
			continue
		}
		if hasDay && !tx.Day().Equal(day) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func transactionMatchesText(tx Transaction, needle string) bool {
	return containsFold(tx.ID, needle) ||
		containsFold(tx.Details, needle) ||
		containsFold(tx.Amount.Display(), needle)
}

func parseFilterDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return midnightUTC(t), true
}

// SortTransactionsByDate returns a sorted copy of txs. Ties keep input order.
func SortTransactionsByDate(txs []Transaction, desc bool) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}
