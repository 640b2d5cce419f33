package http

import (
	"net/url"
	"testing"

	"controlpanel/internal/core"
)

func TestParseCustomerCriteria(t *testing.T) {
	got := ParseCustomerCriteria(url.Values{"q": {"  alice\x00 "}, "status": {"Blocked"}, "type": {"All"}})
	want := core.CustomerCriteria{SearchText: "alice", AccountStatus: "Blocked", AccountType: "All"}
	if got != want {
		t.Errorf("ParseCustomerCriteria() = %+v, want %+v", got, want)
	}

	if got := ParseCustomerCriteria(url.Values{}); got != (core.CustomerCriteria{}) {
		t.Errorf("empty query should give zero criteria, got %+v", got)
	}
}

func TestParseTransactionCriteria(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  core.TransactionCriteria
	}{
		{
			name:  "all values",
			query: url.Values{"q": {"hosting"}, "status": {"Paid"}, "date": {"2024-07-15"}, "type": {"Invoice"}, "customer": {"2"}},
			want:  core.TransactionCriteria{SearchText: "hosting", Status: "Paid", Date: "2024-07-15", Type: "Invoice", CustomerID: 2},
		},
		{
			name:  "bad customer ignored",
			query: url.Values{"customer": {"two"}},
			want:  core.TransactionCriteria{},
		},
		{
			name:  "negative customer ignored",
			query: url.Values{"customer": {"-4"}},
			want:  core.TransactionCriteria{},
		},
		{
			name:  "malformed date kept for the filter to ignore",
			query: url.Values{"date": {"15/07/2024"}},
			want:  core.TransactionCriteria{Date: "15/07/2024"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTransactionCriteria(tt.query); got != tt.want {
				t.Errorf("ParseTransactionCriteria() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseCustomerPatch(t *testing.T) {
	p := ParseCustomerPatch(url.Values{
		"name":          {" Bob "},
		"email":         {""},
		"accountStatus": {"Blocked"},
	})

	if p.Name == nil || *p.Name != "Bob" {
		t.Errorf("Name = %v, want Bob", p.Name)
	}
	if p.Email == nil || *p.Email != "" {
		t.Errorf("present but empty email should give an empty value, got %v", p.Email)
	}
	if p.Phone != nil || p.Address != nil || p.Type != nil || p.ActivityStatus != nil {
		t.Error("absent fields must stay nil")
	}
	if p.AccountStatus == nil || *p.AccountStatus != core.Blocked {
		t.Errorf("AccountStatus = %v, want Blocked", p.AccountStatus)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v; want %d, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput(" a\x01b\tc\n "); got != "ab\tc" {
		t.Errorf("sanitizeInput() = %q", got)
	}
}
