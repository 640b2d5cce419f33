package google

import (
	"errors"
	"testing"

	"controlpanel/internal/core"
)

func row(vals ...interface{}) []interface{} { return vals }

func TestParseCustomers(t *testing.T) {
	values := [][]interface{}{
		row("ID", "Name", "Company", "Type", "Email", "Phone", "ActivityStatus", "AccountStatus",
			"TotalTransactions", "OpeningDate", "IsAuthenticated", "DOB", "NationalId", "IsCompanyAccount",
			"CompanyRegNumber", "ActiveServices", "UploadedFiles"),
		row("4", "Diana Prince", "Themyscira Exports", "Regular Account", "diana@themyscira.com", "+1-555-3456",
			"Active", "Blocked", "500 DA", "2024-01-10", "TRUE", "1978-03-10", "THM112233445", "TRUE",
			"TE-REG-777", "Secure Storage", "passport.pdf|#"),
		row(),
		row("x", "Broken"),
		row(3, "Charlie Chaplin", "", "Regular Account", "charlie@silent.org", "+1-555-9012",
			"Inactive", "Unsubscribed", "5 000 DA", "2023-05-20", "FALSE", "1950-01-01", "SHOULD-DROP", "FALSE"),
	}

	got, rowErrs, err := parseCustomers("Customers", values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 row error, got %v", rowErrs)
	}
	var re RowError
	if !errors.As(rowErrs[0], &re) || re.Row != 4 {
		t.Fatalf("expected RowError at row 4, got %v", rowErrs[0])
	}

	diana, err := got[0].ToCustomer()
	if err != nil {
		t.Fatalf("ToCustomer: %v", err)
	}
	if diana.AccountStatus != core.Blocked || diana.CompanyName() != "Themyscira Exports" || !diana.IsAuthenticated() {
		t.Fatalf("unexpected diana: %+v", diana)
	}
	if diana.TotalTransactions.Display() != "500 DA" {
		t.Fatalf("unexpected total: %s", diana.TotalTransactions.Display())
	}
	if len(diana.UploadedFiles) != 1 || diana.UploadedFiles[0].Name != "passport.pdf" {
		t.Fatalf("unexpected files: %+v", diana.UploadedFiles)
	}

	charlie, _ := got[1].ToCustomer()
	if charlie.IsAuthenticated() || charlie.ActiveServices != nil {
		t.Fatalf("unexpected charlie: %+v", charlie)
	}
}

func TestParseCustomersRequiresIDColumn(t *testing.T) {
	_, _, err := parseCustomers("Customers", [][]interface{}{row("Name", "Email")})
	if err == nil {
		t.Fatal("expected header error")
	}
	got, _, err := parseCustomers("Customers", nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty sheet should yield empty list, got %v err=%v", got, err)
	}
}

func TestParseTransactions(t *testing.T) {
	values := [][]interface{}{
		row("id", "customerId", "dateTime", "type", "status", "paymentMethod", "amount", "amountPaid", "remainingAmount", "details"),
		row("PAY-005", "1", "2024-08-15T11:05:00Z", "Payment Receipt", "Refunded", "CIB Card", "-500", "-500", "0", "Refund"),
		row("INV-002", 1, "2024-08-01T14:00:00Z", "Invoice", "Pending", "", 10000, 0, 10000, "Domain"),
		row("BAD-1", "1", "yesterday", "Invoice", "Paid", "Cash", "1", "1", "0", ""),
		row("BAD-2", "1", "2024-08-01T14:00:00Z", "Quote", "Paid", "Cash", "1", "1", "0", ""),
	}
	got, rowErrs, err := parseTransactions("Transactions", values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || len(rowErrs) != 2 {
		t.Fatalf("expected 2 parsed and 2 errors, got %d and %v", len(got), rowErrs)
	}
	if !got[0].Amount.Equal(core.NewMoney(-500)) || !got[0].Balanced() {
		t.Fatalf("unexpected refund: %+v", got[0])
	}
	if got[1].PaymentMethod != core.NoPaymentMethod {
		t.Fatalf("empty method should default to N/A, got %q", got[1].PaymentMethod)
	}
	if !errors.Is(rowErrs[1], core.ErrUnknownTxType) {
		t.Fatalf("expected unknown type error, got %v", rowErrs[1])
	}
}

func TestParseTransactionsMissingColumns(t *testing.T) {
	_, _, err := parseTransactions("Transactions", [][]interface{}{row("id", "details")})
	if err == nil {
		t.Fatal("expected header error")
	}
}

func TestCustomerRowRoundTrip(t *testing.T) {
	headerRow := make([]interface{}, len(customerColumns))
	for i, c := range customerColumns {
		headerRow[i] = c
	}
	h := newHeader(headerRow)

	for _, want := range core.SampleCustomerRecords() {
		values := [][]interface{}{headerRow, customerRow(h, len(headerRow), want)}
		got, rowErrs, err := parseCustomers("Customers", values)
		if err != nil || len(rowErrs) > 0 || len(got) != 1 {
			t.Fatalf("%s: parse failed: %v %v", want.Name, err, rowErrs)
		}
		a, _ := want.ToCustomer()
		b, _ := got[0].ToCustomer()
		if core.FromCustomer(a).Name != core.FromCustomer(b).Name ||
			a.CompanyName() != b.CompanyName() ||
			a.IsAuthenticated() != b.IsAuthenticated() ||
			!a.TotalTransactions.Equal(b.TotalTransactions) ||
			len(a.ActiveServices) != len(b.ActiveServices) ||
			len(a.UploadedFiles) != len(b.UploadedFiles) {
			t.Fatalf("%s: round trip mismatch:\nwant %+v\ngot  %+v", want.Name, a, b)
		}
	}
}

func TestFindCustomerRow(t *testing.T) {
	values := [][]interface{}{row("name", "id"), row("a", "7"), row("b", "9")}
	if got := findCustomerRow(values, 9); got != 3 {
		t.Fatalf("expected row 3, got %d", got)
	}
	if got := findCustomerRow(values, 1); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := findCustomerRow(nil, 1); got != -1 {
		t.Fatalf("expected -1 for empty sheet, got %d", got)
	}
}

func TestColumnName(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for in, want := range cases {
		if got := columnName(in); got != want {
			t.Errorf("columnName(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestCellHelpers(t *testing.T) {
	if !parseBool("TRUE") || !parseBool(" yes ") || parseBool("no") || parseBool("") {
		t.Fatal("parseBool mismatch")
	}
	if got := splitList(" a ;; b ;"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitList: %v", got)
	}
	if splitList("") != nil {
		t.Fatal("splitList of empty cell should be nil")
	}
	files := parseFiles("id.pdf|/f/1; scan.jpg")
	if len(files) != 2 || files[0].URL != "/f/1" || files[1].URL != "#" {
		t.Fatalf("parseFiles: %+v", files)
	}
	if formatFiles(files) != "id.pdf|/f/1; scan.jpg|#" {
		t.Fatalf("formatFiles: %q", formatFiles(files))
	}
}

func TestEditedCustomerRowKeepsGatedCells(t *testing.T) {
	headerRow := row("id", "name", "phone", "isAuthenticated", "dob", "nationalId", "isCompanyAccount", "company", "notes")
	stored := row("6", "Pending Owner", "+1-555-0600", "FALSE", "1990-01-01", "NID-6", "FALSE", "Pending Co", "vip")
	// flags are off, so the customer carries no identity or company
	c := core.Customer{ID: 6, Name: "Pending Owner", Phone: "+1-555-0601", Identity: core.Anonymous{}, Holder: core.Individual{}}

	got := toStrings(editedCustomerRow(newHeader(headerRow), len(headerRow), stored, c))
	want := []string{"6", "Pending Owner", "+1-555-0601", "FALSE", "1990-01-01", "NID-6", "FALSE", "Pending Co", "vip"}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d (%v): want %q, got %q", i, headerRow[i], want[i], got[i])
		}
	}
}

func TestEditedCustomerRowPadsShortRows(t *testing.T) {
	headerRow := row("id", "name", "email", "address")
	c := core.Customer{ID: 2, Name: "Bob", Email: "bob@example.com", Address: "1 Main St"}

	got := toStrings(editedCustomerRow(newHeader(headerRow), len(headerRow), row("2", "Bob"), c))
	if len(got) != 4 || got[0] != "2" || got[2] != "bob@example.com" || got[3] != "1 Main St" {
		t.Fatalf("unexpected row: %q", got)
	}
}
