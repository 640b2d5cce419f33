package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet", ServiceAccountFile: path})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestNew_InvalidCredentialsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), Config{SpreadsheetID: "sheet", ServiceAccountFile: path}); err == nil {
		t.Fatal("expected error for invalid credentials")
	}
}

func TestDefaultSheetNames(t *testing.T) {
	c := newClient(nil, Config{SpreadsheetID: " id "})
	if c.customersSheet != "Customers" || c.transactionsSheet != "Transactions" || c.spreadsheetID != "id" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	c = newClient(nil, Config{SpreadsheetID: "id", CustomersSheet: "Clients", TransactionsSheet: "Ledger"})
	if c.customersSheet != "Clients" || c.transactionsSheet != "Ledger" {
		t.Fatalf("custom names ignored: %+v", c)
	}
}

func TestUninitializedServiceFails(t *testing.T) {
	c := newClient(nil, Config{SpreadsheetID: "id"})
	ctx := context.Background()
	if _, err := c.ListCustomers(ctx); err == nil {
		t.Fatal("expected error without service")
	}
	if _, err := c.ListTransactions(ctx); err == nil {
		t.Fatal("expected error without service")
	}
	if err := c.EnsureHeaders(ctx); err == nil {
		t.Fatal("expected error without service")
	}
}
