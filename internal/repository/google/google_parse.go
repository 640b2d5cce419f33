package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"controlpanel/internal/core"
)

// Column headers of the Customers tab. Lookup is case-insensitive and
// column order is free.
var customerColumns = []string{
	"id", "name", "company", "type", "email", "phone",
	"activityStatus", "accountStatus", "totalTransactions", "openingDate",
	"isAuthenticated", "lastLoginIp", "lastLoginLocation", "uploadedFiles",
	"activeServices", "address", "dob", "nationalId", "isCompanyAccount",
	"companyRegNumber", "taxNumber", "statsNumber", "companyAddress",
}

// Column headers of the Transactions tab.
var transactionColumns = []string{
	"id", "customerId", "dateTime", "type", "status", "paymentMethod",
	"amount", "amountPaid", "remainingAmount", "details",
}

// RowError reports a sheet row that could not be parsed. Row is 1-based
// as shown in the spreadsheet UI.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

type header map[string]int

func newHeader(row []interface{}) header {
	h := header{}
	for i, v := range toStrings(row) {
		key := strings.ToLower(v)
		if _, dup := h[key]; !dup && key != "" {
			h[key] = i
		}
	}
	return h
}

func (h header) index(name string) int {
	if i, ok := h[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

func (h header) get(row []string, name string) string {
	return safeGet(row, h.index(name))
}

// parseCustomers converts the Customers tab into records. The first row
// must be the header and must contain an id column. Malformed rows are
// skipped and reported in rowErrs.
func parseCustomers(sheet string, values [][]interface{}) (out []core.CustomerRecord, rowErrs []error, err error) {
	out = []core.CustomerRecord{}
	if len(values) == 0 {
		return out, nil, nil
	}
	h := newHeader(values[0])
	if h.index("id") == -1 {
		return nil, nil, fmt.Errorf("unexpected customers header: missing id; got headers=%v", toStrings(values[0]))
	}
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		r, err := customerFromRow(h, row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Sheet: sheet, Row: i + 1, Err: err})
			continue
		}
		out = append(out, r)
	}
	return out, rowErrs, nil
}

func customerFromRow(h header, row []string) (core.CustomerRecord, error) {
	id, err := strconv.ParseInt(h.get(row, "id"), 10, 64)
	if err != nil || id <= 0 {
		return core.CustomerRecord{}, fmt.Errorf("invalid id %q", h.get(row, "id"))
	}
	total := core.Money{}
	if raw := h.get(row, "totalTransactions"); raw != "" {
		total, err = core.ParseMoney(raw)
		if err != nil {
			return core.CustomerRecord{}, err
		}
	}
	return core.CustomerRecord{
		ID:                        id,
		Name:                      h.get(row, "name"),
		CompanyName:               h.get(row, "company"),
		Type:                      core.AccountType(h.get(row, "type")),
		Email:                     h.get(row, "email"),
		Phone:                     h.get(row, "phone"),
		ActivityStatus:            core.ActivityStatus(h.get(row, "activityStatus")),
		AccountStatus:             core.AccountStatus(h.get(row, "accountStatus")),
		TotalTransactions:         total,
		OpeningDate:               h.get(row, "openingDate"),
		IsAuthenticated:           parseBool(h.get(row, "isAuthenticated")),
		LastLoginIP:               h.get(row, "lastLoginIp"),
		LastLoginLocation:         h.get(row, "lastLoginLocation"),
		UploadedFiles:             parseFiles(h.get(row, "uploadedFiles")),
		ActiveServices:            splitList(h.get(row, "activeServices")),
		Address:                   h.get(row, "address"),
		DOB:                       h.get(row, "dob"),
		NationalID:                h.get(row, "nationalId"),
		IsCompanyAccount:          parseBool(h.get(row, "isCompanyAccount")),
		CompanyRegistrationNumber: h.get(row, "companyRegNumber"),
		CompanyTaxNumber:          h.get(row, "taxNumber"),
		CompanyStatsNumber:        h.get(row, "statsNumber"),
		CompanyAddress:            h.get(row, "companyAddress"),
	}, nil
}

// customerRow lays r out along the sheet header. Columns the header does
// not know are not written.
func customerRow(h header, width int, r core.CustomerRecord) []interface{} {
	row := make([]interface{}, width)
	for i := range row {
		row[i] = ""
	}
	set := func(name string, v string) {
		if i := h.index(name); i >= 0 && i < width {
			row[i] = v
		}
	}
	set("id", strconv.FormatInt(r.ID, 10))
	set("name", r.Name)
	set("company", r.CompanyName)
	set("type", string(r.Type))
	set("email", r.Email)
	set("phone", r.Phone)
	set("activityStatus", string(r.ActivityStatus))
	set("accountStatus", string(r.AccountStatus))
	set("totalTransactions", r.TotalTransactions.Display())
	set("openingDate", r.OpeningDate)
	set("isAuthenticated", strconv.FormatBool(r.IsAuthenticated))
	set("lastLoginIp", r.LastLoginIP)
	set("lastLoginLocation", r.LastLoginLocation)
	set("uploadedFiles", formatFiles(r.UploadedFiles))
	set("activeServices", strings.Join(r.ActiveServices, "; "))
	set("address", r.Address)
	set("dob", r.DOB)
	set("nationalId", r.NationalID)
	set("isCompanyAccount", strconv.FormatBool(r.IsCompanyAccount))
	set("companyRegNumber", r.CompanyRegistrationNumber)
	set("taxNumber", r.CompanyTaxNumber)
	set("statsNumber", r.CompanyStatsNumber)
	set("companyAddress", r.CompanyAddress)
	return row
}

// editedCustomerRow starts from the stored cells and overwrites only the
// editable columns, so gated cells stay as they are in the sheet.
func editedCustomerRow(h header, width int, existing []interface{}, c core.Customer) []interface{} {
	row := make([]interface{}, width)
	for i := range row {
		if i < len(existing) {
			row[i] = existing[i]
		} else {
			row[i] = ""
		}
	}
	set := func(name string, v string) {
		if i := h.index(name); i >= 0 && i < width {
			row[i] = v
		}
	}
	set("name", c.Name)
	set("type", string(c.Type))
	set("email", c.Email)
	set("phone", c.Phone)
	set("address", c.Address)
	set("activityStatus", string(c.ActivityStatus))
	set("accountStatus", string(c.AccountStatus))
	return row
}

// parseTransactions converts the Transactions tab. Same header and
// row-error rules as parseCustomers.
func parseTransactions(sheet string, values [][]interface{}) (out []core.Transaction, rowErrs []error, err error) {
	out = []core.Transaction{}
	if len(values) == 0 {
		return out, nil, nil
	}
	h := newHeader(values[0])
	var missing []string
	for _, col := range []string{"id", "customerId", "dateTime", "amount"} {
		if h.index(col) == -1 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("unexpected transactions header: missing %s; got headers=%v", strings.Join(missing, ","), toStrings(values[0]))
	}
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		tx, err := transactionFromRow(h, row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Sheet: sheet, Row: i + 1, Err: err})
			continue
		}
		out = append(out, tx)
	}
	return out, rowErrs, nil
}

func transactionFromRow(h header, row []string) (core.Transaction, error) {
	customerID, err := strconv.ParseInt(h.get(row, "customerId"), 10, 64)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid customerId %q", h.get(row, "customerId"))
	}
	when, err := time.Parse(time.RFC3339, h.get(row, "dateTime"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid dateTime %q", h.get(row, "dateTime"))
	}
	amounts := make([]core.Money, 3)
	for i, col := range []string{"amount", "amountPaid", "remainingAmount"} {
		raw := h.get(row, col)
		if raw == "" {
			continue
		}
		if amounts[i], err = core.ParseMoney(raw); err != nil {
			return core.Transaction{}, fmt.Errorf("%s: %w", col, err)
		}
	}
	method := core.PaymentMethod(h.get(row, "paymentMethod"))
	if method == "" {
		method = core.NoPaymentMethod
	}
	tx := core.Transaction{
		ID:              h.get(row, "id"),
		CustomerID:      customerID,
		DateTime:        when,
		Type:            core.TransactionType(h.get(row, "type")),
		Status:          core.TransactionStatus(h.get(row, "status")),
		PaymentMethod:   method,
		Amount:          amounts[0],
		AmountPaid:      amounts[1],
		RemainingAmount: amounts[2],
		Details:         h.get(row, "details"),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// findCustomerRow returns the 1-based sheet row holding id, or -1.
func findCustomerRow(values [][]interface{}, id int64) int {
	if len(values) == 0 {
		return -1
	}
	col := newHeader(values[0]).index("id")
	want := strconv.FormatInt(id, 10)
	for i := 1; i < len(values); i++ {
		if safeGet(toStrings(values[i]), col) == want {
			return i + 1
		}
	}
	return -1
}

// columnName turns a 0-based index into A1 notation: 0 -> A, 26 -> AA.
func columnName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "x":
		return true
	}
	return false
}

// splitList reads "a; b" cells. An empty cell yields nil.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFiles reads "name|url; name|url" cells. A missing url becomes "#".
func parseFiles(s string) []core.UploadedFile {
	var out []core.UploadedFile
	for _, item := range splitList(s) {
		name, url, _ := strings.Cut(item, "|")
		url = strings.TrimSpace(url)
		if url == "" {
			url = "#"
		}
		out = append(out, core.UploadedFile{Name: strings.TrimSpace(name), URL: url})
	}
	return out
}

func formatFiles(files []core.UploadedFile) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, f.Name+"|"+f.URL)
	}
	return strings.Join(parts, "; ")
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
