package services

import (
	"controlpanel/internal/core"
)

const dateTimeLayout = "2006-01-02 15:04"

// CustomerListItem is one row of the customer list.
type CustomerListItem struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	CompanyName        string     `json:"company,omitempty"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	TypeBadge          core.Badge `json:"type"`
	ActivityBadge      core.Badge `json:"activityStatus"`
	AccountStatusBadge core.Badge `json:"accountStatus"`
	TotalTransactions  string     `json:"totalTransactions"`
	OpeningDate        string     `json:"openingDate"`
}

// IdentityView is present only for verified customers.
type IdentityView struct {
	DOB        string `json:"dob"`
	NationalID string `json:"nationalId"`
}

// CompanyView is present only for company accounts.
type CompanyView struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	TaxNumber          string `json:"taxNumber"`
	StatsNumber        string `json:"statsNumber"`
	Address            string `json:"address"`
}

// TransactionRow is a transaction ready for display.
type TransactionRow struct {
	ID              string     `json:"id"`
	CustomerID      int64      `json:"customerId"`
	CustomerName    string     `json:"customerName,omitempty"`
	DateTime        string     `json:"dateTime"`
	Date            string     `json:"date"`
	TypeBadge       core.Badge `json:"type"`
	StatusBadge     core.Badge `json:"status"`
	MethodBadge     core.Badge `json:"paymentMethod"`
	Amount          string     `json:"amount"`
	AmountPaid      string     `json:"amountPaid"`
	RemainingAmount string     `json:"remainingAmount"`
	Details         string     `json:"details"`
	Unbalanced      bool       `json:"unbalanced"`
}

// CustomerDetail is the view-model of the customer detail page.
type CustomerDetail struct {
	ID                 int64               `json:"id"`
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone"`
	Address            string              `json:"address,omitempty"`
	TypeBadge          core.Badge          `json:"type"`
	ActivityBadge      core.Badge          `json:"activityStatus"`
	AccountStatusBadge core.Badge          `json:"accountStatus"`
	AuthBadge          core.Badge          `json:"authentication"`
	TotalTransactions  string              `json:"totalTransactions"`
	OpeningDate        string              `json:"openingDate"`
	LastLoginIP        string              `json:"lastLoginIp,omitempty"`
	LastLoginLocation  string              `json:"lastLoginLocation,omitempty"`
	Identity           *IdentityView       `json:"identity,omitempty"`
	Company            *CompanyView        `json:"company,omitempty"`
	UploadedFiles      []core.UploadedFile `json:"uploadedFiles"`
	ActiveServices     []string            `json:"activeServices"`
	Stats              QuickStats          `json:"stats"`
	Transactions       []TransactionRow    `json:"transactions"`
}

func customerListItem(c core.Customer) CustomerListItem {
	return CustomerListItem{
		ID:                 c.ID,
		Name:               c.Name,
		CompanyName:        c.CompanyName(),
		Email:              c.Email,
		Phone:              c.Phone,
		TypeBadge:          core.ClassifyAccountType(c.Type),
		ActivityBadge:      core.StatusBadge(string(c.ActivityStatus)),
		AccountStatusBadge: core.StatusBadge(string(c.AccountStatus)),
		TotalTransactions:  c.TotalTransactions.Display(),
		OpeningDate:        c.OpeningDate.String(),
	}
}

func transactionRow(tx core.Transaction) TransactionRow {
	return TransactionRow{
		ID:              tx.ID,
		CustomerID:      tx.CustomerID,
		DateTime:        tx.DateTime.UTC().Format(dateTimeLayout),
		Date:            tx.Day().Format("2006-01-02"),
		TypeBadge:       core.ClassifyTransactionType(tx.Type),
		StatusBadge:     core.StatusBadge(string(tx.Status)),
		MethodBadge:     core.ClassifyPaymentMethod(tx.PaymentMethod),
		Amount:          tx.Amount.Display(),
		AmountPaid:      tx.AmountPaid.Display(),
		RemainingAmount: tx.RemainingAmount.Display(),
		Details:         tx.Details,
		Unbalanced:      !tx.Balanced(),
	}
}

// BuildCustomerDetail assembles the detail view-model. Identity fields
// appear only for verified customers and the company block only for
// company accounts. Transactions are narrowed to c and sorted newest
// first.
func BuildCustomerDetail(c core.Customer, txs []core.Transaction, stats QuickStats) CustomerDetail {
	d := CustomerDetail{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		TypeBadge:          core.ClassifyAccountType(c.Type),
		ActivityBadge:      core.StatusBadge(string(c.ActivityStatus)),
		AccountStatusBadge: core.StatusBadge(string(c.AccountStatus)),
		AuthBadge:          core.ClassifyAuthentication(c.IsAuthenticated()),
		TotalTransactions:  c.TotalTransactions.Display(),
		OpeningDate:        c.OpeningDate.String(),
		LastLoginIP:        c.LastLoginIP,
		LastLoginLocation:  c.LastLoginLocation,
		UploadedFiles:      append([]core.UploadedFile{}, c.UploadedFiles...),
		ActiveServices:     append([]string{}, c.ActiveServices...),
		Stats:              stats,
	}

	switch id := c.Identity.(type) {
	case core.Verified:
		d.Identity = &IdentityView{DOB: id.DOB.String(), NationalID: id.NationalID}
	}
	switch co := c.Holder.(type) {
	case core.Company:
		d.Company = &CompanyView{
			Name:               co.Name,
			RegistrationNumber: co.RegistrationNumber,
			TaxNumber:          co.TaxNumber,
			StatsNumber:        co.StatsNumber,
			Address:            co.Address,
		}
	}

	mine := core.FilterTransactions(txs, core.TransactionCriteria{CustomerID: c.ID})
	mine = core.SortTransactionsByDate(mine, true)
	d.Transactions = make([]TransactionRow, 0, len(mine))
	for _, tx := range mine {
		d.Transactions = append(d.Transactions, transactionRow(tx))
	}
	return d
}
