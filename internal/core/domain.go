package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DeveloperAccount AccountType = "Developer Account"
	RegularAccount   AccountType = "Regular Account"

	Active   ActivityStatus = "Active"
	Inactive ActivityStatus = "Inactive"

	Activated    AccountStatus = "Activated"
	Deactivated  AccountStatus = "Deactivated"
	Blocked      AccountStatus = "Blocked"
	Subscribed   AccountStatus = "Subscribed"
	Unsubscribed AccountStatus = "Unsubscribed"

	Invoice        TransactionType = "Invoice"
	PaymentReceipt TransactionType = "Payment Receipt"

	Draft    TransactionStatus = "Draft"
	Paid     TransactionStatus = "Paid"
	Pending  TransactionStatus = "Pending"
	Canceled TransactionStatus = "Canceled"
	Refunded TransactionStatus = "Refunded"

	Cash            PaymentMethod = "Cash"
	CIBCard         PaymentMethod = "CIB Card"
	EdahabiaCard    PaymentMethod = "EDAHABIA Card"
	NoPaymentMethod PaymentMethod = "N/A"
)

// FilterAll disables an equality criterion.
const FilterAll = "All"

const dateLayout = "2006-01-02"

type (
	AccountType       string
	ActivityStatus    string
	AccountStatus     string
	TransactionType   string
	TransactionStatus string
	PaymentMethod     string

	Date struct {
		time.Time
	}

	UploadedFile struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	// Identity is either Anonymous or Verified. Only verified customers
	// carry date of birth and national id.
	Identity interface {
		identity()
	}

	Anonymous struct{}

	Verified struct {
		DOB        Date
		NationalID string
	}

	// Holder is either Individual or Company. Registration and tax
	// numbers exist only on company accounts.
	Holder interface {
		holder()
	}

	Individual struct{}

	Company struct {
		Name               string
		RegistrationNumber string
		TaxNumber          string
		StatsNumber        string
		Address            string
	}

	Customer struct {
		ID                int64
		Name              string
		Type              AccountType
		Email             string
		Phone             string
		ActivityStatus    ActivityStatus
		AccountStatus     AccountStatus
		TotalTransactions Money
		OpeningDate       Date
		Identity          Identity
		Holder            Holder
		LastLoginIP       string
		LastLoginLocation string
		UploadedFiles     []UploadedFile
		ActiveServices    []string
		Address           string
	}

	Transaction struct {
		ID              string            `json:"id"`
		CustomerID      int64             `json:"customerId"`
		DateTime        time.Time         `json:"dateTime"`
		Type            TransactionType   `json:"type"`
		Status          TransactionStatus `json:"status"`
		PaymentMethod   PaymentMethod     `json:"paymentMethod"`
		Amount          Money             `json:"amount"`
		AmountPaid      Money             `json:"amountPaid"`
		RemainingAmount Money             `json:"remainingAmount"`
		Details         string            `json:"details"`
	}
)

func (Anonymous) identity() {}
func (Verified) identity()  {}
func (Individual) holder()  {}
func (Company) holder()     {}

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrEmptyName             = errors.New("empty name")
	ErrInvalidEmail          = errors.New("invalid email")
	ErrUnknownAccountType    = errors.New("unknown account type")
	ErrUnknownActivityStatus = errors.New("unknown activity status")
	ErrUnknownAccountStatus  = errors.New("unknown account status")
	ErrInvalidCustomerID     = errors.New("invalid customer id")
	ErrEmptyTransactionID    = errors.New("empty transaction id")
	ErrUnknownTxType         = errors.New("unknown transaction type")
	ErrUnknownTxStatus       = errors.New("unknown transaction status")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
)

func AccountTypes() []AccountType { return []AccountType{DeveloperAccount, RegularAccount} }

func ActivityStatuses() []ActivityStatus { return []ActivityStatus{Active, Inactive} }

func AccountStatuses() []AccountStatus {
	return []AccountStatus{Activated, Deactivated, Blocked, Subscribed, Unsubscribed}
}

func TransactionTypes() []TransactionType { return []TransactionType{Invoice, PaymentReceipt} }

func TransactionStatuses() []TransactionStatus {
	return []TransactionStatus{Draft, Paid, Pending, Canceled, Refunded}
}

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{Cash, CIBCard, EdahabiaCard, NoPaymentMethod}
}

func (t AccountType) Valid() bool {
	return t == DeveloperAccount || t == RegularAccount
}

func (s ActivityStatus) Valid() bool {
	return s == Active || s == Inactive
}

func (s AccountStatus) Valid() bool {
	switch s {
	case Activated, Deactivated, Blocked, Subscribed, Unsubscribed:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Invoice || t == PaymentReceipt
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case Draft, Paid, Pending, Canceled, Refunded:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case Cash, CIBCard, EdahabiaCard, NoPaymentMethod:
		return true
	}
	return false
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// IsAuthenticated reports whether identity fields may be disclosed.
func (c Customer) IsAuthenticated() bool {
	_, ok := c.Identity.(Verified)
	return ok
}

// IsCompanyAccount reports whether the customer carries company metadata.
func (c Customer) IsCompanyAccount() bool {
	_, ok := c.Holder.(Company)
	return ok
}

// CompanyName returns the company name, or "" for individual accounts.
func (c Customer) CompanyName() string {
	if co, ok := c.Holder.(Company); ok {
		return co.Name
	}
	return ""
}

// Clone returns a copy that shares no slices with c.
func (c Customer) Clone() Customer {
	out := c
	if c.UploadedFiles != nil {
		out.UploadedFiles = append([]UploadedFile(nil), c.UploadedFiles...)
	}
	if c.ActiveServices != nil {
		out.ActiveServices = append([]string(nil), c.ActiveServices...)
	}
	return out
}

func (c Customer) Validate() error {
	if c.ID <= 0 {
		return ErrInvalidCustomerID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if at := strings.Index(c.Email, "@"); at <= 0 || at == len(c.Email)-1 {
		return ErrInvalidEmail
	}
	if !c.Type.Valid() {
		return ErrUnknownAccountType
	}
	if !c.ActivityStatus.Valid() {
		return ErrUnknownActivityStatus
	}
	if !c.AccountStatus.Valid() {
		return ErrUnknownAccountStatus
	}
	return nil
}

// Balanced reports whether Amount equals AmountPaid plus RemainingAmount.
// The relation is informative only and never enforced on load.
func (t Transaction) Balanced() bool {
	return t.Amount.Equal(t.AmountPaid.Add(t.RemainingAmount))
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyTransactionID
	}
	if t.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if !t.Type.Valid() {
		return ErrUnknownTxType
	}
	if !t.Status.Valid() {
		return ErrUnknownTxStatus
	}
	if !t.PaymentMethod.Valid() {
		return ErrUnknownPaymentMethod
	}
	return nil
}

// Day returns the transaction date truncated to midnight UTC.
func (t Transaction) Day() time.Time {
	return midnightUTC(t.DateTime)
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
