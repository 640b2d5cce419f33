package core

import "fmt"

// CustomerRecord is the flat shape customers are stored in: JSON seed
// files, sqlite rows and sheet rows. Flags gate which optional fields
// are meaningful.
type CustomerRecord struct {
	ID                        int64          `json:"id"`
	Name                      string         `json:"name"`
	CompanyName               string         `json:"company,omitempty"`
	Type                      AccountType    `json:"type"`
	Email                     string         `json:"email"`
	Phone                     string         `json:"phone"`
	ActivityStatus            ActivityStatus `json:"activityStatus"`
	AccountStatus             AccountStatus  `json:"accountStatus"`
	TotalTransactions         Money          `json:"totalTransactions"`
	OpeningDate               string         `json:"openingDate"`
	IsAuthenticated           bool           `json:"isAuthenticated"`
	LastLoginIP               string         `json:"lastLoginIp,omitempty"`
	LastLoginLocation         string         `json:"lastLoginLocation,omitempty"`
	UploadedFiles             []UploadedFile `json:"uploadedFiles,omitempty"`
	ActiveServices            []string       `json:"activeServices,omitempty"`
	Address                   string         `json:"address,omitempty"`
	DOB                       string         `json:"dob,omitempty"`
	NationalID                string         `json:"nationalId,omitempty"`
	IsCompanyAccount          bool           `json:"isCompanyAccount"`
	CompanyRegistrationNumber string         `json:"companyRegNumber,omitempty"`
	CompanyTaxNumber          string         `json:"taxNumber,omitempty"`
	CompanyStatsNumber        string         `json:"statsNumber,omitempty"`
	CompanyAddress            string         `json:"companyAddress,omitempty"`
}

// ToCustomer converts the record into its variant form. Identity fields
// are dropped unless IsAuthenticated is set, company fields unless
// IsCompanyAccount is set.
func (r CustomerRecord) ToCustomer() (Customer, error) {
	opened, err := ParseDate(r.OpeningDate)
	if err != nil {
		return Customer{}, fmt.Errorf("customer %d opening date: %w", r.ID, err)
	}
	c := Customer{
		ID:                r.ID,
		Name:              r.Name,
		Type:              r.Type,
		Email:             r.Email,
		Phone:             r.Phone,
		ActivityStatus:    r.ActivityStatus,
		AccountStatus:     r.AccountStatus,
		TotalTransactions: r.TotalTransactions,
		OpeningDate:       opened,
		Identity:          Anonymous{},
		Holder:            Individual{},
		LastLoginIP:       r.LastLoginIP,
		LastLoginLocation: r.LastLoginLocation,
		UploadedFiles:     r.UploadedFiles,
		ActiveServices:    r.ActiveServices,
		Address:           r.Address,
	}
	if r.IsAuthenticated {
		dob, err := ParseDate(r.DOB)
		if err != nil {
			return Customer{}, fmt.Errorf("customer %d dob: %w", r.ID, err)
		}
		c.Identity = Verified{DOB: dob, NationalID: r.NationalID}
	}
	if r.IsCompanyAccount {
		c.Holder = Company{
			Name:               r.CompanyName,
			RegistrationNumber: r.CompanyRegistrationNumber,
			TaxNumber:          r.CompanyTaxNumber,
			StatsNumber:        r.CompanyStatsNumber,
			Address:            r.CompanyAddress,
		}
	}
	return c.Clone(), nil
}

// FromCustomer flattens c back into a record.
func FromCustomer(c Customer) CustomerRecord {
	c = c.Clone()
	r := CustomerRecord{
		ID:                c.ID,
		Name:              c.Name,
		Type:              c.Type,
		Email:             c.Email,
		Phone:             c.Phone,
		ActivityStatus:    c.ActivityStatus,
		AccountStatus:     c.AccountStatus,
		TotalTransactions: c.TotalTransactions,
		OpeningDate:       c.OpeningDate.String(),
		LastLoginIP:       c.LastLoginIP,
		LastLoginLocation: c.LastLoginLocation,
		UploadedFiles:     c.UploadedFiles,
		ActiveServices:    c.ActiveServices,
		Address:           c.Address,
	}
	if id, ok := c.Identity.(Verified); ok {
		r.IsAuthenticated = true
		r.DOB = id.DOB.String()
		r.NationalID = id.NationalID
	}
	if co, ok := c.Holder.(Company); ok {
		r.IsCompanyAccount = true
		r.CompanyName = co.Name
		r.CompanyRegistrationNumber = co.RegistrationNumber
		r.CompanyTaxNumber = co.TaxNumber
		r.CompanyStatsNumber = co.StatsNumber
		r.CompanyAddress = co.Address
	}
	return r
}

// CustomersFromRecords converts every record, stopping at the first
// malformed one.
func CustomersFromRecords(records []CustomerRecord) ([]Customer, error) {
	out := make([]Customer, 0, len(records))
	for _, r := range records {
		c, err := r.ToCustomer()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
