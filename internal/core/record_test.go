package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCustomerDropsGatedFields(t *testing.T) {
	r := CustomerRecord{
		ID:                        7,
		Name:                      "Leaky",
		Type:                      RegularAccount,
		Email:                     "leaky@example.com",
		ActivityStatus:            Active,
		AccountStatus:             Activated,
		OpeningDate:               "2024-01-01",
		IsAuthenticated:           false,
		DOB:                       "1990-01-01",
		NationalID:                "SECRET",
		IsCompanyAccount:          false,
		CompanyName:               "Shadow Corp",
		CompanyRegistrationNumber: "REG",
		CompanyTaxNumber:          "TAX",
	}

	c, err := r.ToCustomer()
	require.NoError(t, err)
	assert.Equal(t, Anonymous{}, c.Identity)
	assert.Equal(t, Individual{}, c.Holder)
	assert.Equal(t, "", c.CompanyName())

	back := FromCustomer(c)
	assert.Empty(t, back.DOB)
	assert.Empty(t, back.NationalID)
	assert.Empty(t, back.CompanyName)
	assert.Empty(t, back.CompanyRegistrationNumber)
}

func TestToCustomerKeepsGatedFieldsWhenFlagged(t *testing.T) {
	recs := SampleCustomerRecords()
	c, err := recs[0].ToCustomer()
	require.NoError(t, err)

	id, ok := c.Identity.(Verified)
	require.True(t, ok)
	assert.Equal(t, "1990-05-20", id.DOB.String())
	assert.Equal(t, "WND123456789", id.NationalID)

	co, ok := c.Holder.(Company)
	require.True(t, ok)
	assert.Equal(t, Company{
		Name:               "Wonder Industries",
		RegistrationNumber: "WI-REG-111",
		TaxNumber:          "WI-TAX-222",
		StatsNumber:        "WI-STAT-333",
		Address:            "456 Looking Glass Ave, Wonderland",
	}, co)
}

func TestToCustomerRejectsMalformedDates(t *testing.T) {
	r := SampleCustomerRecords()[0]
	r.OpeningDate = "yesterday"
	_, err := r.ToCustomer()
	assert.Error(t, err)

	r = SampleCustomerRecords()[0]
	r.DOB = "20/05/1990"
	_, err = r.ToCustomer()
	assert.Error(t, err)

	// ignored when the identity is not verified
	r.IsAuthenticated = false
	_, err = r.ToCustomer()
	assert.NoError(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	for _, r := range SampleCustomerRecords() {
		c, err := r.ToCustomer()
		require.NoError(t, err)
		assert.Equal(t, r, FromCustomer(c), r.Name)
	}
}

func TestRecordDecodesOriginalShape(t *testing.T) {
	raw := `{"id": 4, "name": "Diana Prince", "company": "Themyscira Exports", "isCompanyAccount": true,
		"type": "Regular Account", "email": "diana@themyscira.com", "phone": "+1-555-3456",
		"activityStatus": "Active", "accountStatus": "Blocked", "totalTransactions": "500 DA",
		"openingDate": "2024-01-10", "isAuthenticated": true, "dob": "1978-03-10", "nationalId": "THM112233445",
		"companyRegNumber": "TE-REG-777", "taxNumber": "TE-TAX-888", "statsNumber": "TE-STAT-999",
		"companyAddress": "2 Amazon Way, Themyscira"}`

	var r CustomerRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	c, err := r.ToCustomer()
	require.NoError(t, err)

	assert.Equal(t, "500 DA", c.TotalTransactions.Display())
	assert.Equal(t, Blocked, c.AccountStatus)
	assert.Equal(t, "Themyscira Exports", c.CompanyName())
	assert.True(t, c.IsAuthenticated())
}

func TestSampleDataset(t *testing.T) {
	customers := SampleCustomers()
	require.Len(t, customers, 5)
	for _, c := range customers {
		assert.NoError(t, c.Validate(), c.Name)
	}

	txs := SampleTransactions()
	require.Len(t, txs, 13)
	for _, tx := range txs {
		assert.NoError(t, tx.Validate(), tx.ID)
	}

	assert.Equal(t, "1 200 000 DA", customers[4].TotalTransactions.Display())
	assert.False(t, customers[2].IsAuthenticated())
	assert.False(t, customers[4].IsCompanyAccount())
}
