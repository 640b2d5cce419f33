package core

import "time"

// SampleCustomerRecords returns the built-in customer dataset used when no
// other data source is configured. Each call returns fresh slices.
func SampleCustomerRecords() []CustomerRecord {
	return []CustomerRecord{
		{
			ID:                        1,
			Name:                      "Alice Wonderland",
			CompanyName:               "Wonder Industries",
			Type:                      RegularAccount,
			Email:                     "alice@wonder.com",
			Phone:                     "+1-555-1234",
			ActivityStatus:            Active,
			AccountStatus:             Activated,
			TotalTransactions:         NewMoney(15000),
			OpeningDate:               "2023-01-15",
			IsAuthenticated:           true,
			LastLoginIP:               "192.168.1.100",
			LastLoginLocation:         "New York, USA",
			UploadedFiles:             []UploadedFile{{Name: "id_card.pdf", URL: "#"}, {Name: "proof_of_address.jpg", URL: "#"}},
			ActiveServices:            []string{"Web Hosting", "Domain Registration"},
			Address:                   "123 Rabbit Hole Lane, Wonderland",
			DOB:                       "1990-05-20",
			NationalID:                "WND123456789",
			IsCompanyAccount:          true,
			CompanyRegistrationNumber: "WI-REG-111",
			CompanyTaxNumber:          "WI-TAX-222",
			CompanyStatsNumber:        "WI-STAT-333",
			CompanyAddress:            "456 Looking Glass Ave, Wonderland",
		},
		{
			ID:                        2,
			Name:                      "Bob The Builder",
			CompanyName:               "BuildIt Co.",
			Type:                      DeveloperAccount,
			Email:                     "bob@buildit.dev",
			Phone:                     "+1-555-5678",
			ActivityStatus:            Active,
			AccountStatus:             Subscribed,
			TotalTransactions:         NewMoney(250000),
			OpeningDate:               "2022-11-01",
			IsAuthenticated:           true,
			LastLoginIP:               "10.0.0.5",
			LastLoginLocation:         "London, UK",
			ActiveServices:            []string{"Cloud Servers", "API Access", "Database Hosting"},
			Address:                   "45 Fixit Street, Buildsville",
			DOB:                       "1985-11-01",
			NationalID:                "BLD987654321",
			IsCompanyAccount:          true,
			CompanyRegistrationNumber: "BIC-REG-444",
			CompanyTaxNumber:          "BIC-TAX-555",
			CompanyStatsNumber:        "BIC-STAT-666",
			CompanyAddress:            "789 Hammer Road, Buildsville",
		},
		{
			ID:                3,
			Name:              "Charlie Chaplin",
			Type:              RegularAccount,
			Email:             "charlie@silent.org",
			Phone:             "+1-555-9012",
			ActivityStatus:    Inactive,
			AccountStatus:     Unsubscribed,
			TotalTransactions: NewMoney(5000),
			OpeningDate:       "2023-05-20",
			LastLoginIP:       "172.16.0.10",
			LastLoginLocation: "Paris, France",
			Address:           "789 Silent Alley, Film City",
		},
		{
			ID:                        4,
			Name:                      "Diana Prince",
			CompanyName:               "Themyscira Exports",
			Type:                      RegularAccount,
			Email:                     "diana@themyscira.com",
			Phone:                     "+1-555-3456",
			ActivityStatus:            Active,
			AccountStatus:             Blocked,
			TotalTransactions:         NewMoney(500),
			OpeningDate:               "2024-01-10",
			IsAuthenticated:           true,
			LastLoginIP:               "203.0.113.1",
			LastLoginLocation:         "Themyscira",
			UploadedFiles:             []UploadedFile{{Name: "passport.pdf", URL: "#"}},
			ActiveServices:            []string{"Secure Storage"},
			Address:                   "1 Paradise Island, Themyscira",
			DOB:                       "1978-03-10",
			NationalID:                "THM112233445",
			IsCompanyAccount:          true,
			CompanyRegistrationNumber: "TE-REG-777",
			CompanyTaxNumber:          "TE-TAX-888",
			CompanyStatsNumber:        "TE-STAT-999",
			CompanyAddress:            "2 Amazon Way, Themyscira",
		},
		{
			ID:                5,
			Name:              "Ethan Hunt",
			Type:              DeveloperAccount,
			Email:             "ethan@imf.gov",
			Phone:             "+1-555-7890",
			ActivityStatus:    Active,
			AccountStatus:     Activated,
			TotalTransactions: NewMoney(1200000),
			OpeningDate:       "2021-08-30",
			IsAuthenticated:   true,
			LastLoginIP:       "8.8.8.8",
			LastLoginLocation: "Washington D.C., USA",
			ActiveServices:    []string{"VPN Access", "Encrypted Comm"},
			Address:           "Confidential",
			DOB:               "1980-07-15",
			NationalID:        "IMF007007007",
		},
	}
}

// SampleCustomers is SampleCustomerRecords in variant form.
func SampleCustomers() []Customer {
	out, err := CustomersFromRecords(SampleCustomerRecords())
	if err != nil {
		panic(err)
	}
	return out
}

// SampleTransactions returns the built-in transaction dataset.
func SampleTransactions() []Transaction {
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	tx := func(id string, customer int64, when string, typ TransactionType, status TransactionStatus,
		method PaymentMethod, amount, paid, remaining int64, details string) Transaction {
		return Transaction{
			ID:              id,
			CustomerID:      customer,
			DateTime:        at(when),
			Type:            typ,
			Status:          status,
			PaymentMethod:   method,
			Amount:          NewMoney(amount),
			AmountPaid:      NewMoney(paid),
			RemainingAmount: NewMoney(remaining),
			Details:         details,
		}
	}
	return []Transaction{
		tx("INV-001", 1, "2024-07-26T10:30:00Z", Invoice, Paid, CIBCard, 5000, 5000, 0,
			"Annual Web Hosting Renewal for wonder.com. Includes standard package features."),
		tx("PAY-001", 1, "2024-07-26T10:35:00Z", PaymentReceipt, Paid, CIBCard, 5000, 5000, 0,
			"Payment for Invoice INV-001 via CIB Card ending in 1234."),
		tx("INV-002", 1, "2024-08-01T14:00:00Z", Invoice, Pending, NoPaymentMethod, 10000, 0, 10000,
			"Domain Registration for wonderland.net. Standard 1-year registration."),
		tx("INV-003", 2, "2024-07-15T09:00:00Z", Invoice, Paid, EdahabiaCard, 150000, 150000, 0,
			"Cloud Server Setup - Project Phoenix. Includes 2 vCPU, 4GB RAM, 100GB SSD."),
		tx("PAY-002", 2, "2024-07-15T09:10:00Z", PaymentReceipt, Paid, EdahabiaCard, 150000, 150000, 0,
			"Payment for INV-003 via EDAHABIA."),
		tx("INV-004", 2, "2024-08-10T11:00:00Z", Invoice, Draft, NoPaymentMethod, 100000, 0, 100000,
			"API Access Tier Upgrade - Gold Plan. Monthly subscription."),
		tx("INV-005", 3, "2024-06-01T16:20:00Z", Invoice, Canceled, NoPaymentMethod, 5000, 0, 5000,
			"Consultation Services - Initial meeting. Canceled by customer."),
		tx("INV-006", 4, "2024-07-20T13:00:00Z", Invoice, Paid, Cash, 500, 500, 0,
			"Secure Storage Box Rental - Small size. Paid in cash at office."),
		tx("PAY-003", 4, "2024-07-20T13:05:00Z", PaymentReceipt, Paid, Cash, 500, 500, 0,
			"Cash payment received for INV-006."),
		tx("INV-007", 5, "2024-08-05T08:45:00Z", Invoice, Paid, CIBCard, 1200000, 1200000, 0,
			"Project Chimera - Phase 1 Payment. Includes VPN setup and encrypted comms license."),
		tx("PAY-004", 5, "2024-08-05T08:50:00Z", PaymentReceipt, Paid, CIBCard, 1200000, 1200000, 0,
			"Payment for INV-007 via CIB Card ending in 5678."),
		tx("INV-008", 1, "2024-08-15T11:00:00Z", Invoice, Refunded, CIBCard, 500, 500, 0,
			"SSL Certificate - Basic. Refunded due to incorrect order."),
		tx("PAY-005", 1, "2024-08-15T11:05:00Z", PaymentReceipt, Refunded, CIBCard, -500, -500, 0,
			"Refund for INV-008 processed to CIB Card ending in 1234."),
	}
}
