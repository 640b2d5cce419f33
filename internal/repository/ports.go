package repository

import (
	"context"

	"controlpanel/internal/core"
)

// Ports for data-source adapters.
type (
	CustomerLister interface {
		ListCustomers(ctx context.Context) ([]core.Customer, error)
	}

	// CustomerFinder returns core.ErrCustomerNotFound for unknown ids.
	CustomerFinder interface {
		FindCustomer(ctx context.Context, id int64) (core.Customer, error)
	}

	// CustomerUpdater stores the editable fields of the customer with the
	// same ID; stored data outside those fields is kept. Unknown ids yield
	// core.ErrCustomerNotFound.
	CustomerUpdater interface {
		UpdateCustomer(ctx context.Context, c core.Customer) error
	}

	CustomerRepository interface {
		CustomerLister
		CustomerFinder
		CustomerUpdater
	}

	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// Store is everything a backend provides.
	Store interface {
		CustomerRepository
		TransactionLister
	}
)
