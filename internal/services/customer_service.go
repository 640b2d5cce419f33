package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"controlpanel/internal/core"
	"controlpanel/internal/repository"

	"golang.org/x/sync/errgroup"
)

// CustomerEventPublisher is notified after a customer was updated.
type CustomerEventPublisher interface {
	PublishCustomerUpdated(ctx context.Context, change core.CustomerChange) error
}

// ValidationError marks a rejected edit. Unwrap yields the core sentinel.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid customer: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err was caused by invalid input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CustomerPatch holds the editable fields. Nil fields are left unchanged.
type CustomerPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	Address        *string
	Type           *core.AccountType
	ActivityStatus *core.ActivityStatus
	AccountStatus  *core.AccountStatus
}

// Apply writes the non-nil fields onto c and returns the names of the
// fields whose value actually changed.
func (p CustomerPatch) Apply(c *core.Customer) []string {
	var changed []string
	setString := func(name string, dst *string, v *string) {
		if v == nil {
			return
		}
		nv := strings.TrimSpace(*v)
		if *dst != nv {
			*dst = nv
			changed = append(changed, name)
		}
	}
	setString("name", &c.Name, p.Name)
	setString("email", &c.Email, p.Email)
	setString("phone", &c.Phone, p.Phone)
	setString("address", &c.Address, p.Address)

	if p.Type != nil && *p.Type != c.Type {
		c.Type = *p.Type
		changed = append(changed, "type")
	}
	if p.ActivityStatus != nil && *p.ActivityStatus != c.ActivityStatus {
		c.ActivityStatus = *p.ActivityStatus
		changed = append(changed, "activityStatus")
	}
	if p.AccountStatus != nil && *p.AccountStatus != c.AccountStatus {
		c.AccountStatus = *p.AccountStatus
		changed = append(changed, "accountStatus")
	}
	return changed
}

// CustomerService serves the customer pages and the edit command.
type CustomerService struct {
	customers repository.CustomerRepository
	txs       repository.TransactionLister
	events    CustomerEventPublisher
	stats     StatsSources
	clock     func() time.Time
}

func NewCustomerService(customers repository.CustomerRepository, txs repository.TransactionLister, events CustomerEventPublisher) *CustomerService {
	return &CustomerService{
		customers: customers,
		txs:       txs,
		events:    events,
		stats:     statsSources[StatsComputed],
		clock:     time.Now,
	}
}

// WithStats replaces the quick stats counters.
func (s *CustomerService) WithStats(src StatsSources) *CustomerService {
	s.stats = src
	return s
}

// WithClock fixes the reference time of the quick stats period.
func (s *CustomerService) WithClock(clock func() time.Time) *CustomerService {
	s.clock = clock
	return s
}

// List returns the filtered customer list items.
func (s *CustomerService) List(ctx context.Context, criteria core.CustomerCriteria) ([]CustomerListItem, error) {
	all, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	matched := core.FilterCustomers(all, criteria)
	items := make([]CustomerListItem, 0, len(matched))
	for _, c := range matched {
		items = append(items, customerListItem(c))
	}
	return items, nil
}

// Detail loads the customer and its transactions concurrently and builds
// the detail view-model.
func (s *CustomerService) Detail(ctx context.Context, id int64) (CustomerDetail, error) {
	var (
		c   core.Customer
		txs []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.customers.FindCustomer(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return CustomerDetail{}, err
	}

	stats := ComputeQuickStats(c, txs, LastMonth(s.clock()), s.stats)
	return BuildCustomerDetail(c, txs, stats), nil
}

// Find returns the stored customer, for pre-filling the edit form.
func (s *CustomerService) Find(ctx context.Context, id int64) (core.Customer, error) {
	return s.customers.FindCustomer(ctx, id)
}

// UpdateCustomer applies patch to customer id, validates and stores the
// result, then publishes a customer.updated event. A patch that changes
// nothing is not written.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, patch CustomerPatch) (core.Customer, error) {
	c, _, err := s.Update(ctx, id, patch)
	return c, err
}

// Update is UpdateCustomer that also reports the changed field names.
func (s *CustomerService) Update(ctx context.Context, id int64, patch CustomerPatch) (core.Customer, []string, error) {
	c, err := s.customers.FindCustomer(ctx, id)
	if err != nil {
		return core.Customer{}, nil, err
	}

	changed := patch.Apply(&c)
	if err := c.Validate(); err != nil {
		return core.Customer{}, nil, &ValidationError{Err: err}
	}
	if len(changed) == 0 {
		return c, nil, nil
	}

	if err := s.customers.UpdateCustomer(ctx, c); err != nil {
		if errors.Is(err, core.ErrCustomerNotFound) {
			return core.Customer{}, nil, err
		}
		return core.Customer{}, nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	slog.DebugContext(ctx, "Customer stored", "customer_id", id, "changed", changed)

	if s.events == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping customer.updated")
		return c, changed, nil
	}
	if err := s.events.PublishCustomerUpdated(ctx, core.NewCustomerChange(c, changed)); err != nil {
		// The update is stored; a lost audit event must not fail the edit.
		slog.ErrorContext(ctx, "Failed to publish customer.updated", "customer_id", id, "error", err)
	}
	return c, changed, nil
}
