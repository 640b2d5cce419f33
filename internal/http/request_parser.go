// Package http provides HTTP server and handler implementations.
//
// This file turns query strings and form posts into filter criteria and
// customer patches.

package http

import (
	"net/url"
	"strconv"
	"strings"

	"controlpanel/internal/core"
	"controlpanel/internal/services"
)

// Query parameter names shared by the list pages and the JSON API.
const (
	paramSearch   = "q"
	paramStatus   = "status"
	paramType     = "type"
	paramDate     = "date"
	paramCustomer = "customer"
)

// ParseCustomerCriteria reads q, status and type. Missing values mean no
// filter.
func ParseCustomerCriteria(query url.Values) core.CustomerCriteria {
	return core.CustomerCriteria{
		SearchText:    sanitizeInput(query.Get(paramSearch)),
		AccountStatus: sanitizeInput(query.Get(paramStatus)),
		AccountType:   sanitizeInput(query.Get(paramType)),
	}
}

// ParseTransactionCriteria reads q, status, date, type and customer. A
// customer value that is not a positive integer is ignored.
func ParseTransactionCriteria(query url.Values) core.TransactionCriteria {
	c := core.TransactionCriteria{
		SearchText: sanitizeInput(query.Get(paramSearch)),
		Status:     sanitizeInput(query.Get(paramStatus)),
		Date:       sanitizeInput(query.Get(paramDate)),
		Type:       sanitizeInput(query.Get(paramType)),
	}
	if id, err := parseID(query.Get(paramCustomer)); err == nil {
		c.CustomerID = id
	}
	return c
}

// ParseCustomerPatch builds a patch from the edit form. Fields absent from
// the form stay nil so they are left unchanged.
func ParseCustomerPatch(form url.Values) services.CustomerPatch {
	var p services.CustomerPatch
	str := func(key string) *string {
		if _, ok := form[key]; !ok {
			return nil
		}
		v := sanitizeInput(form.Get(key))
		return &v
	}
	p.Name = str("name")
	p.Email = str("email")
	p.Phone = str("phone")
	p.Address = str("address")
	if v := str("type"); v != nil {
		t := core.AccountType(*v)
		p.Type = &t
	}
	if v := str("activityStatus"); v != nil {
		s := core.ActivityStatus(*v)
		p.ActivityStatus = &s
	}
	if v := str("accountStatus"); v != nil {
		s := core.AccountStatus(*v)
		p.AccountStatus = &s
	}
	return p
}

// parseID parses a positive customer id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, core.ErrInvalidCustomerID
	}
	return id, nil
}
