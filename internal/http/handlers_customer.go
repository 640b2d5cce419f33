package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"controlpanel/internal/core"
	applog "controlpanel/internal/log"
	"controlpanel/internal/services"
)

// filterOption is one entry of a filter dropdown.
type filterOption struct {
	Value    string
	Selected bool
}

func options[T ~string](values []T, selected string) []filterOption {
	out := make([]filterOption, 0, len(values)+1)
	out = append(out, filterOption{Value: core.FilterAll, Selected: selected == "" || selected == core.FilterAll})
	for _, v := range values {
		out = append(out, filterOption{Value: string(v), Selected: string(v) == selected})
	}
	return out
}

type customerListView struct {
	Query     string
	Statuses  []filterOption
	Types     []filterOption
	Customers []services.CustomerListItem
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	criteria := ParseCustomerCriteria(r.URL.Query())
	items, err := s.customers.List(r.Context(), criteria)
	if err != nil {
		s.serverError(w, r, "Customer list failed", err)
		return
	}
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Customers filtered",
		applog.NewFields().
			WithFilter(criteria.SearchText, criteria.AccountStatus, criteria.AccountType, "").
			WithResultCount(len(items)).
			WithOperation(applog.OpFilter).ToSlice()...)

	s.render(w, r, http.StatusOK, "customers", "customer_table", pageData{
		Title: "Customers",
		Nav:   "customers",
		Data: customerListView{
			Query:     criteria.SearchText,
			Statuses:  options(core.AccountStatuses(), criteria.AccountStatus),
			Types:     options(core.AccountTypes(), criteria.AccountType),
			Customers: items,
		},
	})
}

type notFoundView struct {
	ID string
}

func (s *Server) renderCustomerNotFound(w http.ResponseWriter, r *http.Request, id string) {
	s.render(w, r, http.StatusNotFound, "customer_not_found", "",
		pageData{Title: "Customer not found", Nav: "customers", Data: notFoundView{ID: id}})
}

type customerDetailView struct {
	services.CustomerDetail
	TransactionTable transactionTable
}

func (s *Server) handleCustomerDetail(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := parseID(raw)
	if err != nil {
		s.renderCustomerNotFound(w, r, raw)
		return
	}

	detail, err := s.customers.Detail(r.Context(), id)
	switch {
	case errors.Is(err, core.ErrCustomerNotFound):
		s.renderCustomerNotFound(w, r, raw)
		return
	case err != nil:
		s.serverError(w, r, "Customer detail failed", err)
		return
	}

	s.render(w, r, http.StatusOK, "customer_detail", "", pageData{
		Title: detail.Name,
		Nav:   "customers",
		Data: customerDetailView{
			CustomerDetail:   detail,
			TransactionTable: transactionTable{Rows: detail.Transactions},
		},
	})
}

// customerForm holds the edit form values as strings so rejected input
// can be shown back unchanged.
type customerForm struct {
	ID             int64
	Name           string
	Email          string
	Phone          string
	Address        string
	Type           string
	ActivityStatus string
	AccountStatus  string

	Types            []filterOption
	ActivityStatuses []filterOption
	AccountStatuses  []filterOption
	Error            string
}

func newCustomerForm(c core.Customer) customerForm {
	return customerForm{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Type:           string(c.Type),
		ActivityStatus: string(c.ActivityStatus),
		AccountStatus:  string(c.AccountStatus),
	}
}

// withOptions fills the dropdowns without the "All" entry.
func (f customerForm) withOptions() customerForm {
	f.Types = options(core.AccountTypes(), f.Type)[1:]
	f.ActivityStatuses = options(core.ActivityStatuses(), f.ActivityStatus)[1:]
	f.AccountStatuses = options(core.AccountStatuses(), f.AccountStatus)[1:]
	return f
}

func (s *Server) handleCustomerEdit(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := parseID(raw)
	if err != nil {
		s.renderCustomerNotFound(w, r, raw)
		return
	}
	c, err := s.customers.Find(r.Context(), id)
	switch {
	case errors.Is(err, core.ErrCustomerNotFound):
		s.renderCustomerNotFound(w, r, raw)
		return
	case err != nil:
		s.serverError(w, r, "Customer lookup failed", err)
		return
	}
	s.render(w, r, http.StatusOK, "customer_edit", "customer_form", pageData{
		Title: "Edit " + c.Name,
		Nav:   "customers",
		Data:  newCustomerForm(c).withOptions(),
	})
}

func (s *Server) handleCustomerUpdate(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := parseID(raw)
	if err != nil {
		s.renderCustomerNotFound(w, r, raw)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	patch := ParseCustomerPatch(r.PostForm)
	updated, changed, err := s.customers.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, core.ErrCustomerNotFound):
		s.renderCustomerNotFound(w, r, raw)
		return
	case services.IsValidation(err):
		s.rejectCustomerForm(w, r, id, patch, err)
		return
	case err != nil:
		s.serverError(w, r, "Customer update failed", err)
		return
	}

	target := "/customers/" + strconv.FormatInt(id, 10)
	if len(changed) > 0 {
		s.summaryCache.Purge()
		atomic.AddInt64(&s.appMetrics.customerUpdates, 1)
		s.structured.LogCustomerUpdated(r.Context(), id, updated.Name, changed)
	}

	if isHTMX(r) {
		NewHTMXResponse().
			TriggerCustomerUpdated(id, changed).
			TriggerDashboardRefresh().
			TriggerSuccessNotification(fmt.Sprintf("%s saved", updated.Name)).
			Redirect(target).
			Write(w)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// rejectCustomerForm answers 422 with the submitted values and the error.
func (s *Server) rejectCustomerForm(w http.ResponseWriter, r *http.Request, id int64, patch services.CustomerPatch, err error) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Customer update rejected",
		applog.NewFields().
			WithCustomer(id, "").
			WithError(err).
			WithErrorType(applog.ErrorTypeValidation).
			WithOperation(applog.OpValidate).ToSlice()...)

	c, findErr := s.customers.Find(r.Context(), id)
	if findErr != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	patch.Apply(&c)
	form := newCustomerForm(c)
	form.Error = err.Error()

	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "#customer-form")
	}
	s.render(w, r, http.StatusUnprocessableEntity, "customer_edit", "customer_form", pageData{
		Title: "Edit " + c.Name,
		Nav:   "customers",
		Data:  form.withOptions(),
	})
}

func (s *Server) handleAPICustomers(w http.ResponseWriter, r *http.Request) {
	items, err := s.customers.List(r.Context(), ParseCustomerCriteria(r.URL.Query()))
	if err != nil {
		s.structured.LogError(r.Context(), "Customer list failed", err, applog.ComponentHTTP, applog.OpList, nil)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAPICustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, core.ErrCustomerNotFound.Error())
		return
	}
	detail, err := s.customers.Detail(r.Context(), id)
	switch {
	case errors.Is(err, core.ErrCustomerNotFound):
		writeJSONError(w, http.StatusNotFound, core.ErrCustomerNotFound.Error())
		return
	case err != nil:
		s.structured.LogError(r.Context(), "Customer detail failed", err, applog.ComponentHTTP, applog.OpRead, nil)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
