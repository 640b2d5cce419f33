package core

// CustomerChange describes one stored customer edit: the changed field
// names in edit order and their new values.
type CustomerChange struct {
	CustomerID   int64
	CustomerName string
	Changed      []string
	Values       map[string]string
}

// NewCustomerChange captures the new values of the changed fields of c.
func NewCustomerChange(c Customer, changed []string) CustomerChange {
	values := make(map[string]string, len(changed))
	for _, field := range changed {
		if v, ok := c.EditableValue(field); ok {
			values[field] = v
		}
	}
	return CustomerChange{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Changed:      append([]string{}, changed...),
		Values:       values,
	}
}

// EditableValue returns the value of an editable field by its name.
func (c Customer) EditableValue(field string) (string, bool) {
	switch field {
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "address":
		return c.Address, true
	case "type":
		return string(c.Type), true
	case "activityStatus":
		return string(c.ActivityStatus), true
	case "accountStatus":
		return string(c.AccountStatus), true
	}
	return "", false
}
