package core

// DisplayCategory is the colour family a badge is rendered with.
type DisplayCategory string

const (
	Positive DisplayCategory = "positive"
	Caution  DisplayCategory = "caution"
	Negative DisplayCategory = "negative"
	Neutral  DisplayCategory = "neutral"
	Special  DisplayCategory = "special"

	// Account type and verification families.
	DeveloperCategory DisplayCategory = "developer"
	RegularCategory   DisplayCategory = "regular"
	VerifiedCategory  DisplayCategory = "verified"

	// Transaction type and payment method families.
	InvoiceCategory  DisplayCategory = "invoice"
	ReceiptCategory  DisplayCategory = "receipt"
	CashCategory     DisplayCategory = "cash"
	CIBCategory      DisplayCategory = "cib"
	EdahabiaCategory DisplayCategory = "edahabia"
)

// Badge icons.
const (
	IconNone     = ""
	IconCode     = "code"
	IconPerson   = "person"
	IconVerified = "verified"
	IconWarning  = "warning"
)

// Badge is a classified value ready for rendering.
type Badge struct {
	Label    string          `json:"label"`
	Category DisplayCategory `json:"category"`
	Icon     string          `json:"icon,omitempty"`
}

// CSSClass returns the stylesheet class for the category.
func (c DisplayCategory) CSSClass() string {
	if c == "" {
		return "badge--" + string(Neutral)
	}
	return "badge--" + string(c)
}

func (b Badge) CSSClass() string { return b.Category.CSSClass() }

var statusCategories = map[string]DisplayCategory{
	string(Active):       Positive,
	string(Activated):    Positive,
	string(Subscribed):   Positive,
	string(Paid):         Positive,
	string(Inactive):     Caution,
	string(Unsubscribed): Caution,
	string(Pending):      Caution,
	string(Draft):        Caution,
	string(Deactivated):  Negative,
	string(Blocked):      Negative,
	string(Canceled):     Negative,
	string(Refunded):     Special,
}

// ClassifyStatus maps any activity, account or transaction status to its
// category. Unknown values are Neutral.
func ClassifyStatus(status string) DisplayCategory {
	if c, ok := statusCategories[status]; ok {
		return c
	}
	return Neutral
}

// StatusBadge wraps ClassifyStatus with the value as label.
func StatusBadge(status string) Badge {
	return Badge{Label: status, Category: ClassifyStatus(status)}
}

func ClassifyAccountType(t AccountType) Badge {
	switch t {
	case DeveloperAccount:
		return Badge{Label: string(t), Category: DeveloperCategory, Icon: IconCode}
	case RegularAccount:
		return Badge{Label: string(t), Category: RegularCategory, Icon: IconPerson}
	}
	return Badge{Label: string(t), Category: Neutral, Icon: IconNone}
}

func ClassifyTransactionType(t TransactionType) Badge {
	switch t {
	case Invoice:
		return Badge{Label: string(t), Category: InvoiceCategory}
	case PaymentReceipt:
		return Badge{Label: string(t), Category: ReceiptCategory}
	}
	return Badge{Label: string(t), Category: Neutral}
}

func ClassifyPaymentMethod(m PaymentMethod) Badge {
	switch m {
	case Cash:
		return Badge{Label: string(m), Category: CashCategory}
	case CIBCard:
		return Badge{Label: string(m), Category: CIBCategory}
	case EdahabiaCard:
		return Badge{Label: string(m), Category: EdahabiaCategory}
	}
	return Badge{Label: string(m), Category: Neutral}
}

// ClassifyAuthentication renders the identity verification state.
func ClassifyAuthentication(authenticated bool) Badge {
	if authenticated {
		return Badge{Label: "Verified", Category: VerifiedCategory, Icon: IconVerified}
	}
	return Badge{Label: "Not Verified", Category: Neutral, Icon: IconWarning}
}
