// Package core provides money parsing and handling utilities.
//
// This file contains the Money type used for customer totals and
// transaction amounts, and its "15 000 DA" display form.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency is the suffix appended to every displayed amount.
const Currency = "DA"

var ErrInvalidAmount = errors.New("invalid amount")

// Money is a signed decimal amount in dinars. Refunds are negative.
type Money struct {
	Value decimal.Decimal
}

// NewMoney returns a whole-unit amount.
func NewMoney(units int64) Money {
	return Money{Value: decimal.NewFromInt(units)}
}

// MoneyFromDecimal wraps d without rounding.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Value: d}
}

// ParseMoney parses amounts as they appear in the data sources.
//
// It accepts an optional "DA" suffix, space thousands separators and
// either dot or comma as decimal separator.
//
// Examples:
//
//	ParseMoney("15 000 DA") -> 15000
//	ParseMoney("12,34")     -> 12.34
//	ParseMoney("-500")      -> -500
func ParseMoney(s string) (Money, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, Currency))
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return Money{Value: d}, nil
}

func (m Money) Add(o Money) Money { return Money{Value: m.Value.Add(o.Value)} }

func (m Money) Sub(o Money) Money { return Money{Value: m.Value.Sub(o.Value)} }

func (m Money) Equal(o Money) bool { return m.Value.Equal(o.Value) }

func (m Money) IsZero() bool { return m.Value.IsZero() }

func (m Money) IsNegative() bool { return m.Value.IsNegative() }

// Display renders the amount as "5 000 DA", "-500 DA" or "12,50 DA".
// Cents are shown only when the amount is fractional.
func (m Money) Display() string {
	d := m.Value.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	out := sign + humanize.FormatInteger("# ###.", int(whole.IntPart()))
	if cents := d.Sub(whole).Shift(2).IntPart(); cents != 0 {
		out += fmt.Sprintf(",%02d", cents)
	}
	return out + " " + Currency
}

// String returns the plain decimal form, e.g. "-500" or "12.5".
func (m Money) String() string {
	return m.Value.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Value.String()), nil
}

// UnmarshalJSON accepts JSON numbers and strings in any form ParseMoney
// understands.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*m = Money{}
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Sum adds up amounts, returning zero for an empty list.
func Sum(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
