package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code in upper case
type Currency string

const (
	AUD Currency = "AUD"
	NZD Currency = "NZD"
	USD Currency = "USD"
	GBP Currency = "GBP"
	EUR Currency = "EUR"
	JPY Currency = "JPY"
)

// DefaultCurrency is used when configuration does not name one
const DefaultCurrency = AUD

// zeroDecimalCurrencies have no minor unit
var zeroDecimalCurrencies = map[Currency]bool{
	JPY:   true,
	"KRW": true,
	"VND": true,
}

// ParseCurrency normalises and validates a three-letter currency code
func ParseCurrency(code string) (Currency, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("invalid currency code %q", code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("invalid currency code %q", code)
		}
	}
	return Currency(c), nil
}

// Exponent returns the number of minor-unit digits for the currency
func (c Currency) Exponent() int32 {
	if zeroDecimalCurrencies[c] {
		return 0
	}
	return 2
}

// Money is an immutable amount in a currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString creates Money from a decimal string such as "150.00"
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyFromMinor creates Money from an integer count of minor units (cents)
func NewMoneyFromMinor(minor int64, currency Currency) (Money, error) {
	return NewMoney(decimal.New(minor, -currency.Exponent()), currency)
}

// Zero returns a zero amount in the given currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code
func (m Money) Currency() Currency { return m.currency }

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// MinorUnits returns the amount in minor units, rounded half away from zero
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(m.currency.Exponent()).Round(0).IntPart()
}

// Add returns the sum of both amounts. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Equals returns true if both amount and currency are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats as "150.00 AUD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.StringFixed(), m.currency)
}

// StringFixed formats the amount with the currency's minor-unit precision
func (m Money) StringFixed() string {
	return m.amount.StringFixed(m.currency.Exponent())
}

// MarshalJSON encodes as {"amount":"150.00","currency":"AUD"}
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.StringFixed(),
		Currency: m.currency,
	})
}

// UnmarshalJSON decodes the MarshalJSON form
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if v.Currency == "" {
		return errors.New("currency cannot be empty")
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}
