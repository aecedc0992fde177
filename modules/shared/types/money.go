// Package types provides shared value objects and type definitions
// used across multiple modules (Shared Kernel pattern).
package types

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a caller omits the currency.
const DefaultCurrency = "EUR"

// Money represents a non-negative monetary value with currency.
// Immutable value object - all operations return new instances.
type Money struct {
	amount   decimal.Decimal
	currency string // upper-cased code
}

// NewMoney validates amount and normalizes currency to upper case.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, NewValidationError("currency", ErrCurrencyRequired)
	}
	if amount.IsNegative() {
		return Money{}, NewValidationError("amount", ErrNegativeAmount)
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustNewMoney is NewMoney for trusted input (tests, constants).
func MustNewMoney(amount decimal.Decimal, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.Wrapf(ErrCurrencyMismatch, "cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.Wrapf(ErrCurrencyMismatch, "cannot subtract %s from %s", other.currency, m.currency)
	}
	if m.amount.LessThan(other.amount) {
		return Money{}, errors.Wrapf(ErrInsufficientAmount, "%s minus %s", m, other)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a factor such as an item quantity.
// A negative factor is rejected like a negative amount in NewMoney.
func (m Money) Multiply(factor int64) (Money, error) {
	if factor < 0 {
		return Money{}, NewValidationError("factor", ErrNegativeAmount)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.currency}, nil
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

func (m Money) String() string {
	return m.amount.String() + " " + m.currency
}

// Encode writes m as {"amount": <number>, "currency": <string>}.
// The amount is written from its exact decimal form, not a float.
func (m Money) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("amount")
	e.Num(jx.Num(m.amount.String()))
	e.FieldStart("currency")
	e.Str(m.currency)
	e.ObjEnd()
}

func (m Money) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	m.Encode(&e)
	return e.Bytes(), nil
}

// Decode reads the form written by Encode. A quoted amount is accepted too.
// The result is validated like NewMoney.
func (m *Money) Decode(d *jx.Decoder) error {
	var (
		amount   decimal.Decimal
		currency string
	)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "amount":
			var raw string
			switch d.Next() {
			case jx.String:
				s, err := d.Str()
				if err != nil {
					return err
				}
				raw = s
			default:
				n, err := d.Num()
				if err != nil {
					return err
				}
				raw = n.String()
			}
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return NewValidationError("amount", err)
			}
			amount = v
		case "currency":
			s, err := d.Str()
			if err != nil {
				return err
			}
			currency = s
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "decode money")
	}
	v, err := NewMoney(amount, currency)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decode(jx.DecodeBytes(data))
}
