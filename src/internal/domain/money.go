package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits kept by Money.
const moneyScale = 2

// maxMoneyMinor is the largest magnitude NUMERIC(18, 2) can hold, in minor
// units. Two bounded values never overflow int64 when added.
const maxMoneyMinor int64 = 999_999_999_999_999_999

// maxIntegerDigits is the number of digits allowed before the decimal point.
const maxIntegerDigits = 18 - moneyScale

// maxAmountLength bounds the text ParseMoney will look at.
const maxAmountLength = 40

var (
	errMoneyPrecision = errors.New("amount has more than two fractional digits")
	errMoneyRange     = errors.New("amount is out of range")
	errMoneyTooLong   = errors.New("amount is too long")
)

// Money is a fixed-point amount stored as integer minor units.
type Money struct {
	minor int64
}

var ZeroMoney = Money{}

// ParseMoney parses an exact decimal string. It never goes through a float.
func ParseMoney(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxAmountLength {
		return Money{}, errMoneyTooLong
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}

	return MoneyFromDecimal(d)
}

func MustParseMoney(raw string) Money {
	m, err := ParseMoney(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromDecimal converts d exactly. The magnitude is checked from the
// coefficient length and exponent before any big-integer work, so a huge
// exponent is rejected without being expanded.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsZero() {
		return ZeroMoney, nil
	}
	if int64(d.NumDigits())+int64(d.Exponent()) > maxIntegerDigits {
		return Money{}, errMoneyRange
	}

	scaled := d.Shift(moneyScale)
	if !scaled.IsInteger() {
		return Money{}, errMoneyPrecision
	}

	minor := scaled.BigInt()
	if !minor.IsInt64() || !inRange(minor.Int64()) {
		return Money{}, errMoneyRange
	}

	return Money{minor: minor.Int64()}, nil
}

func inRange(minor int64) bool {
	return minor <= maxMoneyMinor && minor >= -maxMoneyMinor
}

func (m Money) MinorUnits() int64 {
	return m.minor
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -moneyScale)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(moneyScale)
}

// Add fails when the sum no longer fits the storage column.
func (m Money) Add(other Money) (Money, error) {
	sum := m.minor + other.minor
	if !inRange(sum) {
		return Money{}, errMoneyRange
	}
	return Money{minor: sum}, nil
}

func (m Money) Sub(other Money) Money {
	return Money{minor: m.minor - other.minor}
}

func (m Money) LessThan(other Money) bool {
	return m.minor < other.minor
}

func (m Money) Equal(other Money) bool {
	return m.minor == other.minor
}

func (m Money) IsPositive() bool {
	return m.minor > 0
}

func (m Money) IsNegative() bool {
	return m.minor < 0
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

// MarshalJSON writes the amount as a bare JSON number, e.g. 749.50.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both 749.5 and "749.50".
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the amount as NUMERIC text.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan reads a NUMERIC column.
func (m *Money) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	case int64:
		parsed, err := MoneyFromDecimal(decimal.NewFromInt(v))
		if err != nil {
			return fmt.Errorf("scan money: %w", err)
		}
		*m = parsed
		return nil
	case nil:
		return errors.New("scan money: NULL value")
	default:
		return fmt.Errorf("scan money: unsupported type %T", src)
	}

	parsed, err := ParseMoney(raw)
	if err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	*m = parsed
	return nil
}
