package currency

import (
	"database/sql/driver"
	"errors"
)

type Currency string

const (
	// CurrencySEK is the only currency the storefront sells in.
	CurrencySEK Currency = "SEK"
)

var ErrInvalidCurrency = errors.New("invalid currency")

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Value() (driver.Value, error) {
	return c.String(), nil
}

func ParseCurrency(s string) (Currency, error) {
	switch s {
	case CurrencySEK.String():
		return CurrencySEK, nil
	default:
		return "", ErrInvalidCurrency
	}
}
