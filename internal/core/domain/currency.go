package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the fixed set the organization pays out in.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

type currencyInfo struct {
	Symbol    string
	Name      string
	Precision int32
}

var supportedCurrencies = map[Currency]currencyInfo{
	CurrencyINR: {Symbol: "₹", Name: "Indian Rupee", Precision: 2},
	CurrencyUSD: {Symbol: "$", Name: "US Dollar", Precision: 2},
}

// SupportedCurrencies returns the enumeration in a stable order.
func SupportedCurrencies() []Currency {
	return []Currency{CurrencyINR, CurrencyUSD}
}

// ParseCurrency normalizes a client supplied code and rejects anything outside the enumeration.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := supportedCurrencies[c]; !ok {
		return "", fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, code)
	}
	return c, nil
}

// IsSupported reports whether c is part of the enumeration.
func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

// Symbol returns the display symbol, or the code itself when unknown.
func (c Currency) Symbol() string {
	if info, ok := supportedCurrencies[c]; ok {
		return info.Symbol
	}
	return string(c)
}

// Name returns the display name.
func (c Currency) Name() string {
	return supportedCurrencies[c].Name
}

// Precision is the number of minor-unit digits amounts are rounded to.
func (c Currency) Precision() int32 {
	if info, ok := supportedCurrencies[c]; ok {
		return info.Precision
	}
	return 2
}

// CheckScale rejects amounts carrying more fractional digits than the currency's
// minor unit. Trailing zeros are fine, so 10.500 passes for a 2-digit currency.
func (c Currency) CheckScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(c.Precision())) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places for %s",
			apperrors.ErrValidation, amount.String(), c.Precision(), c)
	}
	return nil
}

// EmploymentClass is the classification that decides which currency a user is paid in.
type EmploymentClass string

const (
	ClassDomestic      EmploymentClass = "domestic"
	ClassInternational EmploymentClass = "international"
)

var currencyByClass = map[EmploymentClass]Currency{
	ClassDomestic:      CurrencyINR,
	ClassInternational: CurrencyUSD,
}

// CurrencyForClass maps a classification to exactly one supported currency.
func CurrencyForClass(class EmploymentClass) (Currency, error) {
	c, ok := currencyByClass[class]
	if !ok {
		return "", fmt.Errorf("%w: unknown employment classification %q", apperrors.ErrValidation, class)
	}
	return c, nil
}
