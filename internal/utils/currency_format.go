package utils

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision rounds an amount to the currency's minor units.
// Example: 12.3456 INR returns "12.35"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.StringFixed(currency.Precision())
}

// FormatAmount renders an amount for display with the currency symbol, e.g. "₹1500.00".
func FormatAmount(amount decimal.Decimal, currency domain.Currency) string {
	if amount.IsNegative() {
		return "-" + currency.Symbol() + FormatWithCurrencyPrecision(amount.Abs(), currency)
	}
	return currency.Symbol() + FormatWithCurrencyPrecision(amount, currency)
}
