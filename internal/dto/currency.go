package dto

import "github.com/SscSPs/incentive_wallet_app/internal/core/domain"

// CurrencyResponse describes one supported payout currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int32  `json:"precision"`
}

// ReconcileCurrencyResponse reports the canonical currency after reconciliation.
type ReconcileCurrencyResponse struct {
	UserID   string `json:"userID"`
	Currency string `json:"currency"`
	Changed  bool   `json:"changed"`
}

// ToCurrencyResponses converts the supported enumeration.
func ToCurrencyResponses(cs []domain.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, len(cs))
	for i, c := range cs {
		out[i] = CurrencyResponse{
			CurrencyCode: string(c),
			Symbol:       c.Symbol(),
			Name:         c.Name(),
			Precision:    c.Precision(),
		}
	}
	return out
}
