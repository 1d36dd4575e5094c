package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a snapshot of one client's balances.
// Callers only ever receive copies; the ledger owns the live state.
type Account struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Locked    bool            `json:"locked"`
}

// Total is available plus held.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Equal compares balances numerically, so 1.50 equals 1.5.
func (a Account) Equal(other Account) bool {
	return a.Client == other.Client &&
		a.Available.Equal(other.Available) &&
		a.Held.Equal(other.Held) &&
		a.Locked == other.Locked
}
