package wallet

import "github.com/shopspring/decimal"

// Wallet is the player's currency and experience account.
type Wallet struct {
	Money decimal.Decimal `db:"money" json:"money"`
	XP    int64           `db:"xp" json:"xp"`
}

// Starting balances for a fresh player profile.
func New() Wallet {
	return Wallet{
		Money: decimal.NewFromInt(5000),
		XP:    50,
	}
}
