package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds an account's cash and points balances. There is at most
// one wallet per account; it is created lazily on the first charge or
// the first incoming transfer.
type Wallet struct {
	AccountID     string
	CashBalance   decimal.Decimal
	PointsBalance int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateCashDebit checks if the wallet can be debited by amount of cash.
func (w *Wallet) ValidateCashDebit(amount decimal.Decimal) error {
	if w.CashBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// ValidatePointsDebit checks if the wallet can be debited by points.
func (w *Wallet) ValidatePointsDebit(points int64) error {
	if w.PointsBalance < points {
		return ErrInsufficientPoints
	}
	return nil
}

// ApplyCashCredit returns the cash balance after a credit.
func (w *Wallet) ApplyCashCredit(amount decimal.Decimal) decimal.Decimal {
	return w.CashBalance.Add(amount)
}

// ApplyCashDebit returns the cash balance after a debit.
func (w *Wallet) ApplyCashDebit(amount decimal.Decimal) decimal.Decimal {
	return w.CashBalance.Sub(amount)
}
