package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	// KindCharge is a cash top-up of the caller's own wallet.
	KindCharge TransactionKind = "CHARGE"

	// KindConversion exchanges cash for points at the fixed ratio.
	KindConversion TransactionKind = "CONVERSION"

	// KindTransfer moves points between two accounts.
	KindTransfer TransactionKind = "TRANSFER"
)

// Transaction is an immutable ledger entry recording one
// balance-affecting event. Rows are append-only: never updated or
// deleted.
//
// AccountID is the viewpoint owner of the row. Charges and conversions
// write a single self-referencing row (sender == recipient == owner).
// A transfer writes two rows carrying identical sender/recipient ids
// with mirrored descriptions: one owned by the sender, one by the
// recipient, so each party's history shows exactly one entry per
// transfer.
type Transaction struct {
	ID          string
	AccountID   string
	Kind        TransactionKind
	Amount      decimal.Decimal
	Description string
	SenderID    string
	RecipientID string
	CreatedAt   time.Time

	// Counterparty display names, populated by history queries.
	SenderName    string
	RecipientName string
}

// IsSelf reports whether the entry is a self-transaction (charge or
// conversion, where sender and recipient are the same account).
func (t *Transaction) IsSelf() bool {
	return t.SenderID == t.RecipientID
}

// Sent reports whether the owning account is the sending side of the
// entry.
func (t *Transaction) Sent() bool {
	return t.AccountID == t.SenderID
}
