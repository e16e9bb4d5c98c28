package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
)

// HistoryUseCase builds the user-facing transaction history: a pure
// read-side projection over ledger entries, with display labels derived
// from each row's kind and the viewer's role.
type HistoryUseCase struct {
	transactionRepo TransactionRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(transactionRepo TransactionRepository) *HistoryUseCase {
	return &HistoryUseCase{transactionRepo: transactionRepo}
}

// HistoryItem is one formatted history row.
type HistoryItem struct {
	ID            string
	TypeLabel     string
	AmountDisplay string
	Description   string
	Party         string
	CreatedAt     time.Time
}

// ListTransactionsInput represents input for listing history.
type ListTransactionsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactions returns the viewer's ledger entries, newest first.
// An account with no activity gets an empty list, not an error.
func (uc *HistoryUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*HistoryItem, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	entries, err := uc.transactionRepo.ListByAccount(ctx, input.AccountID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*HistoryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, formatEntry(entry))
	}

	return items, nil
}

func formatEntry(entry *domain.Transaction) *HistoryItem {
	item := &HistoryItem{
		ID:          entry.ID,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}

	switch entry.Kind {
	case domain.KindCharge:
		item.TypeLabel = "Wallet Charge"
		item.AmountDisplay = "+ $" + entry.Amount.StringFixed(2)
		item.Party = "Self"

	case domain.KindConversion:
		points := entry.Amount.Mul(decimal.NewFromInt(PointsPerCashUnit)).Floor().IntPart()
		item.TypeLabel = "Points Conversion"
		item.AmountDisplay = fmt.Sprintf("- $%s / + %d points", entry.Amount.StringFixed(2), points)
		item.Party = "Self"

	case domain.KindTransfer:
		switch {
		case entry.IsSelf():
			item.TypeLabel = "Points Transfer (Self)"
			item.AmountDisplay = entry.Amount.StringFixed(0) + " points"
			item.Party = "Self"
		case entry.Sent():
			item.TypeLabel = "Points Sent"
			item.AmountDisplay = "- " + entry.Amount.StringFixed(0) + " points"
			item.Party = "To: " + counterpartyName(entry.RecipientName, entry.RecipientID)
		default:
			item.TypeLabel = "Points Received"
			item.AmountDisplay = "+ " + entry.Amount.StringFixed(0) + " points"
			item.Party = "From: " + counterpartyName(entry.SenderName, entry.SenderID)
		}

	default:
		item.TypeLabel = "Unknown"
		item.AmountDisplay = entry.Amount.StringFixed(2)
	}

	return item
}

func counterpartyName(name, id string) string {
	if name != "" {
		return name
	}

	return id
}
