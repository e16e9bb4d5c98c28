package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/usecase"
)

// Service interfaces consumed by the handlers. The usecase types
// satisfy them; tests substitute stubs.

type walletService interface {
	Charge(ctx context.Context, accountID string, amount decimal.Decimal) error
	Convert(ctx context.Context, accountID string, amount decimal.Decimal) error
	GetWallet(ctx context.Context, accountID string) (*domain.Wallet, error)
}

type transferService interface {
	TransferPoints(ctx context.Context, input usecase.TransferPointsInput) error
}

type historyService interface {
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*usecase.HistoryItem, error)
}

type userService interface {
	Signup(ctx context.Context, input usecase.SignupInput) (*domain.Account, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
}
