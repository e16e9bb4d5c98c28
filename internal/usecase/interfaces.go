package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
}

// WalletRepository defines data access for wallets. Methods taking a
// Transaction run inside that transaction; the ForUpdate variants lock
// the selected rows until commit.
type WalletRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error)
	GetByAccountIDForUpdate(ctx context.Context, tx Transaction, accountID string) (*domain.Wallet, error)
	GetByAccountIDsForUpdate(ctx context.Context, tx Transaction, accountIDs []string) ([]*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx Transaction, accountID string, cash decimal.Decimal, points int64, updatedAt time.Time) error
	// UpsertCashCredit creates the wallet with the given cash amount, or
	// increments the cash balance if it already exists.
	UpsertCashCredit(ctx context.Context, tx Transaction, accountID string, amount decimal.Decimal, now time.Time) error
	// UpsertPointsCredit creates the wallet with the given points, or
	// increments the points balance if it already exists.
	UpsertPointsCredit(ctx context.Context, tx Transaction, accountID string, points int64, now time.Time) error
}

// TransactionRepository defines data access for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Transaction) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
