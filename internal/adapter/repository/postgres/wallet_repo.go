package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

const walletColumns = `account_id, cash_balance, points_balance, created_at, updated_at`

// GetByAccountID retrieves a wallet without locking.
func (r *WalletRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE account_id = $1`, accountID)

	return scanWallet(row)
}

// GetByAccountIDForUpdate retrieves a wallet with a FOR UPDATE row lock.
// Must run inside the given transaction; the lock holds until commit.
func (r *WalletRepository) GetByAccountIDForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE account_id = $1 FOR UPDATE`, accountID)

	return scanWallet(row)
}

// GetByAccountIDsForUpdate locks and returns the wallets that exist for
// the given account ids. Callers pass ids pre-sorted to keep lock
// acquisition order consistent across concurrent transactions.
func (r *WalletRepository) GetByAccountIDsForUpdate(ctx context.Context, tx usecase.Transaction, accountIDs []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx,
		`SELECT `+walletColumns+`
		 FROM wallets
		 WHERE account_id = ANY($1)
		 ORDER BY account_id
		 FOR UPDATE`, accountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		var cash pgtype.Numeric

		err := rows.Scan(&w.AccountID, &cash, &w.PointsBalance, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, err
		}

		w.CashBalance = numericToDecimal(cash)
		wallets = append(wallets, &w)
	}

	return wallets, rows.Err()
}

// UpdateBalances sets both balances of an existing wallet.
func (r *WalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, accountID string, cash decimal.Decimal, points int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE wallets
		 SET cash_balance = $2, points_balance = $3, updated_at = $4
		 WHERE account_id = $1`,
		accountID, decimalToNumeric(cash), points, updatedAt)

	return err
}

// UpsertCashCredit creates the wallet with the given cash balance, or
// atomically increments the cash balance if the wallet exists. The
// single statement takes the row lock itself, so a concurrent create
// and increment cannot lose an update.
func (r *WalletRepository) UpsertCashCredit(ctx context.Context, tx usecase.Transaction, accountID string, amount decimal.Decimal, now time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO wallets (account_id, cash_balance, points_balance, created_at, updated_at)
		 VALUES ($1, $2, 0, $3, $3)
		 ON CONFLICT (account_id) DO UPDATE
		 SET cash_balance = wallets.cash_balance + EXCLUDED.cash_balance,
		     updated_at = EXCLUDED.updated_at`,
		accountID, decimalToNumeric(amount), now)

	return err
}

// UpsertPointsCredit creates the wallet with the given points balance,
// or atomically increments the points balance if the wallet exists.
func (r *WalletRepository) UpsertPointsCredit(ctx context.Context, tx usecase.Transaction, accountID string, points int64, now time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO wallets (account_id, cash_balance, points_balance, created_at, updated_at)
		 VALUES ($1, 0, $2, $3, $3)
		 ON CONFLICT (account_id) DO UPDATE
		 SET points_balance = wallets.points_balance + EXCLUDED.points_balance,
		     updated_at = EXCLUDED.updated_at`,
		accountID, points, now)

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var w domain.Wallet
	var cash pgtype.Numeric

	err := row.Scan(&w.AccountID, &cash, &w.PointsBalance, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	w.CashBalance = numericToDecimal(cash)

	return &w, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
