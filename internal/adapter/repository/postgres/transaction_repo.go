package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
// Ledger rows are append-only: this repository exposes no update or
// delete path.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a ledger entry inside the given transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO transactions (id, account_id, kind, amount, description, sender_id, recipient_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.AccountID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		entry.Description,
		entry.SenderID,
		entry.RecipientID,
		entry.CreatedAt,
	)

	return err
}

// ListByAccount returns the account's ledger entries newest first, with
// counterparty display names joined in for history rendering.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.kind, t.amount, t.description,
		       t.sender_id, t.recipient_id, t.created_at,
		       COALESCE(NULLIF(s.name, ''), s.email) AS sender_name,
		       COALESCE(NULLIF(rc.name, ''), rc.email) AS recipient_name
		FROM transactions t
		JOIN accounts s ON s.id = t.sender_id
		JOIN accounts rc ON rc.id = t.recipient_id
		WHERE t.account_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Transaction
	for rows.Next() {
		var entry domain.Transaction
		var kind string
		var amount pgtype.Numeric

		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&kind,
			&amount,
			&entry.Description,
			&entry.SenderID,
			&entry.RecipientID,
			&entry.CreatedAt,
			&entry.SenderName,
			&entry.RecipientName,
		)
		if err != nil {
			return nil, err
		}

		entry.Kind = domain.TransactionKind(kind)
		entry.Amount = numericToDecimal(amount)
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
