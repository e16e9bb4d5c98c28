package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
)

// WalletUseCase handles wallet balance operations: charging cash and
// converting cash to points. Each operation runs as one atomic
// transaction; balance preconditions are re-validated under row locks
// inside that transaction, never trusted from an earlier read.
type WalletUseCase struct {
	txManager       TransactionManager
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	cache           Cache
	retrier         Retrier
}

// NewWalletUseCase creates a new WalletUseCase. Cache may be nil to
// disable balance caching.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:       txManager,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		cache:           cache,
		retrier:         retrier,
	}
}

// Charge credits the caller's cash balance by amount, creating the
// wallet on first use, and appends one self-referencing CHARGE entry.
func (uc *WalletUseCase) Charge(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if err := domain.ValidateChargeAmount(amount); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	err := uc.retrier.Retry(ctx, func() error {
		return uc.chargeTx(ctx, accountID, amount)
	})
	if err != nil {
		return err
	}

	uc.invalidateWallet(ctx, accountID)

	return nil
}

func (uc *WalletUseCase) chargeTx(ctx context.Context, accountID string, amount decimal.Decimal) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if err := uc.walletRepo.UpsertCashCredit(ctx, tx, accountID, amount, now); err != nil {
		return err
	}

	entry := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   accountID,
		Kind:        domain.KindCharge,
		Amount:      amount,
		Description: fmt.Sprintf("Charged wallet with $%s", amount.StringFixed(2)),
		SenderID:    accountID,
		RecipientID: accountID,
		CreatedAt:   now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Convert exchanges amount of cash for points at the fixed ratio. The
// fractional remainder below one point is truncated, not credited
// back. The cash balance is checked under a row lock in the same
// transaction that performs the debit, so two concurrent conversions
// cannot both spend the same balance.
func (uc *WalletUseCase) Convert(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if err := domain.ValidateChargeAmount(amount); err != nil {
		return err
	}

	points := amount.Mul(decimal.NewFromInt(PointsPerCashUnit)).Floor().IntPart()

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	err := uc.retrier.Retry(ctx, func() error {
		return uc.convertTx(ctx, accountID, amount, points)
	})
	if err != nil {
		return err
	}

	uc.invalidateWallet(ctx, accountID)

	return nil
}

func (uc *WalletUseCase) convertTx(ctx context.Context, accountID string, amount decimal.Decimal, points int64) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	wallet, err := uc.walletRepo.GetByAccountIDForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return domain.ErrInsufficientBalance
		}

		return err
	}

	if err := wallet.ValidateCashDebit(amount); err != nil {
		return err
	}

	now := time.Now().UTC()

	newCash := wallet.ApplyCashDebit(amount)
	newPoints := wallet.PointsBalance + points

	if err := uc.walletRepo.UpdateBalances(ctx, tx, accountID, newCash, newPoints, now); err != nil {
		return err
	}

	entry := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   accountID,
		Kind:        domain.KindConversion,
		Amount:      amount,
		Description: fmt.Sprintf("Converted $%s to %d points", amount.StringFixed(2), points),
		SenderID:    accountID,
		RecipientID: accountID,
		CreatedAt:   now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetWallet returns the caller's balances. An account with no wallet
// yet reads as zero cash and zero points.
func (uc *WalletUseCase) GetWallet(ctx context.Context, accountID string) (*domain.Wallet, error) {
	if wallet, ok := uc.cachedWallet(ctx, accountID); ok {
		return wallet, nil
	}

	wallet, err := uc.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			wallet = &domain.Wallet{
				AccountID:     accountID,
				CashBalance:   decimal.Zero,
				PointsBalance: 0,
			}
		} else {
			return nil, err
		}
	}

	uc.storeWallet(ctx, wallet)

	return wallet, nil
}

type cachedWallet struct {
	Cash   string `json:"cash"`
	Points int64  `json:"points"`
}

func walletCacheKey(accountID string) string {
	return "wallet:" + accountID
}

func (uc *WalletUseCase) cachedWallet(ctx context.Context, accountID string) (*domain.Wallet, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, walletCacheKey(accountID))
	if err != nil || data == nil {
		return nil, false
	}

	var cached cachedWallet
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	cash, err := decimal.NewFromString(cached.Cash)
	if err != nil {
		return nil, false
	}

	return &domain.Wallet{
		AccountID:     accountID,
		CashBalance:   cash,
		PointsBalance: cached.Points,
	}, true
}

func (uc *WalletUseCase) storeWallet(ctx context.Context, wallet *domain.Wallet) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(cachedWallet{
		Cash:   wallet.CashBalance.StringFixed(2),
		Points: wallet.PointsBalance,
	})
	if err != nil {
		return
	}

	// Cache failures only cost a database read.
	_ = uc.cache.Set(ctx, walletCacheKey(wallet.AccountID), data, WalletCacheTTL)
}

func (uc *WalletUseCase) invalidateWallet(ctx context.Context, accountID string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, walletCacheKey(accountID))
}
