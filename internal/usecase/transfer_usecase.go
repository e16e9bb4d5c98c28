package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
)

// TransferUseCase handles moving points between accounts, including
// resolving or provisioning the recipient.
type TransferUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	cache           Cache
	retrier         Retrier
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	walletRepo WalletRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		cache:           cache,
		retrier:         retrier,
	}
}

// ResolvedRecipient is the outcome of identity resolution: either an
// existing account was found, or a new one was provisioned for an
// unregistered recipient name.
type ResolvedRecipient struct {
	Account     *domain.Account
	Provisioned bool
}

// TransferPointsInput represents input for a points transfer.
type TransferPointsInput struct {
	SenderID            string
	RecipientIdentifier string
	Points              int64
}

// TransferPoints moves points from the sender to the resolved
// recipient. The sender's points balance is checked under a row lock in
// the same transaction that debits it. Two ledger entries are written
// per transfer, one owned by each party, both carrying the same
// sender/recipient ids with mirrored descriptions.
func (uc *TransferUseCase) TransferPoints(ctx context.Context, input TransferPointsInput) error {
	if err := domain.ValidatePoints(input.Points); err != nil {
		return err
	}

	if err := domain.ValidateRecipientIdentifier(input.RecipientIdentifier); err != nil {
		return err
	}

	sender, err := uc.accountRepo.GetByID(ctx, input.SenderID)
	if err != nil {
		return err
	}

	resolved, err := uc.ResolveRecipient(ctx, input.RecipientIdentifier)
	if err != nil {
		return err
	}

	recipient := resolved.Account
	if recipient.ID == sender.ID {
		return domain.ErrSelfTransfer
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	err = uc.retrier.Retry(ctx, func() error {
		return uc.transferTx(ctx, sender, recipient, input.Points)
	})
	if err != nil {
		return err
	}

	uc.invalidateWallets(ctx, sender.ID, recipient.ID)

	return nil
}

// ResolveRecipient maps a user-supplied identifier to an account:
// lookup by display name first, then by email, then provision a new
// account using the identifier as both placeholder email local-part
// and display name. Provisioned accounts carry no usable login
// credential. Provisioning is idempotent under race: a unique-email
// violation triggers one retry of the lookup.
func (uc *TransferUseCase) ResolveRecipient(ctx context.Context, identifier string) (*ResolvedRecipient, error) {
	identifier = strings.TrimSpace(identifier)

	account, err := uc.lookupRecipient(ctx, identifier)
	if err == nil {
		return &ResolvedRecipient{Account: account}, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account = &domain.Account{
		ID:        uc.idGen.Generate(),
		Email:     fmt.Sprintf("%s@demo.local", strings.ToLower(identifier)),
		Name:      identifier,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.accountRepo.Create(ctx, account)
	if err == nil {
		return &ResolvedRecipient{Account: account, Provisioned: true}, nil
	}
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		return nil, err
	}

	// A concurrent transfer provisioned the same recipient first.
	account, lookupErr := uc.lookupRecipient(ctx, identifier)
	if lookupErr != nil {
		if errors.Is(lookupErr, domain.ErrAccountNotFound) {
			return nil, domain.ErrRecipientConflict
		}

		return nil, lookupErr
	}

	return &ResolvedRecipient{Account: account}, nil
}

func (uc *TransferUseCase) lookupRecipient(ctx context.Context, identifier string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByName(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	return uc.accountRepo.GetByEmail(ctx, identifier)
}

func (uc *TransferUseCase) transferTx(ctx context.Context, sender, recipient *domain.Account, points int64) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock wallets in sorted account-id order to avoid deadlocks
	// between opposing concurrent transfers.
	ids := []string{sender.ID, recipient.ID}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByAccountIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	var senderWallet, recipientWallet *domain.Wallet
	for _, w := range wallets {
		switch w.AccountID {
		case sender.ID:
			senderWallet = w
		case recipient.ID:
			recipientWallet = w
		}
	}

	// No wallet means zero points.
	if senderWallet == nil {
		return domain.ErrInsufficientPoints
	}

	if err := senderWallet.ValidatePointsDebit(points); err != nil {
		return err
	}

	now := time.Now().UTC()

	err = uc.walletRepo.UpdateBalances(ctx, tx, sender.ID, senderWallet.CashBalance, senderWallet.PointsBalance-points, now)
	if err != nil {
		return err
	}

	if recipientWallet != nil {
		err = uc.walletRepo.UpdateBalances(ctx, tx, recipient.ID, recipientWallet.CashBalance, recipientWallet.PointsBalance+points, now)
	} else {
		err = uc.walletRepo.UpsertPointsCredit(ctx, tx, recipient.ID, points, now)
	}
	if err != nil {
		return err
	}

	amount := decimal.NewFromInt(points)

	sentEntry := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   sender.ID,
		Kind:        domain.KindTransfer,
		Amount:      amount,
		Description: fmt.Sprintf("Transferred %d points to %s", points, recipient.DisplayName()),
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		CreatedAt:   now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, sentEntry); err != nil {
		return err
	}

	receivedEntry := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   recipient.ID,
		Kind:        domain.KindTransfer,
		Amount:      amount,
		Description: fmt.Sprintf("Received %d points from %s", points, sender.DisplayName()),
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		CreatedAt:   now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, receivedEntry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *TransferUseCase) invalidateWallets(ctx context.Context, accountIDs ...string) {
	if uc.cache == nil {
		return
	}

	for _, id := range accountIDs {
		_ = uc.cache.Delete(ctx, walletCacheKey(id))
	}
}
