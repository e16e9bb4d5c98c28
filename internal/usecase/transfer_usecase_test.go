package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/usecase"
	"github.com/iho/pointswallet/internal/usecase/mocks"
)

func seedSender(accountRepo *mocks.MockAccountRepository, walletRepo *mocks.MockWalletRepository, points int64) {
	accountRepo.Seed(&domain.Account{ID: "acc-alice", Email: "alice@example.com", Name: "alice"})
	walletRepo.Seed(&domain.Wallet{AccountID: "acc-alice", CashBalance: decimal.Zero, PointsBalance: points})
}

func newTransferUseCase(accountRepo *mocks.MockAccountRepository, walletRepo *mocks.MockWalletRepository, txRepo *mocks.MockTransactionRepository) *usecase.TransferUseCase {
	return usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		walletRepo,
		txRepo,
		mocks.NewMockIDGenerator(),
		nil,
		mocks.NewMockRetrier(),
	)
}

func TestTransferUseCase_TransferPoints(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.TransferPointsInput
		setup       func(*mocks.MockAccountRepository, *mocks.MockWalletRepository)
		expectError error
	}{
		{
			name:  "transfer to existing account with wallet",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "bob", Points: 100},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 900)
				accounts.Seed(&domain.Account{ID: "acc-bob", Email: "bob@example.com", Name: "bob"})
				wallets.Seed(&domain.Wallet{AccountID: "acc-bob", CashBalance: decimal.Zero, PointsBalance: 50})
			},
		},
		{
			name:  "transfer provisions unknown recipient",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "carol", Points: 100},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 500)
			},
		},
		{
			name:  "recipient matched by email",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "bob@example.com", Points: 10},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 10)
				accounts.Seed(&domain.Account{ID: "acc-bob", Email: "bob@example.com", Name: "bob"})
			},
		},
		{
			name:  "insufficient points",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "bob", Points: 1000},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 100)
				accounts.Seed(&domain.Account{ID: "acc-bob", Email: "bob@example.com", Name: "bob"})
			},
			expectError: domain.ErrInsufficientPoints,
		},
		{
			name:  "sender without wallet has zero points",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "bob", Points: 1},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				accounts.Seed(&domain.Account{ID: "acc-alice", Email: "alice@example.com", Name: "alice"})
				accounts.Seed(&domain.Account{ID: "acc-bob", Email: "bob@example.com", Name: "bob"})
			},
			expectError: domain.ErrInsufficientPoints,
		},
		{
			name:  "self transfer by name rejected",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "alice", Points: 10},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 100)
			},
			expectError: domain.ErrSelfTransfer,
		},
		{
			name:  "zero points rejected",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "bob", Points: 0},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 100)
			},
			expectError: domain.ErrInvalidPoints,
		},
		{
			name:  "blank recipient rejected",
			input: usecase.TransferPointsInput{SenderID: "acc-alice", RecipientIdentifier: "  ", Points: 10},
			setup: func(accounts *mocks.MockAccountRepository, wallets *mocks.MockWalletRepository) {
				seedSender(accounts, wallets, 100)
			},
			expectError: domain.ErrMissingRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountRepo := mocks.NewMockAccountRepository()
			walletRepo := mocks.NewMockWalletRepository()
			txRepo := mocks.NewMockTransactionRepository()
			tt.setup(accountRepo, walletRepo)

			senderBefore := walletRepo.Wallet("acc-alice")
			var pointsBefore int64
			if senderBefore != nil {
				pointsBefore = senderBefore.PointsBalance
			}

			uc := newTransferUseCase(accountRepo, walletRepo, txRepo)
			err := uc.TransferPoints(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("TransferPoints() = %v, want %v", err, tt.expectError)
				}
				if len(txRepo.Entries()) != 0 {
					t.Error("failed transfer must not write ledger entries")
				}
				if sender := walletRepo.Wallet("acc-alice"); sender != nil && sender.PointsBalance != pointsBefore {
					t.Error("failed transfer must not mutate the sender wallet")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sender := walletRepo.Wallet("acc-alice")
			if sender.PointsBalance != pointsBefore-tt.input.Points {
				t.Errorf("sender points = %d, want %d", sender.PointsBalance, pointsBefore-tt.input.Points)
			}

			entries := txRepo.Entries()
			if len(entries) != 2 {
				t.Fatalf("expected two transfer ledger entries, got %d", len(entries))
			}

			sent, received := entries[0], entries[1]
			if sent.SenderID != received.SenderID || sent.RecipientID != received.RecipientID {
				t.Error("both transfer rows must carry identical sender/recipient ids")
			}
			if sent.AccountID != sent.SenderID {
				t.Error("first row must be owned by the sender")
			}
			if received.AccountID != received.RecipientID {
				t.Error("second row must be owned by the recipient")
			}
			if !strings.Contains(sent.Description, "Transferred") || !strings.Contains(received.Description, "Received") {
				t.Errorf("descriptions not mirrored: %q / %q", sent.Description, received.Description)
			}

			recipient := walletRepo.Wallet(sent.RecipientID)
			if recipient == nil {
				t.Fatal("recipient wallet missing after transfer")
			}
			if recipient.AccountID != "acc-alice" && sender.PointsBalance+recipient.PointsBalance < tt.input.Points {
				t.Error("points not conserved across the transfer")
			}
		})
	}
}

func TestTransferUseCase_TransferCreatesRecipientWallet(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	walletRepo := mocks.NewMockWalletRepository()
	txRepo := mocks.NewMockTransactionRepository()
	seedSender(accountRepo, walletRepo, 1000)

	uc := newTransferUseCase(accountRepo, walletRepo, txRepo)

	err := uc.TransferPoints(context.Background(), usecase.TransferPointsInput{
		SenderID:            "acc-alice",
		RecipientIdentifier: "bob",
		Points:              100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bob, err := accountRepo.GetByName(context.Background(), "bob")
	if err != nil {
		t.Fatalf("provisioned account not found: %v", err)
	}
	if bob.Email != "bob@demo.local" {
		t.Errorf("provisioned email = %s, want bob@demo.local", bob.Email)
	}
	if bob.HashedPassword != "" {
		t.Error("provisioned account must not carry a usable credential")
	}

	wallet := walletRepo.Wallet(bob.ID)
	if wallet == nil {
		t.Fatal("recipient wallet was not created")
	}
	if !wallet.CashBalance.IsZero() || wallet.PointsBalance != 100 {
		t.Errorf("recipient wallet = %s cash / %d points, want 0.00 / 100", wallet.CashBalance, wallet.PointsBalance)
	}
}

func TestTransferUseCase_ResolveRecipient(t *testing.T) {
	t.Run("found by name is not provisioned", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		accountRepo.Seed(&domain.Account{ID: "acc-bob", Email: "bob@example.com", Name: "bob"})

		uc := newTransferUseCase(accountRepo, mocks.NewMockWalletRepository(), mocks.NewMockTransactionRepository())

		resolved, err := uc.ResolveRecipient(context.Background(), "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Provisioned {
			t.Error("existing account must not be reported as provisioned")
		}
		if resolved.Account.ID != "acc-bob" {
			t.Errorf("resolved id = %s, want acc-bob", resolved.Account.ID)
		}
	})

	t.Run("unknown identifier is provisioned", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()

		uc := newTransferUseCase(accountRepo, mocks.NewMockWalletRepository(), mocks.NewMockTransactionRepository())

		resolved, err := uc.ResolveRecipient(context.Background(), "Carol")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resolved.Provisioned {
			t.Error("new account must be reported as provisioned")
		}
		if resolved.Account.Name != "Carol" || resolved.Account.Email != "carol@demo.local" {
			t.Errorf("provisioned account = %s / %s", resolved.Account.Name, resolved.Account.Email)
		}
	})

	t.Run("duplicate race retries lookup once", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		winner := &domain.Account{ID: "acc-bob", Email: "bob@demo.local", Name: "bob", CreatedAt: time.Now()}

		calls := 0
		accountRepo.GetByNameFunc = func(ctx context.Context, name string) (*domain.Account, error) {
			calls++
			if calls == 1 {
				// First lookup misses; a concurrent transfer wins the insert.
				return nil, domain.ErrAccountNotFound
			}
			return winner, nil
		}
		accountRepo.GetByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		}
		accountRepo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
			return domain.ErrDuplicateEmail
		}

		uc := newTransferUseCase(accountRepo, mocks.NewMockWalletRepository(), mocks.NewMockTransactionRepository())

		resolved, err := uc.ResolveRecipient(context.Background(), "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Provisioned {
			t.Error("losing the provisioning race must resolve to the winner's account")
		}
		if resolved.Account.ID != "acc-bob" {
			t.Errorf("resolved id = %s, want acc-bob", resolved.Account.ID)
		}
	})

	t.Run("persistent conflict surfaces as transient error", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepository()
		accountRepo.GetByNameFunc = func(ctx context.Context, name string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		}
		accountRepo.GetByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		}
		accountRepo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
			return domain.ErrDuplicateEmail
		}

		uc := newTransferUseCase(accountRepo, mocks.NewMockWalletRepository(), mocks.NewMockTransactionRepository())

		_, err := uc.ResolveRecipient(context.Background(), "bob")
		if !errors.Is(err, domain.ErrRecipientConflict) {
			t.Fatalf("ResolveRecipient() = %v, want %v", err, domain.ErrRecipientConflict)
		}
	})
}
