package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/pointswallet/internal/domain"
)

// UserUseCase handles signup and credential verification. It sits at
// the identity boundary: balance operations receive an already
// verified account id and never touch credentials.
type UserUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(accountRepo AccountRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// SignupInput represents input for creating an account.
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// Signup creates a new account with a bcrypt-hashed password.
func (uc *UserUseCase) Signup(ctx context.Context, input SignupInput) (*domain.Account, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		HashedPassword: string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	account.HashedPassword = ""

	return account, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies credentials and returns the account. Accounts
// provisioned as transfer recipients have no usable credential and
// always fail authentication.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthorized
		}

		return nil, err
	}

	if account.HashedPassword == "" {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	account.HashedPassword = ""

	return account, nil
}

// GetAccount retrieves an account by id.
func (uc *UserUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.HashedPassword = ""

	return account, nil
}
