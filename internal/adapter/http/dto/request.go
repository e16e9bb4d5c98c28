package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/usecase"
)

// SignupRequest represents a request to create an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *SignupRequest) ToUseCaseInput() usecase.SignupInput {
	return usecase.SignupInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChargeRequest represents a request to charge cash into the wallet.
type ChargeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ConvertRequest represents a request to convert cash into points.
type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest represents a request to send points to another account.
// Recipient holds a display name or an email address.
type TransferRequest struct {
	Recipient string `json:"recipient"`
	Points    int64  `json:"points"`
}

// ToUseCaseInput converts to use case input for the authenticated sender.
func (r *TransferRequest) ToUseCaseInput(senderID string) usecase.TransferPointsInput {
	return usecase.TransferPointsInput{
		SenderID:            senderID,
		RecipientIdentifier: r.Recipient,
		Points:              r.Points,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
