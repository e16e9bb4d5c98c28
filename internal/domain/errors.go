package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("account with this email already exists")

	// Wallet errors
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInsufficientPoints  = errors.New("insufficient points for transfer")

	// Transfer errors
	ErrSelfTransfer      = errors.New("cannot transfer points to yourself")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidPoints     = errors.New("points must be a positive integer")
	ErrMissingRecipient  = errors.New("recipient is required")
	ErrRecipientConflict = errors.New("recipient could not be resolved, try again")
)

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
