package dto

import (
	"time"

	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// AuthResponse represents a successful signup or login.
type AuthResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// WalletResponse represents wallet balances in API responses.
// Cash is formatted to two decimal places.
type WalletResponse struct {
	CashBalance   string    `json:"cash_balance"`
	PointsBalance int64     `json:"points_balance"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		CashBalance:   w.CashBalance.StringFixed(2),
		PointsBalance: w.PointsBalance,
		UpdatedAt:     w.UpdatedAt,
	}
}

// TransactionResponse represents one history row in API responses.
type TransactionResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Detail    string    `json:"detail"`
	Party     string    `json:"party"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionFromHistoryItem converts a formatted history item to a response.
func TransactionFromHistoryItem(item *usecase.HistoryItem) *TransactionResponse {
	return &TransactionResponse{
		ID:        item.ID,
		Type:      item.TypeLabel,
		Amount:    item.AmountDisplay,
		Detail:    item.Description,
		Party:     item.Party,
		CreatedAt: item.CreatedAt,
	}
}

// TransactionsFromHistoryItems converts history items to responses.
func TransactionsFromHistoryItems(items []*usecase.HistoryItem) []*TransactionResponse {
	result := make([]*TransactionResponse, len(items))
	for i, item := range items {
		result[i] = TransactionFromHistoryItem(item)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
