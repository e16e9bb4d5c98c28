package handler

import (
	"net/http"

	"github.com/iho/pointswallet/internal/adapter/http/dto"
	"github.com/iho/pointswallet/internal/adapter/http/middleware"
	"github.com/iho/pointswallet/internal/usecase"
)

// TransactionHandler handles transaction history requests.
type TransactionHandler struct {
	historyUC historyService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(historyUC historyService) *TransactionHandler {
	return &TransactionHandler{historyUC: historyUC}
}

// List returns the authenticated account's history, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	items, err := h.historyUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromHistoryItems(items))
}
