package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/pointswallet/internal/adapter/http/dto"
	"github.com/iho/pointswallet/internal/adapter/http/middleware"
	"github.com/iho/pointswallet/internal/infrastructure/metrics"
)

// TransferHandler handles point transfer requests.
type TransferHandler struct {
	transferUC transferService
	walletUC   walletService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC transferService, walletUC walletService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{
		transferUC: transferUC,
		walletUC:   walletUC,
		metrics:    m,
	}
}

// Transfer sends points from the authenticated account to the named
// recipient, provisioning a recipient account when none exists.
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.transferUC.TransferPoints(r.Context(), req.ToUseCaseInput(senderID)); err != nil {
		h.metrics.WalletErrors.WithLabelValues("transfer", errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to transfer points", err.Error())
		return
	}

	h.metrics.TransfersCreated.Inc()
	h.metrics.TransferPoints.Observe(float64(req.Points))

	// Return the sender's post-transfer balances.
	wallet, err := h.walletUC.GetWallet(r.Context(), senderID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}
