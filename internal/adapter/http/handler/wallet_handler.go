package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/pointswallet/internal/adapter/http/dto"
	"github.com/iho/pointswallet/internal/adapter/http/middleware"
	"github.com/iho/pointswallet/internal/infrastructure/metrics"
	"github.com/iho/pointswallet/internal/usecase"
)

// WalletHandler handles wallet charge, conversion and balance requests.
type WalletHandler struct {
	walletUC walletService
	metrics  *metrics.Metrics
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC walletService, m *metrics.Metrics) *WalletHandler {
	return &WalletHandler{walletUC: walletUC, metrics: m}
}

// Charge adds cash to the authenticated account's wallet.
func (h *WalletHandler) Charge(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.Charge(r.Context(), accountID, req.Amount); err != nil {
		h.metrics.WalletErrors.WithLabelValues("charge", errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to charge wallet", err.Error())
		return
	}

	h.metrics.ChargesCreated.Inc()
	h.metrics.ChargeAmount.Observe(req.Amount.InexactFloat64())

	h.respondWithWallet(w, r, accountID, http.StatusCreated)
}

// Convert exchanges wallet cash for points.
func (h *WalletHandler) Convert(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.Convert(r.Context(), accountID, req.Amount); err != nil {
		h.metrics.WalletErrors.WithLabelValues("convert", errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to convert cash to points", err.Error())
		return
	}

	h.metrics.ConversionsMade.Inc()
	h.metrics.ConversionPoints.Observe(float64(req.Amount.Mul(decimal.NewFromInt(usecase.PointsPerCashUnit)).Floor().IntPart()))

	h.respondWithWallet(w, r, accountID, http.StatusCreated)
}

// Get returns the authenticated account's wallet balances.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	h.respondWithWallet(w, r, accountID, http.StatusOK)
}

func (h *WalletHandler) respondWithWallet(w http.ResponseWriter, r *http.Request, accountID string, status int) {
	wallet, err := h.walletUC.GetWallet(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load wallet", err.Error())
		return
	}

	writeJSON(w, status, dto.WalletFromDomain(wallet))
}
