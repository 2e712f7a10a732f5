package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"retailpos/m/domain"
	"retailpos/m/internal/saga"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, roleManager, roleCashier) {
		return
	}
	var req domain.SaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.CreatedBy = userID(r)

	receipt, err := h.Sales.Execute(r.Context(), &req)
	if err != nil {
		h.respondSaleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) convertQuote(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, roleManager, roleCashier) {
		return
	}
	var req saga.ConvertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.QuoteID = chi.URLParam(r, "id")
	req.CreatedBy = userID(r)

	receipt, err := h.Sales.ConvertQuote(r.Context(), &req)
	if err != nil {
		h.respondSaleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) saleReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Receipts.Project(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrSaleNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("receipt projection failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to load receipt")
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

// respondSaleError maps saga failures onto HTTP. An incomplete rollback is
// flagged so the POS can warn instead of reporting a clean failure.
func (h *Handler) respondSaleError(w http.ResponseWriter, err error) {
	var (
		validationErr *saga.ValidationError
		compErr       *saga.CompensationError
		stepErr       *saga.StepError
	)
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &compErr):
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":        "sale failed and could not be fully rolled back",
			"sale_id":      compErr.Cause.SaleID,
			"stage":        compErr.Cause.Stage,
			"inconsistent": true,
		})
	case errors.Is(err, domain.ErrSaleNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotAQuote),
		errors.Is(err, domain.ErrInventoryNotFound),
		errors.Is(err, domain.ErrInsufficientInventory):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &stepErr) && stepErr.Stage == saga.StageReceipt:
		h.Logger.Error("sale recorded without receipt", zap.String("sale_id", stepErr.SaleID), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "sale recorded but receipt unavailable",
			"sale_id": stepErr.SaleID,
		})
	default:
		h.Logger.Error("sale failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "sale failed, nothing was charged")
	}
}
