package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"retailpos/m/domain"
)

func (h *Handler) listSellable(w http.ResponseWriter, r *http.Request) {
	branchID := strings.TrimSpace(r.URL.Query().Get("branch_id"))
	if branchID == "" {
		respondError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	var codes []string
	for _, code := range strings.Split(r.URL.Query().Get("codes"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}

	products, err := h.Sellable.MergeForBranch(r.Context(), branchID, codes...)
	if err != nil {
		h.Logger.Error("sellable listing failed", zap.String("branch_id", branchID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to list products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

type adjustRequest struct {
	ProductCode string `json:"product_code"`
	BranchID    string `json:"branch_id"`
	Delta       int64  `json:"delta"`
}

func (h *Handler) adjustInventory(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, roleManager) {
		return
	}
	var req adjustRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductCode == "" || req.BranchID == "" {
		respondError(w, http.StatusBadRequest, "product_code and branch_id are required")
		return
	}

	qty, err := h.Inventory.Adjust(r.Context(), req.ProductCode, req.BranchID, req.Delta)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"product_code": req.ProductCode,
		"branch_id":    req.BranchID,
		"quantity":     qty,
	})
}

type transferRequest struct {
	ProductCode  string `json:"product_code"`
	FromBranchID string `json:"from_branch_id"`
	ToBranchID   string `json:"to_branch_id"`
	Quantity     int64  `json:"quantity"`
}

func (h *Handler) transferInventory(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, roleManager) {
		return
	}
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductCode == "" || req.FromBranchID == "" || req.ToBranchID == "" {
		respondError(w, http.StatusBadRequest, "product_code, from_branch_id and to_branch_id are required")
		return
	}

	if err := h.Inventory.Transfer(r.Context(), req.ProductCode, req.FromBranchID, req.ToBranchID, req.Quantity); err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrSameBranch):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInventoryNotFound), errors.Is(err, domain.ErrInsufficientInventory):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.Logger.Error("inventory update failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to update inventory")
	}
}
