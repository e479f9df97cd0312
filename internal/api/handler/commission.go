package handler

import (
	"net/http"

	"github.com/ayo6706/remittance-core/internal/commission"
	"github.com/ayo6706/remittance-core/internal/service"
	"github.com/go-chi/chi/v5"
)

type CommissionHandler struct {
	svc *service.CommissionService
}

func NewCommissionHandler(svc *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{svc: svc}
}

type commissionQuoteRequest struct {
	Kind   string   `json:"kind" validate:"required,oneof=send withdrawal"`
	Amount *float64 `json:"amount" validate:"required,gte=0"`
}

func (h *CommissionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req commissionQuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quote, err := h.svc.Quote(r.Context(), commission.Kind(req.Kind), *req.Amount)
	if err != nil {
		writeServiceError(w, r, err, "commission quote")
		return
	}
	RespondJSON(w, http.StatusOK, quote)
}

type tierRequest struct {
	MinAmount      *float64 `json:"min_amount" validate:"required,gte=0"`
	AgentPercent   float64  `json:"agent_percent" validate:"gte=0,lte=100"`
	CompanyPercent float64  `json:"company_percent" validate:"gte=0,lte=100"`
}

type replaceTiersRequest struct {
	Tiers []tierRequest `json:"tiers" validate:"required,dive"`
}

type tiersResponse struct {
	Kind  commission.Kind   `json:"kind"`
	Tiers []commission.Tier `json:"tiers"`
}

func (h *CommissionHandler) GetTiers(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	tiers, err := h.svc.Tiers(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, err, "list commission tiers")
		return
	}
	if tiers == nil {
		tiers = []commission.Tier{}
	}
	RespondJSON(w, http.StatusOK, tiersResponse{Kind: kind, Tiers: tiers})
}

// ReplaceTiers swaps the whole schedule of a kind.
func (h *CommissionHandler) ReplaceTiers(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	var req replaceTiersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tiers := make([]commission.Tier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		tiers = append(tiers, commission.Tier{
			MinAmount:      *t.MinAmount,
			AgentPercent:   t.AgentPercent,
			CompanyPercent: t.CompanyPercent,
		})
	}

	stored, err := h.svc.ReplaceTiers(r.Context(), requestActor(r), kind, tiers)
	if err != nil {
		writeServiceError(w, r, err, "replace commission tiers")
		return
	}
	RespondJSON(w, http.StatusOK, tiersResponse{Kind: kind, Tiers: stored})
}

func kindParam(w http.ResponseWriter, r *http.Request) (commission.Kind, bool) {
	kind, ok := commission.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-kind", "kind must be send or withdrawal")
		return "", false
	}
	return kind, true
}
