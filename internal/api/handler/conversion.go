package handler

import (
	"net/http"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/service"
)

type ConversionHandler struct {
	svc *service.ConversionService
}

func NewConversionHandler(svc *service.ConversionService) *ConversionHandler {
	return &ConversionHandler{svc: svc}
}

type conversionQuoteRequest struct {
	Amount *float64 `json:"amount" validate:"required,gte=0"`
	From   string   `json:"from" validate:"required,alpha,min=2,max=5"`
	To     string   `json:"to" validate:"required,alpha,min=2,max=5"`
	Mode   string   `json:"mode" validate:"required,oneof=buying selling"`
}

// Quote prices a conversion. Unresolvable pairs answer 422.
func (h *ConversionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req conversionQuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quote, err := h.svc.Quote(r.Context(), service.ConvertInput{
		Amount: *req.Amount,
		From:   req.From,
		To:     req.To,
		Mode:   fx.Side(req.Mode),
	})
	if err != nil {
		writeServiceError(w, r, err, "conversion quote")
		return
	}
	RespondJSON(w, http.StatusOK, quote)
}
