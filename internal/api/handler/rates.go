package handler

import (
	"net/http"
	"strings"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/service"
	"github.com/go-chi/chi/v5"
)

// RatesHandler serves the public view of the rate configuration.
type RatesHandler struct {
	currencies  *service.CurrencyService
	conversions *service.ConversionService
}

func NewRatesHandler(currencies *service.CurrencyService, conversions *service.ConversionService) *RatesHandler {
	return &RatesHandler{currencies: currencies, conversions: conversions}
}

func (h *RatesHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencies.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list currencies")
		return
	}
	if currencies == nil {
		currencies = []fx.Currency{}
	}
	RespondJSON(w, http.StatusOK, map[string]any{"currencies": currencies})
}

func (h *RatesHandler) ListPairRates(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.currencies.ListPairRates(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list pair rates")
		return
	}
	if pairs == nil {
		pairs = []fx.PairRate{}
	}
	RespondJSON(w, http.StatusOK, map[string]any{"pair_rates": pairs})
}

type rateResponse struct {
	Code string  `json:"code"`
	Side fx.Side `json:"side"`
	Rate float64 `json:"rate"`
}

// GetRate reports a currency's effective rate in base units. side defaults
// to buying.
func (h *RatesHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	side := fx.Buying
	if raw := r.URL.Query().Get("side"); raw != "" {
		parsed, ok := fx.ParseSide(raw)
		if !ok {
			RespondError(w, r, http.StatusBadRequest, "request/invalid-side", "side must be buying or selling")
			return
		}
		side = parsed
	}

	rate, err := h.conversions.EffectiveRate(r.Context(), code, side)
	if err != nil {
		writeServiceError(w, r, err, "effective rate")
		return
	}
	RespondJSON(w, http.StatusOK, rateResponse{Code: code, Side: side, Rate: rate})
}
