package handler

import (
	"net/http"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminHandler manages currencies and pair rates.
type AdminHandler struct {
	svc *service.CurrencyService
}

func NewAdminHandler(svc *service.CurrencyService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type upsertCurrencyRequest struct {
	Name         string   `json:"name" validate:"max=64"`
	PriceType    string   `json:"price_type" validate:"omitempty,oneof=fixed percentage"`
	ExchangeRate fx.Price `json:"exchange_rate"`
	BuyingPrice  fx.Price `json:"buying_price"`
	SellingPrice fx.Price `json:"selling_price"`
}

func (h *AdminHandler) UpsertCurrency(w http.ResponseWriter, r *http.Request) {
	var req upsertCurrencyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.svc.Upsert(r.Context(), requestActor(r), fx.Currency{
		Code:         chi.URLParam(r, "code"),
		Name:         req.Name,
		PriceType:    fx.PriceType(req.PriceType),
		ExchangeRate: req.ExchangeRate,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		writeServiceError(w, r, err, "upsert currency")
		return
	}
	RespondJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) DeleteCurrency(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), requestActor(r), chi.URLParam(r, "code")); err != nil {
		writeServiceError(w, r, err, "delete currency")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createPairRateRequest struct {
	FromCode     string   `json:"from_code" validate:"required"`
	ToCode       string   `json:"to_code" validate:"required,nefield=FromCode"`
	PriceType    string   `json:"price_type" validate:"omitempty,oneof=fixed percentage"`
	BuyingPrice  fx.Price `json:"buying_price"`
	SellingPrice fx.Price `json:"selling_price"`
}

func (h *AdminHandler) CreatePairRate(w http.ResponseWriter, r *http.Request) {
	var req createPairRateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.svc.CreatePairRate(r.Context(), requestActor(r), fx.PairRate{
		FromCode:     req.FromCode,
		ToCode:       req.ToCode,
		PriceType:    fx.PriceType(req.PriceType),
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		writeServiceError(w, r, err, "create pair rate")
		return
	}
	RespondJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) DeletePairRate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePairRate(r.Context(), requestActor(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "delete pair rate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
