package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/service"
	"github.com/madan1440/svlf-software/pkg/response"
)

type SaleHandler struct {
	saleService *service.SaleService
	validator   *validator.Validate
}

func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		validator:   validator.New(),
	}
}

// Sell handles POST /api/v1/vehicles/{id}/sale
func (h *SaleHandler) Sell(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID", err)
		return
	}

	var req domain.SaleRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err = h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	buyer, schedule, err := h.saleService.SellVehicle(r.Context(), actorName(r), id, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, &domain.SaleResponse{Buyer: buyer, Schedule: schedule})
}

// UpdateBuyer handles PUT /api/v1/vehicles/{id}/buyer
func (h *SaleHandler) UpdateBuyer(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID", err)
		return
	}

	var req domain.BuyerUpdateRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err = h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	buyer, schedule, err := h.saleService.UpdateBuyer(r.Context(), actorName(r), id, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, &domain.SaleResponse{Buyer: buyer, Schedule: schedule})
}

// Pay handles POST /api/v1/installments/{id}/pay
func (h *SaleHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.setPaid(w, r, true)
}

// Unpay handles POST /api/v1/installments/{id}/unpay
func (h *SaleHandler) Unpay(w http.ResponseWriter, r *http.Request) {
	h.setPaid(w, r, false)
}

func (h *SaleHandler) setPaid(w http.ResponseWriter, r *http.Request, paid bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid installment ID", err)
		return
	}

	inst, err := h.saleService.SetInstallmentPaid(r.Context(), actorName(r), id, paid)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, inst)
}
