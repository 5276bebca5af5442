package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/service"
	"github.com/madan1440/svlf-software/pkg/response"
)

type VehicleHandler struct {
	vehicleService *service.VehicleService
	validator      *validator.Validate
}

func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		validator:      validator.New(),
	}
}

// List handles GET /api/v1/vehicles
// Query params: q, type (Car|Bike), metric (ALL|Stock|Sold|EMI_PENDING),
// offset, limit.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	offset, _ := strconv.Atoi(query.Get("offset"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.vehicleService.ListVehicles(
		r.Context(),
		query.Get("q"),
		query.Get("type"),
		query.Get("metric"),
		offset,
		limit,
	)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /api/v1/vehicles/{id}
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID", err)
		return
	}

	detail, err := h.vehicleService.GetVehicleDetail(r.Context(), id)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, detail)
}

// Create handles POST /api/v1/vehicles
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	vehicle, err := h.vehicleService.AddVehicle(r.Context(), actorName(r), &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, vehicle)
}

// Update handles PUT /api/v1/vehicles/{id}
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID", err)
		return
	}

	var req domain.SaveVehicleRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err = h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(r.Context(), actorName(r), id, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, vehicle)
}

// Delete handles DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID", err)
		return
	}

	if err = h.vehicleService.DeleteVehicle(r.Context(), actorName(r), id); err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Vehicle deleted"})
}

// Dashboard handles GET /api/v1/dashboard?type=Car|Bike
func (h *VehicleHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	vehicleType := r.URL.Query().Get("type")
	if vehicleType != domain.VehicleTypeCar && vehicleType != domain.VehicleTypeBike {
		response.BadRequest(w, "type must be Car or Bike", nil)
		return
	}

	metrics, err := h.vehicleService.DashboardMetrics(r.Context(), vehicleType)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, metrics)
}

func vehicleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// actorName is the audit identity of the request, blank for routes
// outside the auth middleware.
func actorName(r *http.Request) string {
	if session := SessionFromContext(r.Context()); session != nil {
		return session.Username
	}
	return ""
}
