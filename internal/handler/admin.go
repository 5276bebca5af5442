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

// AdminHandler groups the admin-only surface: account management, CSV
// export, and backup archives.
type AdminHandler struct {
	userService   *service.UserService
	exportService *service.ExportService
	backupService *service.BackupService
	validator     *validator.Validate
}

func NewAdminHandler(
	userService *service.UserService,
	exportService *service.ExportService,
	backupService *service.BackupService,
) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		exportService: exportService,
		backupService: backupService,
		validator:     validator.New(),
	}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, users)
}

// CreateUser handles POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), actorName(r), &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, user)
}

// UpdateUser handles PUT /api/v1/admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID", err)
		return
	}

	var req domain.UpdateUserRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err = h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), actorName(r), id, &req)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID", err)
		return
	}

	session := SessionFromContext(r.Context())
	if err = h.userService.DeleteUser(r.Context(), session, id); err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "User deleted"})
}

// Audit handles GET /api/v1/admin/audit?limit=N
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.userService.RecentActivity(r.Context(), limit)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, entries)
}

// Export handles GET /api/v1/admin/export?type=full|vehicles|sellers|buyers|installments
// The CSV streams directly as an attachment rather than through the
// JSON envelope.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	exportType := r.URL.Query().Get("type")
	if exportType == "" {
		exportType = service.ExportFull
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportType+`.csv"`)

	if err := h.exportService.ExportCSV(r.Context(), exportType, w); err != nil {
		// Headers may already be out; nothing sensible left to send.
		return
	}
}

// ListBackups handles GET /api/v1/admin/backups
func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupService.ListBackups(r.Context())
	if err != nil {
		response.InternalServerError(w, "Listing backups failed", err)
		return
	}

	response.Success(w, backups)
}

// CreateBackup handles POST /api/v1/admin/backups
func (h *AdminHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backupService.CreateBackup(r.Context(), actorName(r))
	if err != nil {
		response.InternalServerError(w, "Creating backup failed", err)
		return
	}

	response.Created(w, backup)
}

// DownloadBackup handles GET /api/v1/admin/backups/{name}
func (h *AdminHandler) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	path, err := h.backupService.BackupPath(name)
	if err != nil {
		response.NotFound(w, "Backup not found")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}

// DeleteBackup handles DELETE /api/v1/admin/backups/{name}
func (h *AdminHandler) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.backupService.DeleteBackup(r.Context(), actorName(r), name); err != nil {
		response.NotFound(w, "Backup not found")
		return
	}

	response.Success(w, map[string]string{"message": "Backup deleted"})
}
