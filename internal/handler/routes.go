package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/madan1440/svlf-software/internal/service"
	"github.com/madan1440/svlf-software/pkg/response"
)

// Services bundles everything the router needs.
type Services struct {
	User    *service.UserService
	Vehicle *service.VehicleService
	Sale    *service.SaleService
	Export  *service.ExportService
	Backup  *service.BackupService
}

// NewRouter builds the full route table. Everything under /api/v1
// except login requires a session; /api/v1/admin additionally requires
// the admin role.
func NewRouter(db *sqlx.DB, redisClient *redis.Client, services *Services) *mux.Router {
	authHandler := NewAuthHandler(services.User)
	vehicleHandler := NewVehicleHandler(services.Vehicle)
	saleHandler := NewSaleHandler(services.Sale)
	adminHandler := NewAdminHandler(services.User, services.Export, services.Backup)
	healthHandler := NewHealthHandler(db, redisClient)

	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(services.User))

	authed.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	authed.HandleFunc("/dashboard", vehicleHandler.Dashboard).Methods(http.MethodGet)

	authed.HandleFunc("/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/vehicles", vehicleHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Delete).Methods(http.MethodDelete)

	authed.HandleFunc("/vehicles/{id:[0-9]+}/sale", saleHandler.Sell).Methods(http.MethodPost)
	authed.HandleFunc("/vehicles/{id:[0-9]+}/buyer", saleHandler.UpdateBuyer).Methods(http.MethodPut)

	authed.HandleFunc("/installments/{id}/pay", saleHandler.Pay).Methods(http.MethodPost)
	authed.HandleFunc("/installments/{id}/unpay", saleHandler.Unpay).Methods(http.MethodPost)

	admin := authed.PathPrefix("/admin").Subrouter()
	admin.Use(AdminOnly)

	admin.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", adminHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.DeleteUser).Methods(http.MethodDelete)

	admin.HandleFunc("/audit", adminHandler.Audit).Methods(http.MethodGet)

	admin.HandleFunc("/export", adminHandler.Export).Methods(http.MethodGet)

	admin.HandleFunc("/backups", adminHandler.ListBackups).Methods(http.MethodGet)
	admin.HandleFunc("/backups", adminHandler.CreateBackup).Methods(http.MethodPost)
	admin.HandleFunc("/backups/{name}", adminHandler.DownloadBackup).Methods(http.MethodGet)
	admin.HandleFunc("/backups/{name}", adminHandler.DeleteBackup).Methods(http.MethodDelete)

	return router
}
