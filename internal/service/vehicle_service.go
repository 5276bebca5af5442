package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/madan1440/svlf-software/internal/config"
	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/repository"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/pkg/utils"
)

type VehicleService struct {
	vehicleRepo     repository.VehicleRepository
	buyerRepo       repository.BuyerRepository
	installmentRepo repository.InstallmentRepository
	auditRepo       repository.AuditRepository
	redis           *redis.Client
	config          *config.Config
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	buyerRepo repository.BuyerRepository,
	installmentRepo repository.InstallmentRepository,
	auditRepo repository.AuditRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *VehicleService {
	return &VehicleService{
		vehicleRepo:     vehicleRepo,
		buyerRepo:       buyerRepo,
		installmentRepo: installmentRepo,
		auditRepo:       auditRepo,
		redis:           redisClient,
		config:          cfg,
	}
}

// AddVehicle records a new stock vehicle together with its seller details.
func (s *VehicleService) AddVehicle(ctx context.Context, actor string, request *domain.SaveVehicleRequest) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{
		Type:   request.Type,
		Name:   request.Name,
		Brand:  request.Brand,
		Model:  request.Model,
		Color:  request.Color,
		Number: request.Number,
	}
	seller := &domain.Seller{
		SellerName:  request.SellerName,
		SellerPhone: request.SellerPhone,
		SellerCity:  request.SellerCity,
		BuyValue:    utils.ParseAmount(request.BuyValue),
		BuyDate:     request.BuyDate,
		Comments:    request.Comments,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle, seller); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateMetrics(ctx, vehicle.Type)
	logAction(ctx, s.auditRepo, actor, "add_vehicle", vehicle.Number)
	return vehicle, nil
}

// UpdateVehicle edits the vehicle and seller details. Sale state is
// untouched here; that belongs to the sale flow.
func (s *VehicleService) UpdateVehicle(ctx context.Context, actor string, id int64, request *domain.SaveVehicleRequest) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapVehicleNotFound(id)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	vehicle.Type = request.Type
	vehicle.Name = request.Name
	vehicle.Brand = request.Brand
	vehicle.Model = request.Model
	vehicle.Color = request.Color
	vehicle.Number = request.Number

	seller := &domain.Seller{
		VehicleID:   id,
		SellerName:  request.SellerName,
		SellerPhone: request.SellerPhone,
		SellerCity:  request.SellerCity,
		BuyValue:    utils.ParseAmount(request.BuyValue),
		BuyDate:     request.BuyDate,
		Comments:    request.Comments,
	}

	if err = s.vehicleRepo.Update(ctx, vehicle, seller); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateMetrics(ctx, vehicle.Type)
	logAction(ctx, s.auditRepo, actor, "edit_vehicle", fmt.Sprintf("vehicle:%d", id))
	return vehicle, nil
}

// DeleteVehicle removes a vehicle and cascades its buyer and
// installments in one transaction.
func (s *VehicleService) DeleteVehicle(ctx context.Context, actor string, id int64) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapVehicleNotFound(id)
		}
		return customError.WrapDatabaseError(err)
	}

	if err = s.vehicleRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateMetrics(ctx, vehicle.Type)
	logAction(ctx, s.auditRepo, actor, "delete_vehicle", fmt.Sprintf("vehicle:%d", id))
	return nil
}

// GetVehicleDetail assembles the full read model for one vehicle:
// seller, buyer if sold, and the schedule with projected statuses.
func (s *VehicleService) GetVehicleDetail(ctx context.Context, id int64) (*domain.VehicleDetailResponse, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapVehicleNotFound(id)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	detail := &domain.VehicleDetailResponse{Vehicle: vehicle}

	seller, err := s.vehicleRepo.GetSeller(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}
	detail.Seller = seller

	buyer, err := s.buyerRepo.GetByVehicleID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return detail, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	detail.Buyer = buyer

	installments, err := s.installmentRepo.GetByBuyerID(ctx, buyer.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	detail.Installments = domain.ProjectSchedule(installments, time.Now())

	return detail, nil
}

// Dashboard metric filters.
const (
	MetricAll        = "ALL"
	MetricStock      = "Stock"
	MetricSold       = "Sold"
	MetricEMIPending = "EMI_PENDING"
)

// ListVehicles pages through the inventory. The EMI_PENDING metric
// narrows to sold vehicles whose buyer has at least one overdue
// installment.
func (s *VehicleService) ListVehicles(ctx context.Context, query, vehicleType, metric string, offset, limit int) (*domain.VehicleListResponse, error) {
	if limit <= 0 {
		limit = s.config.App.VehiclePageSize
	}

	filter := repository.VehicleFilter{
		Type:   vehicleType,
		Query:  query,
		Offset: offset,
		Limit:  limit + 1, // one extra row decides has_more
	}

	switch metric {
	case MetricStock:
		filter.Status = domain.VehicleStatusStock
	case MetricSold:
		filter.Status = domain.VehicleStatusSold
	case MetricEMIPending:
		ids, err := s.installmentRepo.OverdueBuyerIDs(ctx, utils.DateOnly(time.Now()))
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		if len(ids) == 0 {
			return &domain.VehicleListResponse{Vehicles: []*domain.Vehicle{}, NextOffset: offset}, nil
		}
		filter.Status = domain.VehicleStatusSold
		filter.BuyerIDs = ids
	}

	vehicles, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	hasMore := len(vehicles) > limit
	if hasMore {
		vehicles = vehicles[:limit]
	}

	return &domain.VehicleListResponse{
		Vehicles:   vehicles,
		NextOffset: offset + len(vehicles),
		HasMore:    hasMore,
	}, nil
}

// DashboardMetrics computes the per-type counters. Results are cached
// in Redis for a short TTL; mutations delete the key, and the TTL
// covers anything that slips through.
func (s *VehicleService) DashboardMetrics(ctx context.Context, vehicleType string) (*domain.DashboardResponse, error) {
	cacheKey := metricsCacheKey(vehicleType)

	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var response domain.DashboardResponse
		if jsonErr := json.Unmarshal([]byte(cached), &response); jsonErr == nil {
			return &response, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	}

	total, stock, sold, err := s.vehicleRepo.CountByStatus(ctx, vehicleType)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	emiPending, err := s.countEMIPending(ctx, vehicleType)
	if err != nil {
		return nil, err
	}

	response := &domain.DashboardResponse{
		Type:       vehicleType,
		Total:      total,
		Stock:      stock,
		Sold:       sold,
		EMIPending: emiPending,
	}

	if payload, jsonErr := json.Marshal(response); jsonErr == nil {
		if err := s.redis.Set(ctx, cacheKey, payload, s.config.GetMetricsCacheTTL()).Err(); err != nil {
			log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}

	return response, nil
}

// countEMIPending counts sold vehicles of the given type whose buyer
// projects to Overdue on at least one installment.
func (s *VehicleService) countEMIPending(ctx context.Context, vehicleType string) (int, error) {
	ids, err := s.installmentRepo.OverdueBuyerIDs(ctx, utils.DateOnly(time.Now()))
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	vehicles, err := s.vehicleRepo.List(ctx, repository.VehicleFilter{
		Type:     vehicleType,
		Status:   domain.VehicleStatusSold,
		BuyerIDs: ids,
	})
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	return len(vehicles), nil
}

func (s *VehicleService) invalidateMetrics(ctx context.Context, vehicleType string) {
	if err := s.redis.Del(ctx, metricsCacheKey(vehicleType)).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func metricsCacheKey(vehicleType string) string {
	return "dashboard:" + vehicleType
}
