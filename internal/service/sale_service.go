package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/repository"
	"github.com/madan1440/svlf-software/internal/schedule"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/pkg/utils"
)

// SaleService owns the sale and finance-edit flows: it is the only
// caller of the schedule package, so every installment row in the
// system traces back to a Generate or Reconcile here.
type SaleService struct {
	vehicleRepo     repository.VehicleRepository
	buyerRepo       repository.BuyerRepository
	installmentRepo repository.InstallmentRepository
	auditRepo       repository.AuditRepository
}

func NewSaleService(
	vehicleRepo repository.VehicleRepository,
	buyerRepo repository.BuyerRepository,
	installmentRepo repository.InstallmentRepository,
	auditRepo repository.AuditRepository,
) *SaleService {
	return &SaleService{
		vehicleRepo:     vehicleRepo,
		buyerRepo:       buyerRepo,
		installmentRepo: installmentRepo,
		auditRepo:       auditRepo,
	}
}

// SellVehicle records a Stock -> Sold transition: normalizes the
// operator's finance terms, creates the buyer, and generates its full
// installment schedule in one transaction.
func (s *SaleService) SellVehicle(ctx context.Context, actor string, vehicleID int64, request *domain.SaleRequest) (*domain.Buyer, []*domain.Installment, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapVehicleNotFound(vehicleID)
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}
	if vehicle.Status != domain.VehicleStatusStock {
		return nil, nil, customError.WrapVehicleAlreadySold(vehicleID)
	}

	terms := normalizeRequestTerms(request.SaleValue, request.FinanceAmount, request.InstallmentAmount, request.TenureMonths)

	saleDate := utils.DateOnly(time.Now())
	if request.SaleDate != "" {
		if parsed, parseErr := utils.ParseISODate(request.SaleDate); parseErr == nil {
			saleDate = parsed
		}
	}

	buyer := &domain.Buyer{
		VehicleID:    vehicleID,
		RecordNo:     request.RecordNo,
		Name:         request.BuyerName,
		Phone:        request.BuyerPhone,
		Address:      request.BuyerAddress,
		SaleDate:     saleDate,
		FinanceTerms: terms,
	}

	// Buyer id is assigned inside the transaction; the repository
	// stamps it onto the generated rows.
	installments := schedule.Generate(buyer.ID, terms, saleDate)

	if err = s.buyerRepo.CreateWithSchedule(ctx, buyer, installments); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	logAction(ctx, s.auditRepo, actor, "sell_vehicle", fmt.Sprintf("vehicle:%d buyer:%d", vehicleID, buyer.ID))
	return buyer, installments, nil
}

// UpdateBuyer edits buyer/finance details after the sale and
// reconciles the existing schedule against the new terms. When no
// buyer exists yet (finance details added after the fact) it behaves
// like a sale dated today.
func (s *SaleService) UpdateBuyer(ctx context.Context, actor string, vehicleID int64, request *domain.BuyerUpdateRequest) (*domain.Buyer, []*domain.Installment, error) {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapVehicleNotFound(vehicleID)
		}
		return nil, nil, customError.WrapDatabaseError(err)
	}

	newTerms := normalizeRequestTerms(request.SaleValue, request.FinanceAmount, request.InstallmentAmount, request.TenureMonths)

	buyer, err := s.buyerRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, customError.WrapDatabaseError(err)
		}
		return s.createBuyerLate(ctx, actor, vehicleID, request, newTerms)
	}

	oldTerms := buyer.Terms()
	buyer.Name = request.BuyerName
	buyer.Phone = request.BuyerPhone
	buyer.Address = request.BuyerAddress
	buyer.FinanceTerms = newTerms

	existing, err := s.installmentRepo.GetByBuyerID(ctx, buyer.ID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	// Due dates stay keyed to the original sale date so a late tenure
	// increase continues the original cadence.
	result, err := schedule.Reconcile(buyer.ID, oldTerms, newTerms, buyer.SaleDate, existing)
	if err != nil {
		return nil, nil, err
	}

	if err = s.buyerRepo.ApplyReconcile(ctx, buyer, result); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	updated, err := s.installmentRepo.GetByBuyerID(ctx, buyer.ID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	logAction(ctx, s.auditRepo, actor, "edit_buyer", fmt.Sprintf("vehicle:%d buyer:%d", vehicleID, buyer.ID))
	return buyer, updated, nil
}

func (s *SaleService) createBuyerLate(ctx context.Context, actor string, vehicleID int64, request *domain.BuyerUpdateRequest, terms domain.FinanceTerms) (*domain.Buyer, []*domain.Installment, error) {
	saleDate := utils.DateOnly(time.Now())
	buyer := &domain.Buyer{
		VehicleID:    vehicleID,
		Name:         request.BuyerName,
		Phone:        request.BuyerPhone,
		Address:      request.BuyerAddress,
		SaleDate:     saleDate,
		FinanceTerms: terms,
	}

	installments := schedule.Generate(buyer.ID, terms, saleDate)

	if err := s.buyerRepo.CreateWithSchedule(ctx, buyer, installments); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	logAction(ctx, s.auditRepo, actor, "create_buyer", fmt.Sprintf("vehicle:%d buyer:%d", vehicleID, buyer.ID))
	return buyer, installments, nil
}

// SetInstallmentPaid toggles a single installment's paid status. A
// pay stamps today as the paid date; an unpay clears it.
func (s *SaleService) SetInstallmentPaid(ctx context.Context, actor string, id uuid.UUID, paid bool) (*domain.Installment, error) {
	inst, err := s.installmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInstallmentNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	var paidDate *time.Time
	action := "mark_installment_unpaid"
	if paid {
		today := utils.DateOnly(time.Now())
		paidDate = &today
		action = "mark_installment_paid"
	}

	if err = s.installmentRepo.SetPaid(ctx, id, paid, paidDate); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	inst.Paid = paid
	inst.PaidDate = paidDate

	logAction(ctx, s.auditRepo, actor, action, fmt.Sprintf("buyer:%d installment:%d", inst.BuyerID, inst.SequenceNo))
	return inst, nil
}

// normalizeRequestTerms is the single permissive-parsing boundary for
// operator-entered numbers: everything past it works on clean
// integers.
func normalizeRequestTerms(saleValue, financeAmount, installmentAmount, tenureMonths string) domain.FinanceTerms {
	return domain.NormalizeFinanceTerms(
		utils.ParseAmount(saleValue),
		utils.ParseAmount(financeAmount),
		utils.ParseAmount(installmentAmount),
		int(utils.ParseAmount(tenureMonths)),
	)
}
