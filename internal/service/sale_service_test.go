package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/schedule"
	"github.com/madan1440/svlf-software/internal/service"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/tests/mocks"
)

func newSaleService() (*service.SaleService, *mocks.MockVehicleRepository, *mocks.MockBuyerRepository, *mocks.MockInstallmentRepository, *mocks.MockAuditRepository) {
	vehicleRepo := new(mocks.MockVehicleRepository)
	buyerRepo := new(mocks.MockBuyerRepository)
	installmentRepo := new(mocks.MockInstallmentRepository)
	auditRepo := new(mocks.MockAuditRepository)
	svc := service.NewSaleService(vehicleRepo, buyerRepo, installmentRepo, auditRepo)
	return svc, vehicleRepo, buyerRepo, installmentRepo, auditRepo
}

func stockVehicle(id int64) *domain.Vehicle {
	return &domain.Vehicle{ID: id, Type: domain.VehicleTypeBike, Name: "Splendor", Status: domain.VehicleStatusStock}
}

func TestSellVehicleGeneratesSchedule(t *testing.T) {
	svc, vehicleRepo, buyerRepo, _, auditRepo := newSaleService()
	ctx := context.Background()

	vehicleRepo.On("GetByID", ctx, int64(3)).Return(stockVehicle(3), nil)
	buyerRepo.On("CreateWithSchedule", ctx, mock.Anything, mock.Anything).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	req := &domain.SaleRequest{
		BuyerName:         "Ravi Kumar",
		BuyerPhone:        "9876501234",
		SaleValue:         "60000",
		FinanceAmount:     "48000",
		InstallmentAmount: "4000",
		TenureMonths:      "12",
		SaleDate:          "2024-01-31",
	}

	buyer, installments, err := svc.SellVehicle(ctx, "admin", 3, req)

	require.NoError(t, err)
	assert.Equal(t, int64(48000), buyer.FinanceAmount)
	require.Len(t, installments, 12)
	assert.Equal(t, 1, installments[0].SequenceNo)
	// End-of-month sale dates clamp rather than roll over.
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, int64(4000), installments[0].Amount)

	buyerRepo.AssertExpectations(t)
}

func TestSellVehicleCashSaleHasNoSchedule(t *testing.T) {
	svc, vehicleRepo, buyerRepo, _, auditRepo := newSaleService()
	ctx := context.Background()

	vehicleRepo.On("GetByID", ctx, int64(3)).Return(stockVehicle(3), nil)
	buyerRepo.On("CreateWithSchedule", ctx, mock.Anything, mock.Anything).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	req := &domain.SaleRequest{
		BuyerName:         "Ravi Kumar",
		SaleValue:         "60000",
		FinanceAmount:     "0",
		InstallmentAmount: "4000",
		TenureMonths:      "12",
	}

	buyer, installments, err := svc.SellVehicle(ctx, "admin", 3, req)

	require.NoError(t, err)
	assert.True(t, buyer.IsCashSale())
	assert.Zero(t, buyer.TenureMonths)
	assert.Empty(t, installments)
}

func TestSellVehicleRejectsSoldVehicle(t *testing.T) {
	svc, vehicleRepo, _, _, _ := newSaleService()
	ctx := context.Background()

	sold := stockVehicle(3)
	sold.Status = domain.VehicleStatusSold
	vehicleRepo.On("GetByID", ctx, int64(3)).Return(sold, nil)

	_, _, err := svc.SellVehicle(ctx, "admin", 3, &domain.SaleRequest{BuyerName: "Ravi"})

	assert.ErrorIs(t, err, customError.ErrVehicleAlreadySold)
}

func TestSellVehicleRejectsUnknownVehicle(t *testing.T) {
	svc, vehicleRepo, _, _, _ := newSaleService()
	ctx := context.Background()

	vehicleRepo.On("GetByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

	_, _, err := svc.SellVehicle(ctx, "admin", 99, &domain.SaleRequest{BuyerName: "Ravi"})

	assert.ErrorIs(t, err, customError.ErrVehicleNotFound)
}

func TestUpdateBuyerReconcilesSchedule(t *testing.T) {
	svc, vehicleRepo, buyerRepo, installmentRepo, auditRepo := newSaleService()
	ctx := context.Background()

	saleDate := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	buyer := &domain.Buyer{
		ID:        7,
		VehicleID: 3,
		Name:      "Ravi Kumar",
		SaleDate:  saleDate,
		FinanceTerms: domain.FinanceTerms{
			SaleValue: 60000, FinanceAmount: 48000, InstallmentAmount: 4000, TenureMonths: 4,
		},
	}
	existing := schedule.Generate(7, buyer.Terms(), saleDate)

	sold := stockVehicle(3)
	sold.Status = domain.VehicleStatusSold
	vehicleRepo.On("GetByID", ctx, int64(3)).Return(sold, nil)
	buyerRepo.On("GetByVehicleID", ctx, int64(3)).Return(buyer, nil)
	installmentRepo.On("GetByBuyerID", ctx, int64(7)).Return(existing, nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	var applied *schedule.ReconcileResult
	buyerRepo.On("ApplyReconcile", ctx, buyer, mock.Anything).
		Run(func(args mock.Arguments) {
			applied = args.Get(2).(*schedule.ReconcileResult)
		}).
		Return(nil)

	req := &domain.BuyerUpdateRequest{
		BuyerName:         "Ravi Kumar",
		SaleValue:         "60000",
		FinanceAmount:     "48000",
		InstallmentAmount: "4000",
		TenureMonths:      "6",
	}

	updated, _, err := svc.UpdateBuyer(ctx, "admin", 3, req)

	require.NoError(t, err)
	assert.Equal(t, 6, updated.TenureMonths)

	require.NotNil(t, applied)
	require.Len(t, applied.ToInsert, 2)
	// Grown rows continue the original sale-date cadence.
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), applied.ToInsert[0].DueDate)
	assert.Equal(t, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), applied.ToInsert[1].DueDate)
}

func TestUpdateBuyerCreatesBuyerWhenMissing(t *testing.T) {
	svc, vehicleRepo, buyerRepo, _, auditRepo := newSaleService()
	ctx := context.Background()

	vehicleRepo.On("GetByID", ctx, int64(3)).Return(stockVehicle(3), nil)
	buyerRepo.On("GetByVehicleID", ctx, int64(3)).Return(nil, sql.ErrNoRows)
	buyerRepo.On("CreateWithSchedule", ctx, mock.Anything, mock.Anything).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	req := &domain.BuyerUpdateRequest{
		BuyerName:         "Ravi Kumar",
		SaleValue:         "60000",
		FinanceAmount:     "48000",
		InstallmentAmount: "4000",
		TenureMonths:      "3",
	}

	buyer, installments, err := svc.UpdateBuyer(ctx, "admin", 3, req)

	require.NoError(t, err)
	assert.Equal(t, int64(3), buyer.VehicleID)
	assert.Len(t, installments, 3)
	buyerRepo.AssertCalled(t, "CreateWithSchedule", ctx, mock.Anything, mock.Anything)
}

func TestUpdateBuyerSurfacesCorruptSchedule(t *testing.T) {
	svc, vehicleRepo, buyerRepo, installmentRepo, _ := newSaleService()
	ctx := context.Background()

	saleDate := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	buyer := &domain.Buyer{
		ID:        7,
		VehicleID: 3,
		SaleDate:  saleDate,
		FinanceTerms: domain.FinanceTerms{
			SaleValue: 60000, FinanceAmount: 48000, InstallmentAmount: 4000, TenureMonths: 4,
		},
	}
	corrupt := schedule.Generate(7, buyer.Terms(), saleDate)
	corrupt[1].SequenceNo = 1 // duplicate

	sold := stockVehicle(3)
	sold.Status = domain.VehicleStatusSold
	vehicleRepo.On("GetByID", ctx, int64(3)).Return(sold, nil)
	buyerRepo.On("GetByVehicleID", ctx, int64(3)).Return(buyer, nil)
	installmentRepo.On("GetByBuyerID", ctx, int64(7)).Return(corrupt, nil)

	req := &domain.BuyerUpdateRequest{
		BuyerName:         "Ravi Kumar",
		FinanceAmount:     "48000",
		InstallmentAmount: "4000",
		TenureMonths:      "6",
	}

	_, _, err := svc.UpdateBuyer(ctx, "admin", 3, req)

	assert.ErrorIs(t, err, customError.ErrScheduleCorrupt)
	buyerRepo.AssertNotCalled(t, "ApplyReconcile", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetInstallmentPaidStampsToday(t *testing.T) {
	svc, _, _, installmentRepo, auditRepo := newSaleService()
	ctx := context.Background()

	id := uuid.New()
	inst := &domain.Installment{ID: id, BuyerID: 7, SequenceNo: 2, Amount: 4000}

	installmentRepo.On("GetByID", ctx, id).Return(inst, nil)
	installmentRepo.On("SetPaid", ctx, id, true, mock.Anything).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	updated, err := svc.SetInstallmentPaid(ctx, "admin", id, true)

	require.NoError(t, err)
	assert.True(t, updated.Paid)
	require.NotNil(t, updated.PaidDate)
	assert.Equal(t, time.Now().Format("2006-01-02"), updated.PaidDate.Format("2006-01-02"))
}

func TestSetInstallmentUnpaidClearsDate(t *testing.T) {
	svc, _, _, installmentRepo, auditRepo := newSaleService()
	ctx := context.Background()

	id := uuid.New()
	paidDate := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	inst := &domain.Installment{ID: id, BuyerID: 7, SequenceNo: 2, Amount: 4000, Paid: true, PaidDate: &paidDate}

	installmentRepo.On("GetByID", ctx, id).Return(inst, nil)
	installmentRepo.On("SetPaid", ctx, id, false, (*time.Time)(nil)).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	updated, err := svc.SetInstallmentPaid(ctx, "admin", id, false)

	require.NoError(t, err)
	assert.False(t, updated.Paid)
	assert.Nil(t, updated.PaidDate)
}
