package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/madan1440/svlf-software/internal/repository"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/pkg/utils"
)

// OverdueSummary is the nightly collections snapshot.
type OverdueSummary struct {
	Date               string  `json:"date"`
	OverdueInstallments int    `json:"overdue_installments"`
	BuyersAffected     []int64 `json:"buyers_affected"`
}

// MaintenanceService backs the scheduler jobs: overdue reporting and
// referential integrity checks.
type MaintenanceService struct {
	installmentRepo repository.InstallmentRepository
}

func NewMaintenanceService(installmentRepo repository.InstallmentRepository) *MaintenanceService {
	return &MaintenanceService{installmentRepo: installmentRepo}
}

// ReportOverdue logs and returns the current overdue position.
func (s *MaintenanceService) ReportOverdue(ctx context.Context) (*OverdueSummary, error) {
	today := utils.DateOnly(time.Now())

	count, err := s.installmentRepo.CountOverdue(ctx, today)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	buyerIDs, err := s.installmentRepo.OverdueBuyerIDs(ctx, today)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	summary := &OverdueSummary{
		Date:                utils.FormatISODate(today),
		OverdueInstallments: count,
		BuyersAffected:      buyerIDs,
	}

	log.Info().
		Int("overdue_installments", count).
		Int("buyers_affected", len(buyerIDs)).
		Msg("overdue summary")

	return summary, nil
}

// CheckIntegrity fails when any installment points at a missing buyer.
// Buyer and installment writes share a transaction, so a hit here
// means external tampering or a restore gone wrong.
func (s *MaintenanceService) CheckIntegrity(ctx context.Context) error {
	orphans, err := s.installmentRepo.CountOrphans(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	if orphans > 0 {
		return customError.WrapIntegrityViolation(
			fmt.Sprintf("found %d installments without a buyer", orphans))
	}

	return nil
}
