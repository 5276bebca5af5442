package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/madan1440/svlf-software/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

const installmentColumns = `id, buyer_id, sequence_no, due_date, amount, paid, paid_date`

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`

	var inst domain.Installment
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *installmentRepository) GetByBuyerID(ctx context.Context, buyerID int64) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE buyer_id = $1 ORDER BY sequence_no`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, buyerID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) SetPaid(ctx context.Context, id uuid.UUID, paid bool, paidDate *time.Time) error {
	query := `UPDATE installments SET paid = $2, paid_date = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, paid, paidDate)
	return err
}

func (r *installmentRepository) OverdueBuyerIDs(ctx context.Context, today time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT buyer_id
		FROM installments
		WHERE paid = false AND due_date < $1
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, today); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *installmentRepository) CountOverdue(ctx context.Context, today time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM installments WHERE paid = false AND due_date < $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, today); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *installmentRepository) CountOrphans(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM installments i
		LEFT JOIN buyers b ON b.id = i.buyer_id
		WHERE b.id IS NULL
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *installmentRepository) ListAll(ctx context.Context) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments ORDER BY buyer_id, sequence_no`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query); err != nil {
		return nil, err
	}

	return installments, nil
}
