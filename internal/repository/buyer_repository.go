package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/schedule"
)

type buyerRepository struct {
	db *sqlx.DB
}

func NewBuyerRepository(db *sqlx.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

const buyerColumns = `id, vehicle_id, record_no, name, phone, address, sale_date,
	sale_value, finance_amount, installment_amount, tenure_months`

func (r *buyerRepository) GetByID(ctx context.Context, id int64) (*domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1`

	var buyer domain.Buyer
	if err := r.db.GetContext(ctx, &buyer, query, id); err != nil {
		return nil, err
	}

	return &buyer, nil
}

func (r *buyerRepository) GetByVehicleID(ctx context.Context, vehicleID int64) (*domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE vehicle_id = $1`

	var buyer domain.Buyer
	if err := r.db.GetContext(ctx, &buyer, query, vehicleID); err != nil {
		return nil, err
	}

	return &buyer, nil
}

// CreateWithSchedule persists a sale as a single atomic unit: buyer
// row, the full installment batch, and the vehicle's Stock -> Sold
// flip. Installments are generated before the buyer id is known, so
// it is stamped onto them here.
func (r *buyerRepository) CreateWithSchedule(ctx context.Context, buyer *domain.Buyer, installments []*domain.Installment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO buyers (vehicle_id, record_no, name, phone, address, sale_date,
			sale_value, finance_amount, installment_amount, tenure_months)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	if err = tx.QueryRowxContext(ctx, query,
		buyer.VehicleID,
		buyer.RecordNo,
		buyer.Name,
		buyer.Phone,
		buyer.Address,
		buyer.SaleDate,
		buyer.SaleValue,
		buyer.FinanceAmount,
		buyer.InstallmentAmount,
		buyer.TenureMonths,
	).Scan(&buyer.ID); err != nil {
		return err
	}

	if err = insertInstallments(ctx, tx, buyer.ID, installments); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE vehicles SET status = $2, updated_at = $3 WHERE id = $1`,
		buyer.VehicleID, domain.VehicleStatusSold, time.Now()); err != nil {
		return err
	}

	return tx.Commit()
}

// ApplyReconcile applies a terms edit atomically: the buyer record
// update and the reconcile's three effect sets either all land or
// none do.
func (r *buyerRepository) ApplyReconcile(ctx context.Context, buyer *domain.Buyer, result *schedule.ReconcileResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE buyers
		SET name = $2, phone = $3, address = $4, sale_value = $5,
			finance_amount = $6, installment_amount = $7, tenure_months = $8
		WHERE id = $1
	`
	if _, err = tx.ExecContext(ctx, query,
		buyer.ID,
		buyer.Name,
		buyer.Phone,
		buyer.Address,
		buyer.SaleValue,
		buyer.FinanceAmount,
		buyer.InstallmentAmount,
		buyer.TenureMonths,
	); err != nil {
		return err
	}

	for _, inst := range result.ToUpdate {
		if _, err = tx.ExecContext(ctx,
			`UPDATE installments SET amount = $2 WHERE id = $1`,
			inst.ID, inst.Amount); err != nil {
			return err
		}
	}

	if err = insertInstallments(ctx, tx, buyer.ID, result.ToInsert); err != nil {
		return err
	}

	for _, id := range result.ToDelete {
		if _, err = tx.ExecContext(ctx, `DELETE FROM installments WHERE id = $1`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *buyerRepository) ListAll(ctx context.Context) ([]*domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers ORDER BY id`

	var buyers []*domain.Buyer
	if err := r.db.SelectContext(ctx, &buyers, query); err != nil {
		return nil, err
	}

	return buyers, nil
}

func insertInstallments(ctx context.Context, tx *sqlx.Tx, buyerID int64, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (id, buyer_id, sequence_no, due_date, amount, paid, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, inst := range installments {
		inst.BuyerID = buyerID
		if _, err := tx.ExecContext(ctx, query,
			inst.ID,
			inst.BuyerID,
			inst.SequenceNo,
			inst.DueDate,
			inst.Amount,
			inst.Paid,
			inst.PaidDate,
		); err != nil {
			return err
		}
	}

	return nil
}
