package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/madan1440/svlf-software/internal/domain"
)

type vehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle, seller *domain.Seller) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	vehicle.Status = domain.VehicleStatusStock
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	query := `
		INSERT INTO vehicles (type, name, brand, model, color, number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if err = tx.QueryRowxContext(ctx, query,
		vehicle.Type,
		vehicle.Name,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Color,
		vehicle.Number,
		vehicle.Status,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	).Scan(&vehicle.ID); err != nil {
		return err
	}

	seller.VehicleID = vehicle.ID
	sellerQuery := `
		INSERT INTO sellers (vehicle_id, seller_name, seller_phone, seller_city, buy_value, buy_date, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err = tx.ExecContext(ctx, sellerQuery,
		seller.VehicleID,
		seller.SellerName,
		seller.SellerPhone,
		seller.SellerCity,
		seller.BuyValue,
		seller.BuyDate,
		seller.Comments,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `
		SELECT id, type, name, brand, model, color, number, status, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	var vehicle domain.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetSeller(ctx context.Context, vehicleID int64) (*domain.Seller, error) {
	query := `
		SELECT vehicle_id, seller_name, seller_phone, seller_city, buy_value, buy_date, comments
		FROM sellers
		WHERE vehicle_id = $1
	`

	var seller domain.Seller
	if err := r.db.GetContext(ctx, &seller, query, vehicleID); err != nil {
		return nil, err
	}

	return &seller, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle, seller *domain.Seller) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE vehicles
		SET type = $2, name = $3, brand = $4, model = $5, color = $6, number = $7, updated_at = $8
		WHERE id = $1
	`
	if _, err = tx.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Type,
		vehicle.Name,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Color,
		vehicle.Number,
		time.Now(),
	); err != nil {
		return err
	}

	sellerQuery := `
		UPDATE sellers
		SET seller_name = $2, seller_phone = $3, seller_city = $4, buy_value = $5, buy_date = $6, comments = $7
		WHERE vehicle_id = $1
	`
	if _, err = tx.ExecContext(ctx, sellerQuery,
		vehicle.ID,
		seller.SellerName,
		seller.SellerPhone,
		seller.SellerCity,
		seller.BuyValue,
		seller.BuyDate,
		seller.Comments,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes the vehicle and everything hanging off it. The
// cascade runs inside one transaction so a crash cannot leave
// orphaned installments behind.
func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM installments WHERE buyer_id IN (SELECT id FROM buyers WHERE vehicle_id = $1)`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM buyers WHERE vehicle_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sellers WHERE vehicle_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *vehicleRepository) List(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT v.id, v.type, v.name, v.brand, v.model, v.color, v.number, v.status, v.created_at, v.updated_at
		FROM vehicles v
		LEFT JOIN sellers s ON s.vehicle_id = v.id
		LEFT JOIN buyers b ON b.vehicle_id = v.id
		WHERE 1=1
	`)

	args := make([]interface{}, 0, 6)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != "" {
		sb.WriteString(" AND v.type = " + arg(filter.Type))
	}
	if filter.Status != "" {
		sb.WriteString(" AND v.status = " + arg(filter.Status))
	}
	if filter.BuyerIDs != nil {
		sb.WriteString(" AND b.id = ANY(" + arg(pq.Array(filter.BuyerIDs)) + ")")
	}
	if filter.Query != "" {
		like := arg("%" + filter.Query + "%")
		sb.WriteString(fmt.Sprintf(` AND (
			v.name ILIKE %[1]s OR v.brand ILIKE %[1]s OR v.model ILIKE %[1]s OR v.number ILIKE %[1]s OR
			s.seller_name ILIKE %[1]s OR s.seller_phone ILIKE %[1]s OR s.seller_city ILIKE %[1]s OR
			b.name ILIKE %[1]s OR b.phone ILIKE %[1]s
		)`, like))
	}

	sb.WriteString(" ORDER BY v.id")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	var vehicles []*domain.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, sb.String(), args...); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *vehicleRepository) CountByStatus(ctx context.Context, vehicleType string) (int, int, int, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = $2) AS stock,
			COUNT(*) FILTER (WHERE status = $3) AS sold
		FROM vehicles
		WHERE type = $1
	`

	var counts struct {
		Total int `db:"total"`
		Stock int `db:"stock"`
		Sold  int `db:"sold"`
	}
	if err := r.db.GetContext(ctx, &counts, query, vehicleType, domain.VehicleStatusStock, domain.VehicleStatusSold); err != nil {
		return 0, 0, 0, err
	}

	return counts.Total, counts.Stock, counts.Sold, nil
}

func (r *vehicleRepository) ListSellers(ctx context.Context) ([]*domain.Seller, error) {
	query := `
		SELECT vehicle_id, seller_name, seller_phone, seller_city, buy_value, buy_date, comments
		FROM sellers
		ORDER BY vehicle_id
	`

	var sellers []*domain.Seller
	if err := r.db.SelectContext(ctx, &sellers, query); err != nil {
		return nil, err
	}

	return sellers, nil
}
