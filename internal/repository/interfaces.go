package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/schedule"
)

// VehicleFilter narrows a vehicle listing. BuyerIDs, when non-nil,
// restricts to vehicles whose buyer is in the set (the dashboard's
// EMI-pending view).
type VehicleFilter struct {
	Type     string
	Status   string
	Query    string
	BuyerIDs []int64
	Offset   int
	Limit    int
}

// VehicleRepository defines the interface for vehicle and seller data operations
type VehicleRepository interface {
	// Create inserts a vehicle with its seller record in one transaction
	Create(ctx context.Context, vehicle *domain.Vehicle, seller *domain.Seller) error

	// GetByID retrieves a vehicle by id
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)

	// GetSeller retrieves the seller record for a vehicle
	GetSeller(ctx context.Context, vehicleID int64) (*domain.Seller, error)

	// Update updates a vehicle and its seller record
	Update(ctx context.Context, vehicle *domain.Vehicle, seller *domain.Seller) error

	// Delete removes a vehicle, cascading its buyer and all installments
	Delete(ctx context.Context, id int64) error

	// List retrieves vehicles matching the filter, ordered by id
	List(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error)

	// CountByStatus returns total/stock/sold counts for a vehicle type
	CountByStatus(ctx context.Context, vehicleType string) (total, stock, sold int, err error)

	// ListSellers retrieves every seller record, for export
	ListSellers(ctx context.Context) ([]*domain.Seller, error)
}

// BuyerRepository defines the interface for buyer data operations.
// Schedule-affecting writes are transactional: the buyer record and
// its installment set move together or not at all.
type BuyerRepository interface {
	// GetByID retrieves a buyer by id
	GetByID(ctx context.Context, id int64) (*domain.Buyer, error)

	// GetByVehicleID retrieves the buyer for a vehicle, if any
	GetByVehicleID(ctx context.Context, vehicleID int64) (*domain.Buyer, error)

	// CreateWithSchedule inserts the buyer, its full installment batch,
	// and flips the vehicle to Sold in one transaction
	CreateWithSchedule(ctx context.Context, buyer *domain.Buyer, installments []*domain.Installment) error

	// ApplyReconcile updates the buyer record and applies a reconcile's
	// update/insert/delete sets in one transaction
	ApplyReconcile(ctx context.Context, buyer *domain.Buyer, result *schedule.ReconcileResult) error

	// ListAll retrieves every buyer, for export
	ListAll(ctx context.Context) ([]*domain.Buyer, error)
}

// InstallmentRepository defines the interface for installment reads
// and single-row status toggles. Batch creation and reconciliation go
// through BuyerRepository so they stay transactional with the buyer.
type InstallmentRepository interface {
	// GetByID retrieves one installment
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// GetByBuyerID retrieves a buyer's schedule ordered by sequence number
	GetByBuyerID(ctx context.Context, buyerID int64) ([]*domain.Installment, error)

	// SetPaid toggles the paid flag and paid date on a single installment
	SetPaid(ctx context.Context, id uuid.UUID, paid bool, paidDate *time.Time) error

	// OverdueBuyerIDs returns buyers holding at least one unpaid
	// installment due strictly before the given day
	OverdueBuyerIDs(ctx context.Context, today time.Time) ([]int64, error)

	// CountOverdue counts unpaid installments due strictly before the given day
	CountOverdue(ctx context.Context, today time.Time) (int, error)

	// CountOrphans counts installments whose buyer no longer exists
	CountOrphans(ctx context.Context) (int, error)

	// ListAll retrieves every installment, for export
	ListAll(ctx context.Context) ([]*domain.Installment, error)
}

// UserRepository defines the interface for operator account data
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
}

// AuditRepository defines the interface for the append-only action log
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}
