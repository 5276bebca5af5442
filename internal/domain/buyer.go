package domain

import "time"

// Buyer ties a sale (financed or cash) to exactly one vehicle. It owns
// the installment schedule and carries the current finance terms.
type Buyer struct {
	ID        int64     `json:"id" db:"id"`
	VehicleID int64     `json:"vehicle_id" db:"vehicle_id"`
	RecordNo  string    `json:"record_no" db:"record_no"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	SaleDate  time.Time `json:"sale_date" db:"sale_date"`
	FinanceTerms
}

// Terms returns the buyer's current finance terms as a value.
func (b *Buyer) Terms() FinanceTerms {
	return b.FinanceTerms
}

// SaleRequest records a Stock -> Sold transition. The numeric fields
// arrive as raw strings and are normalized permissively; SaleDate is
// ISO YYYY-MM-DD and defaults to today when blank.
type SaleRequest struct {
	RecordNo          string `json:"record_no"`
	BuyerName         string `json:"buyer_name" validate:"required"`
	BuyerPhone        string `json:"buyer_phone"`
	BuyerAddress      string `json:"buyer_address"`
	SaleValue         string `json:"sale_value"`
	FinanceAmount     string `json:"finance_amount"`
	InstallmentAmount string `json:"installment_amount"`
	TenureMonths      string `json:"tenure_months"`
	SaleDate          string `json:"sale_date"`
}

// BuyerUpdateRequest edits buyer/finance details after the sale. Same
// permissive numeric handling as SaleRequest; the sale date is never
// editable, so grown schedules keep the original cadence.
type BuyerUpdateRequest struct {
	BuyerName         string `json:"buyer_name" validate:"required"`
	BuyerPhone        string `json:"buyer_phone"`
	BuyerAddress      string `json:"buyer_address"`
	SaleValue         string `json:"sale_value"`
	FinanceAmount     string `json:"finance_amount"`
	InstallmentAmount string `json:"installment_amount"`
	TenureMonths      string `json:"tenure_months"`
}

type SaleResponse struct {
	Buyer    *Buyer         `json:"buyer"`
	Schedule []*Installment `json:"schedule"`
}
