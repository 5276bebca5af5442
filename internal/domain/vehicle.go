package domain

import "time"

const (
	VehicleStatusStock = "Stock"
	VehicleStatusSold  = "Sold"

	VehicleTypeCar  = "Car"
	VehicleTypeBike = "Bike"
)

// Vehicle is a unit of dealership inventory.
type Vehicle struct {
	ID        int64     `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`
	Name      string    `json:"name" db:"name"`
	Brand     string    `json:"brand" db:"brand"`
	Model     string    `json:"model" db:"model"`
	Color     string    `json:"color" db:"color"`
	Number    string    `json:"number" db:"number"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Seller holds the purchase-side details recorded when a vehicle
// enters stock. One per vehicle.
type Seller struct {
	VehicleID   int64  `json:"vehicle_id" db:"vehicle_id"`
	SellerName  string `json:"seller_name" db:"seller_name"`
	SellerPhone string `json:"seller_phone" db:"seller_phone"`
	SellerCity  string `json:"seller_city" db:"seller_city"`
	BuyValue    int64  `json:"buy_value" db:"buy_value"`
	BuyDate     string `json:"buy_date" db:"buy_date"`
	Comments    string `json:"comments" db:"comments"`
}

// DTOs for requests and responses

type SaveVehicleRequest struct {
	Type        string `json:"type" validate:"required,oneof=Car Bike"`
	Name        string `json:"name" validate:"required"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	Number      string `json:"number" validate:"required"`
	SellerName  string `json:"seller_name" validate:"required"`
	SellerPhone string `json:"seller_phone"`
	SellerCity  string `json:"seller_city"`
	BuyValue    string `json:"buy_value"`
	BuyDate     string `json:"buy_date"`
	Comments    string `json:"comments"`
}

type VehicleDetailResponse struct {
	Vehicle      *Vehicle           `json:"vehicle"`
	Seller       *Seller            `json:"seller,omitempty"`
	Buyer        *Buyer             `json:"buyer,omitempty"`
	Installments []*InstallmentView `json:"installments,omitempty"`
}

type VehicleListResponse struct {
	Vehicles   []*Vehicle `json:"vehicles"`
	NextOffset int        `json:"next_offset"`
	HasMore    bool       `json:"has_more"`
}

type DashboardResponse struct {
	Type       string `json:"type"`
	Total      int    `json:"total"`
	Stock      int    `json:"stock"`
	Sold       int    `json:"sold"`
	EMIPending int    `json:"emi_pending"`
}
