package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   uuid.NullUUID   `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Price        decimal.Decimal `json:"price"`
	Stock        int32           `json:"stock"`
	Available    bool            `json:"available"`
	ImageURL     string          `json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ProductList struct {
	Products    []Product `json:"products"`
	TotalItems  int64     `json:"totalItems"`
	CurrentPage int32     `json:"currentPage"`
	TotalPages  int32     `json:"totalPages"`
	Limit       int32     `json:"limit"`
}
