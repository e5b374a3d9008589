package repository

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

type InsertProductParams struct {
	CategoryID  uuid.NullUUID
	Name        string
	Description string
	Type        string
	Price       decimal.Decimal
	Stock       int32
	Available   bool
	ImageURL    string
}

type UpdateProductParams struct {
	ID          uuid.UUID
	CategoryID  uuid.NullUUID
	Name        string
	Description string
	Type        string
	Price       decimal.Decimal
	Stock       int32
	Available   bool
	ImageURL    string
}

// ListProductsParams mirrors the catalogue listing filters. Zero values mean
// the filter is not applied; SortBy outside the whitelist falls back to id.
type ListProductsParams struct {
	Name        string
	Type        string
	MinPrice    decimal.NullDecimal
	MaxPrice    decimal.NullDecimal
	Available   *bool
	InStock     bool
	CategoryIDs []uuid.UUID
	SortBy      string
	SortOrder   string
	Limit       int32
	Offset      int32
}
