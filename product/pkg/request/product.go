package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InsertProduct struct {
	CategoryId  uuid.NullUUID   `json:"category_id"`
	Name        string          `validate:"required,min=1,max=255" json:"name"`
	Description string          `json:"description"`
	Type        string          `validate:"max=64"                 json:"type"`
	Price       decimal.Decimal `validate:"required"               json:"price"`
	Stock       int32           `validate:"gte=0"                  json:"stock"`
	Available   *bool           `json:"available"`
	ImageUrl    string          `json:"image_url"`
}

// UpdateProduct carries a partial update. Nil pointers leave the stored
// value untouched.
type UpdateProduct struct {
	CategoryId  *uuid.NullUUID   `json:"category_id"`
	Name        *string          `validate:"omitempty,min=1,max=255" json:"name"`
	Description *string          `json:"description"`
	Type        *string          `validate:"omitempty,max=64"        json:"type"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int32           `validate:"omitempty,gte=0"         json:"stock"`
	Available   *bool            `json:"available"`
	ImageUrl    *string          `json:"image_url"`
}

type FindProducts struct {
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	MinPrice    decimal.NullDecimal `json:"min_price"`
	MaxPrice    decimal.NullDecimal `json:"max_price"`
	Available   *bool               `json:"available"`
	InStock     bool                `json:"in_stock"`
	CategoryIds []uuid.UUID         `json:"category_ids"`
	SortBy      string              `json:"sort_by"`
	SortOrder   string              `json:"sort_order"`
	Page        int32               `validate:"gte=1"         json:"page"`
	Limit       int32               `validate:"gte=1,lte=100" json:"limit"`
}
