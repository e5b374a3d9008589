package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	CartID    uuid.UUID       `json:"cart_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Product is the catalog snapshot the engine validates against. Stock and
// Available are the authoritative ceiling for any quantity written.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	Available   bool            `json:"available"`
	ImageURL    string          `json:"image_url"`
}

// CartItemRow is one cart line joined with its product snapshot.
type CartItemRow struct {
	Item    CartItem
	Product Product
}

// CartRow is one row of the denormalized cart listing: cart columns plus,
// when the cart has lines, the item and product columns. Item is nil for
// empty carts. Rows are produced ordered by (cart id, cart item id).
type CartRow struct {
	Cart    Cart
	Item    *CartItem
	Product *Product
}

type ListCartsParams struct {
	UserID uuid.NullUUID
	Limit  int32
	Offset int32
}
