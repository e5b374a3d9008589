package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStore owns the persisted carts and cart_items rows. Mutations go
// through Transaction; the function either commits as a whole or rolls back
// as a whole, so partial writes are never observable.
type CartStore interface {
	Transaction(c context.Context, fn func(c context.Context, tx CartTx) error) error

	FindCartByUserID(c context.Context, userID uuid.UUID) (Cart, error)
	FindCartByID(c context.Context, cartID uuid.UUID) (Cart, error)
	FindCartItemRows(c context.Context, cartID uuid.UUID) ([]CartItemRow, error)
	ListCartRows(c context.Context, param ListCartsParams) ([]CartRow, error)
	CountCarts(c context.Context, userID uuid.NullUUID) (int64, error)
}

// CartTx exposes the row primitives available inside one storage transaction.
// Reads observe the transaction's snapshot; ProductForUpdate additionally
// locks the product row until commit so concurrent reservations of the same
// product serialize instead of racing the stock check.
type CartTx interface {
	FindCartByUserID(c context.Context, userID uuid.UUID) (Cart, error)
	UpsertCart(c context.Context, userID uuid.UUID) (Cart, error)
	TouchCart(c context.Context, cartID uuid.UUID) error
	DeleteCart(c context.Context, cartID uuid.UUID) (bool, error)

	FindCartItem(c context.Context, cartID, productID uuid.UUID) (CartItem, error)
	InsertCartItem(
		c context.Context,
		cartID, productID uuid.UUID,
		quantity int32,
		price decimal.Decimal,
	) (CartItem, error)
	UpdateCartItem(
		c context.Context,
		cartID, productID uuid.UUID,
		quantity int32,
		price decimal.Decimal,
	) (CartItem, error)
	DeleteCartItem(c context.Context, cartID, productID uuid.UUID) (bool, error)
	DeleteCartItems(c context.Context, cartID uuid.UUID) error

	ProductForUpdate(c context.Context, productID uuid.UUID) (Product, error)
}
