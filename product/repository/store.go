package repository

import (
	"context"

	"github.com/google/uuid"
)

// ProductStore owns the products rows. Every operation is a single
// statement, so no transaction surface is exposed.
type ProductStore interface {
	InsertProduct(c context.Context, param InsertProductParams) (Product, error)
	FindProductByID(c context.Context, productID uuid.UUID) (Product, error)
	ListProducts(c context.Context, param ListProductsParams) ([]Product, error)
	CountProducts(c context.Context, param ListProductsParams) (int64, error)
	UpdateProduct(c context.Context, param UpdateProductParams) (Product, error)
	DeleteProduct(c context.Context, productID uuid.UUID) (bool, error)
}
