package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dtrann/clothify/cart/repository"
	"github.com/dtrann/clothify/cart/pkg/response"
)

// BuildCartView assembles one cart and its joined item rows into the nested
// response shape.
func BuildCartView(cart repository.Cart, rows []repository.CartItemRow) response.Cart {
	items := make([]response.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, newCartItemView(row.Item, row.Product))
	}
	return response.Cart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

// BuildCartListView groups the flat listing rows into one view per cart.
// Rows must arrive ordered by cart id; each group stays contiguous and cart
// order is preserved. A cart whose item columns are null contributes a view
// with an empty item slice. Out-of-order input is rejected rather than
// silently producing duplicate groups.
func BuildCartListView(rows []repository.CartRow) ([]response.Cart, error) {
	carts := make([]response.Cart, 0)
	seen := make(map[uuid.UUID]struct{})

	for _, row := range rows {
		n := len(carts)
		if n == 0 || carts[n-1].ID != row.Cart.ID {
			if _, ok := seen[row.Cart.ID]; ok {
				return nil, fmt.Errorf("cart rows not sorted by cart id, cartId=%s appeared twice", row.Cart.ID)
			}
			seen[row.Cart.ID] = struct{}{}
			carts = append(carts, response.Cart{
				ID:        row.Cart.ID,
				UserID:    row.Cart.UserID,
				Items:     make([]response.CartItem, 0),
				CreatedAt: row.Cart.CreatedAt,
				UpdatedAt: row.Cart.UpdatedAt,
			})
			n++
		}
		if row.Item == nil || row.Product == nil {
			continue
		}
		carts[n-1].Items = append(carts[n-1].Items, newCartItemView(*row.Item, *row.Product))
	}

	return carts, nil
}

func newCartItemView(item repository.CartItem, product repository.Product) response.CartItem {
	return response.CartItem{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Product: response.Product{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			ImageURL:    product.ImageURL,
			Available:   product.Available,
			Stock:       product.Stock,
		},
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
