package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtrann/clothify/cart/repository"
)

func listRow(cart repository.Cart, product *repository.Product, quantity int32) repository.CartRow {
	if product == nil {
		return repository.CartRow{Cart: cart}
	}
	item := repository.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     product.Price,
	}
	return repository.CartRow{Cart: cart, Item: &item, Product: product}
}

func TestBuildCartView(t *testing.T) {
	now := time.Now()
	cart := repository.Cart{ID: uuid.New(), UserID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	shirt := newProduct("linen shirt", "29.99", 10, true)

	view := BuildCartView(cart, []repository.CartItemRow{
		{
			Item: repository.CartItem{
				ID:        uuid.New(),
				CartID:    cart.ID,
				ProductID: shirt.ID,
				Quantity:  3,
				Price:     decimal.RequireFromString("29.99"),
			},
			Product: shirt,
		},
	})

	assert.Equal(t, cart.ID, view.ID)
	assert.Equal(t, cart.UserID, view.UserID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int32(3), view.Items[0].Quantity)
	assert.Equal(t, "linen shirt", view.Items[0].Product.Name)
}

func TestBuildCartViewEmptyCart(t *testing.T) {
	cart := repository.Cart{ID: uuid.New(), UserID: uuid.New()}

	view := BuildCartView(cart, nil)

	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
}

func TestBuildCartListViewGroupsContiguousRows(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	jeans := newProduct("raw denim jeans", "89.00", 4, true)
	first := repository.Cart{ID: uuid.New(), UserID: uuid.New()}
	second := repository.Cart{ID: uuid.New(), UserID: uuid.New()}

	carts, err := BuildCartListView([]repository.CartRow{
		listRow(first, &shirt, 1),
		listRow(first, &jeans, 2),
		listRow(second, &shirt, 5),
	})
	require.NoError(t, err)

	require.Len(t, carts, 2)
	assert.Equal(t, first.ID, carts[0].ID)
	assert.Len(t, carts[0].Items, 2)
	assert.Equal(t, second.ID, carts[1].ID)
	assert.Len(t, carts[1].Items, 1)
}

func TestBuildCartListViewKeepsEmptyCarts(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	full := repository.Cart{ID: uuid.New(), UserID: uuid.New()}
	empty := repository.Cart{ID: uuid.New(), UserID: uuid.New()}

	carts, err := BuildCartListView([]repository.CartRow{
		listRow(full, &shirt, 1),
		listRow(empty, nil, 0),
	})
	require.NoError(t, err)

	require.Len(t, carts, 2)
	assert.Equal(t, empty.ID, carts[1].ID)
	assert.NotNil(t, carts[1].Items)
	assert.Empty(t, carts[1].Items)
}

func TestBuildCartListViewPreservesRowOrder(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	carts := make([]repository.Cart, 4)
	rows := make([]repository.CartRow, 0, len(carts))
	for i := range carts {
		carts[i] = repository.Cart{ID: uuid.New(), UserID: uuid.New()}
		rows = append(rows, listRow(carts[i], &shirt, 1))
	}

	views, err := BuildCartListView(rows)
	require.NoError(t, err)

	require.Len(t, views, len(carts))
	for i, cart := range carts {
		assert.Equal(t, cart.ID, views[i].ID)
	}
}

func TestBuildCartListViewRejectsInterleavedCarts(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	first := repository.Cart{ID: uuid.New(), UserID: uuid.New()}
	second := repository.Cart{ID: uuid.New(), UserID: uuid.New()}

	_, err := BuildCartListView([]repository.CartRow{
		listRow(first, &shirt, 1),
		listRow(second, &shirt, 1),
		listRow(first, &shirt, 2),
	})
	require.Error(t, err)
}

func TestBuildCartListViewEmptyInput(t *testing.T) {
	carts, err := BuildCartListView(nil)
	require.NoError(t, err)
	assert.NotNil(t, carts)
	assert.Empty(t, carts)
}
