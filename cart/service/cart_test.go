package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/dtrann/clothify/cart/errors"
	"github.com/dtrann/clothify/cart/repository"
	"github.com/dtrann/clothify/cart/pkg/request"
)

func newProduct(name string, price string, stock int32, available bool) repository.Product {
	return repository.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Available: available,
	}
}

func TestAddItemsCreatesCartLazily(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, items, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, userID, cart.UserID)
	require.Len(t, items, 1)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.True(t, items[0].Price.Equal(shirt.Price))
	require.Len(t, store.carts, 1)
	require.Len(t, store.items, 1)
}

func TestAddItemsReusesExistingCart(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	jeans := newProduct("raw denim jeans", "89.00", 4, true)
	store := newFakeStore(shirt, jeans)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	first, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)

	second, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: jeans.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, store.carts, 1)
	require.Len(t, store.items, 2)
}

func TestAddItemsMergesQuantities(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	_, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	_, items, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int32(5), items[0].Quantity)
	require.Len(t, store.items, 1)
	assert.Equal(t, int32(5), store.items[0].Quantity)
}

func TestAddItemsStockCeilingCountsExistingQuantity(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 5, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	_, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	_, _, err = svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 4},
	})
	require.Error(t, err)

	var stockErr *inErrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "linen shirt", stockErr.ProductName)
	assert.Equal(t, int32(5), stockErr.Available)
	assert.Equal(t, int32(6), stockErr.Requested)

	require.Len(t, store.items, 1)
	assert.Equal(t, int32(2), store.items[0].Quantity, "failed batch must not change state")
}

func TestAddItemsBatchIsAtomic(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	jeans := newProduct("raw denim jeans", "89.00", 4, true)
	store := newFakeStore(shirt, jeans)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	_, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
		{ProductId: jeans.ID, Quantity: 2},
		{ProductId: uuid.New(), Quantity: 1},
	})
	require.ErrorIs(t, err, inErrors.ErrProductNotFound)

	assert.Empty(t, store.carts, "rolled back batch must not leave a cart behind")
	assert.Empty(t, store.items)
}

func TestAddItemsRejectsUnavailableProduct(t *testing.T) {
	coat := newProduct("wool coat", "240.00", 3, false)
	store := newFakeStore(coat)
	svc := NewCartService(store, deadCache())

	_, _, err := svc.AddItems(context.Background(), uuid.New(), []request.CartItem{
		{ProductId: coat.ID, Quantity: 1},
	})
	require.ErrorIs(t, err, inErrors.ErrProductUnavailable)
	assert.Empty(t, store.items)
}

func TestAddItemsRejectsNonPositiveQuantity(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())

	_, _, err := svc.AddItems(context.Background(), uuid.New(), []request.CartItem{
		{ProductId: shirt.ID, Quantity: 0},
	})
	require.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
}

func TestAddItemsRefreshesPriceSnapshot(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	_, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)

	shirt.Price = decimal.RequireFromString("24.99")
	store.setProduct(shirt)

	_, items, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(shirt.Price), "write must refresh the stored price")
}

func TestSetItemQuantityOverwrites(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	item, removed, err := svc.SetItemQuantity(context.Background(), cart.ID, shirt.ID, 7)
	require.NoError(t, err)

	assert.False(t, removed)
	assert.Equal(t, int32(7), item.Quantity, "set is an overwrite, not a merge")
}

func TestSetItemQuantityZeroRemovesLine(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	_, removed, err := svc.SetItemQuantity(context.Background(), cart.ID, shirt.ID, 0)
	require.NoError(t, err)

	assert.True(t, removed)
	assert.Empty(t, store.items)
}

func TestSetItemQuantityMissingLine(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	jeans := newProduct("raw denim jeans", "89.00", 4, true)
	store := newFakeStore(shirt, jeans)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, _, err = svc.SetItemQuantity(context.Background(), cart.ID, jeans.ID, 1)
	require.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
}

func TestSetItemQuantityStockCeiling(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 5, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	_, _, err = svc.SetItemQuantity(context.Background(), cart.ID, shirt.ID, 6)
	require.Error(t, err)

	var stockErr *inErrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int32(6), stockErr.Requested, "set validates the absolute value, not a delta")
	assert.Equal(t, int32(2), store.items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	deleted, err := svc.RemoveItem(context.Background(), cart.ID, shirt.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, store.items)

	deleted, err = svc.RemoveItem(context.Background(), cart.ID, shirt.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "removing an absent line is not an error")
}

func TestDeleteCartRemovesCartAndItems(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	jeans := newProduct("raw denim jeans", "89.00", 4, true)
	store := newFakeStore(shirt, jeans)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
		{ProductId: jeans.ID, Quantity: 2},
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteCart(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, store.carts)
	assert.Empty(t, store.items)
}

func TestDeleteCartMissingCart(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, deadCache())

	deleted, err := svc.DeleteCart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFindCartByUserID(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 10, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	cart, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 2},
	})
	require.NoError(t, err)

	view, err := svc.FindCartByUserID(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, cart.ID, view.ID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, shirt.ID, view.Items[0].ProductID)
	assert.Equal(t, "linen shirt", view.Items[0].Product.Name)
}

func TestFindCartByUserIDNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, deadCache())

	_, err := svc.FindCartByUserID(context.Background(), uuid.New())
	require.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestFindCartsPagination(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 100, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())

	for range 5 {
		_, _, err := svc.AddItems(context.Background(), uuid.New(), []request.CartItem{
			{ProductId: shirt.ID, Quantity: 1},
		})
		require.NoError(t, err)
	}

	list, err := svc.FindCarts(context.Background(), request.FindCarts{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, list.Carts, 2)
	assert.Equal(t, int64(5), list.TotalItems)
	assert.Equal(t, int32(2), list.CurrentPage)
	assert.Equal(t, int32(3), list.TotalPages)
}

func TestFindCartsFiltersByUser(t *testing.T) {
	shirt := newProduct("linen shirt", "29.99", 100, true)
	store := newFakeStore(shirt)
	svc := NewCartService(store, deadCache())
	userID := uuid.New()

	_, _, err := svc.AddItems(context.Background(), userID, []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)
	_, _, err = svc.AddItems(context.Background(), uuid.New(), []request.CartItem{
		{ProductId: shirt.ID, Quantity: 1},
	})
	require.NoError(t, err)

	list, err := svc.FindCarts(context.Background(), request.FindCarts{
		UserId: uuid.NullUUID{UUID: userID, Valid: true},
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)

	require.Len(t, list.Carts, 1)
	assert.Equal(t, userID, list.Carts[0].UserID)
	assert.Equal(t, int64(1), list.TotalItems)
}

func TestBusinessErrorsBypassRecordingAsFailures(t *testing.T) {
	assert.True(t, inErrors.IsBusinessError(inErrors.ErrCartNotFound))
	assert.True(t, inErrors.IsBusinessError(&inErrors.InsufficientStockError{}))
	assert.False(t, inErrors.IsBusinessError(errors.New("connection refused")))
}
