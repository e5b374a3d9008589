package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	inErrors "github.com/dtrann/clothify/cart/errors"
	"github.com/dtrann/clothify/cart/repository"
)

// fakeStore is an in-memory CartStore. Transaction snapshots the whole state
// before running fn and restores the snapshot when fn errors, mirroring the
// rollback semantics the engine relies on.
type fakeStore struct {
	carts    []repository.Cart
	items    []repository.CartItem
	products []repository.Product
}

func newFakeStore(products ...repository.Product) *fakeStore {
	return &fakeStore{products: products}
}

// deadCache returns a client pointing at a closed port. The engine treats
// cache failures as best-effort, so every call degrades to the store.
func deadCache() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 10 * time.Millisecond})
}

func (s *fakeStore) snapshot() ([]repository.Cart, []repository.CartItem, []repository.Product) {
	carts := make([]repository.Cart, len(s.carts))
	copy(carts, s.carts)
	items := make([]repository.CartItem, len(s.items))
	copy(items, s.items)
	products := make([]repository.Product, len(s.products))
	copy(products, s.products)
	return carts, items, products
}

func (s *fakeStore) Transaction(
	c context.Context,
	fn func(c context.Context, tx repository.CartTx) error,
) error {
	carts, items, products := s.snapshot()
	if err := fn(c, &fakeTx{store: s}); err != nil {
		s.carts, s.items, s.products = carts, items, products
		return err
	}
	return nil
}

func (s *fakeStore) FindCartByUserID(c context.Context, userID uuid.UUID) (repository.Cart, error) {
	for _, cart := range s.carts {
		if cart.UserID == userID {
			return cart, nil
		}
	}
	return repository.Cart{}, inErrors.ErrCartNotFound
}

func (s *fakeStore) FindCartByID(c context.Context, cartID uuid.UUID) (repository.Cart, error) {
	for _, cart := range s.carts {
		if cart.ID == cartID {
			return cart, nil
		}
	}
	return repository.Cart{}, inErrors.ErrCartNotFound
}

func (s *fakeStore) FindCartItemRows(
	c context.Context,
	cartID uuid.UUID,
) ([]repository.CartItemRow, error) {
	rows := make([]repository.CartItemRow, 0)
	for _, item := range s.items {
		if item.CartID != cartID {
			continue
		}
		product, err := s.findProduct(item.ProductID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, repository.CartItemRow{Item: item, Product: product})
	}
	return rows, nil
}

func (s *fakeStore) ListCartRows(
	c context.Context,
	param repository.ListCartsParams,
) ([]repository.CartRow, error) {
	rows := make([]repository.CartRow, 0)
	var skipped, taken int32
	for _, cart := range s.carts {
		if param.UserID.Valid && cart.UserID != param.UserID.UUID {
			continue
		}
		if skipped < param.Offset {
			skipped++
			continue
		}
		if param.Limit > 0 && taken >= param.Limit {
			break
		}
		taken++
		itemRows, err := s.FindCartItemRows(c, cart.ID)
		if err != nil {
			return nil, err
		}
		if len(itemRows) == 0 {
			rows = append(rows, repository.CartRow{Cart: cart})
			continue
		}
		for i := range itemRows {
			rows = append(rows, repository.CartRow{
				Cart:    cart,
				Item:    &itemRows[i].Item,
				Product: &itemRows[i].Product,
			})
		}
	}
	return rows, nil
}

func (s *fakeStore) CountCarts(c context.Context, userID uuid.NullUUID) (int64, error) {
	var total int64
	for _, cart := range s.carts {
		if userID.Valid && cart.UserID != userID.UUID {
			continue
		}
		total++
	}
	return total, nil
}

func (s *fakeStore) findProduct(productID uuid.UUID) (repository.Product, error) {
	for _, product := range s.products {
		if product.ID == productID {
			return product, nil
		}
	}
	return repository.Product{}, inErrors.ErrProductNotFound
}

func (s *fakeStore) setProduct(product repository.Product) {
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = product
			return
		}
	}
	s.products = append(s.products, product)
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) FindCartByUserID(c context.Context, userID uuid.UUID) (repository.Cart, error) {
	return t.store.FindCartByUserID(c, userID)
}

func (t *fakeTx) UpsertCart(c context.Context, userID uuid.UUID) (repository.Cart, error) {
	if cart, err := t.store.FindCartByUserID(c, userID); err == nil {
		return cart, nil
	}
	now := time.Now()
	cart := repository.Cart{ID: uuid.New(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	t.store.carts = append(t.store.carts, cart)
	return cart, nil
}

func (t *fakeTx) TouchCart(c context.Context, cartID uuid.UUID) error {
	for i := range t.store.carts {
		if t.store.carts[i].ID == cartID {
			t.store.carts[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return inErrors.ErrCartNotFound
}

func (t *fakeTx) DeleteCart(c context.Context, cartID uuid.UUID) (bool, error) {
	for i := range t.store.carts {
		if t.store.carts[i].ID == cartID {
			t.store.carts = append(t.store.carts[:i], t.store.carts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) FindCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
) (repository.CartItem, error) {
	for _, item := range t.store.items {
		if item.CartID == cartID && item.ProductID == productID {
			return item, nil
		}
	}
	return repository.CartItem{}, inErrors.ErrCartItemNotFound
}

func (t *fakeTx) InsertCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
	quantity int32,
	price decimal.Decimal,
) (repository.CartItem, error) {
	now := time.Now()
	item := repository.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.store.items = append(t.store.items, item)
	return item, nil
}

func (t *fakeTx) UpdateCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
	quantity int32,
	price decimal.Decimal,
) (repository.CartItem, error) {
	for i := range t.store.items {
		if t.store.items[i].CartID == cartID && t.store.items[i].ProductID == productID {
			t.store.items[i].Quantity = quantity
			t.store.items[i].Price = price
			t.store.items[i].UpdatedAt = time.Now()
			return t.store.items[i], nil
		}
	}
	return repository.CartItem{}, inErrors.ErrCartItemNotFound
}

func (t *fakeTx) DeleteCartItem(c context.Context, cartID, productID uuid.UUID) (bool, error) {
	for i := range t.store.items {
		if t.store.items[i].CartID == cartID && t.store.items[i].ProductID == productID {
			t.store.items = append(t.store.items[:i], t.store.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) DeleteCartItems(c context.Context, cartID uuid.UUID) error {
	kept := t.store.items[:0:0]
	for _, item := range t.store.items {
		if item.CartID != cartID {
			kept = append(kept, item)
		}
	}
	t.store.items = kept
	return nil
}

func (t *fakeTx) ProductForUpdate(
	c context.Context,
	productID uuid.UUID,
) (repository.Product, error) {
	return t.store.findProduct(productID)
}
