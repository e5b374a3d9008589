package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	inErrors "github.com/dtrann/clothify/cart/errors"
)

func setupStore(t *testing.T) (*PostgresCartStore, *pgxpool.Pool) {
	t.Helper()
	c := context.Background()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "migrations", "20250712093011_create_table_users.up.sql"),
			filepath.Join("..", "..", "migrations", "20250712093512_create_table_categories.up.sql"),
			filepath.Join("..", "..", "migrations", "20250712094026_create_table_products.up.sql"),
			filepath.Join("..", "..", "migrations", "20250712094518_create_table_carts.up.sql"),
			filepath.Join("..", "..", "migrations", "20250723164915_add_updated_at_to_cart_items.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed terminating postgres container with error: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed parsing pgx config with error: %s", err)
	}
	cfg.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(c, cfg)
	if err != nil {
		t.Fatalf("failed creating pgx pool with error: %s", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(c); err != nil {
		t.Fatalf("failed pinging postgres with error: %s", err)
	}

	return NewPostgresCartStore(pool), pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var userID uuid.UUID
	err := pool.QueryRow(
		context.Background(),
		`insert into users (name, email, password)
		 values ('tester', gen_random_uuid() || '@example.com', 'hashed')
		 returning id`,
	).Scan(&userID)
	require.NoError(t, err)
	return userID
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name string, price string, stock int32, available bool) uuid.UUID {
	t.Helper()
	var productID uuid.UUID
	err := pool.QueryRow(
		context.Background(),
		`insert into products (name, price, stock, available)
		 values ($1, $2, $3, $4)
		 returning id`,
		name, price, stock, available,
	).Scan(&productID)
	require.NoError(t, err)
	return productID
}

func TestUpsertCartIsIdempotentPerUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store, pool := setupStore(t)
	c := context.Background()
	userID := seedUser(t, pool)

	var first, second Cart
	err := store.Transaction(c, func(c context.Context, tx CartTx) error {
		var err error
		first, err = tx.UpsertCart(c, userID)
		if err != nil {
			return err
		}
		second, err = tx.UpsertCart(c, userID)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, userID, first.UserID)

	found, err := store.FindCartByUserID(c, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestCartItemLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store, pool := setupStore(t)
	c := context.Background()
	userID := seedUser(t, pool)
	productID := seedProduct(t, pool, "linen shirt", "29.99", 10, true)

	price := decimal.RequireFromString("29.99")
	var cart Cart
	err := store.Transaction(c, func(c context.Context, tx CartTx) error {
		var err error
		cart, err = tx.UpsertCart(c, userID)
		if err != nil {
			return err
		}

		_, err = tx.FindCartItem(c, cart.ID, productID)
		if !errors.Is(err, inErrors.ErrCartItemNotFound) {
			return err
		}

		item, err := tx.InsertCartItem(c, cart.ID, productID, 2, price)
		if err != nil {
			return err
		}
		if item.Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", item.Quantity)
		}

		updated, err := tx.UpdateCartItem(c, cart.ID, productID, 5, price)
		if err != nil {
			return err
		}
		if updated.Quantity != 5 {
			t.Errorf("expected quantity 5, got %d", updated.Quantity)
		}
		return nil
	})
	require.NoError(t, err)

	rows, err := store.FindCartItemRows(c, cart.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(5), rows[0].Item.Quantity)
	assert.True(t, rows[0].Item.Price.Equal(price))
	assert.Equal(t, "linen shirt", rows[0].Product.Name)

	err = store.Transaction(c, func(c context.Context, tx CartTx) error {
		deleted, err := tx.DeleteCartItem(c, cart.ID, productID)
		if err != nil {
			return err
		}
		if !deleted {
			t.Error("expected cart item to be deleted")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store, pool := setupStore(t)
	c := context.Background()
	userID := seedUser(t, pool)

	boom := errors.New("boom")
	err := store.Transaction(c, func(c context.Context, tx CartTx) error {
		if _, err := tx.UpsertCart(c, userID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.FindCartByUserID(c, userID)
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestProductForUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store, pool := setupStore(t)
	c := context.Background()
	productID := seedProduct(t, pool, "wool coat", "240.00", 3, false)

	err := store.Transaction(c, func(c context.Context, tx CartTx) error {
		product, err := tx.ProductForUpdate(c, productID)
		if err != nil {
			return err
		}
		assert.Equal(t, "wool coat", product.Name)
		assert.Equal(t, int32(3), product.Stock)
		assert.False(t, product.Available)

		_, err = tx.ProductForUpdate(c, uuid.New())
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestListCartRowsIncludesEmptyCarts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store, pool := setupStore(t)
	c := context.Background()

	fullUser := seedUser(t, pool)
	emptyUser := seedUser(t, pool)
	productID := seedProduct(t, pool, "linen shirt", "29.99", 10, true)

	var fullCart, emptyCart Cart
	err := store.Transaction(c, func(c context.Context, tx CartTx) error {
		var err error
		fullCart, err = tx.UpsertCart(c, fullUser)
		if err != nil {
			return err
		}
		if _, err = tx.InsertCartItem(c, fullCart.ID, productID, 1, decimal.RequireFromString("29.99")); err != nil {
			return err
		}
		emptyCart, err = tx.UpsertCart(c, emptyUser)
		return err
	})
	require.NoError(t, err)

	rows, err := store.ListCartRows(c, ListCartsParams{Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byCart := map[uuid.UUID]CartRow{}
	for _, row := range rows {
		byCart[row.Cart.ID] = row
	}
	require.Contains(t, byCart, fullCart.ID)
	require.Contains(t, byCart, emptyCart.ID)
	assert.NotNil(t, byCart[fullCart.ID].Item)
	assert.Nil(t, byCart[emptyCart.ID].Item)

	total, err := store.CountCarts(c, uuid.NullUUID{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
