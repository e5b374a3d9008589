package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	inErrors "github.com/dtrann/clothify/cart/errors"
)

// PostgresCartStore implements CartStore over a pgx connection pool.
type PostgresCartStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCartStore(pool *pgxpool.Pool) *PostgresCartStore {
	return &PostgresCartStore{pool: pool}
}

func (s *PostgresCartStore) Transaction(
	c context.Context,
	fn func(c context.Context, tx CartTx) error,
) (err error) {
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed beginning transaction with error=%w", err)
	}
	defer func() {
		rollbackErr := tx.Rollback(c)
		if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if err = fn(c, pgxCartTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(c); err != nil {
		return fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return nil
}

const findCartByUserID = `
select id, user_id, created_at, updated_at
from carts
where user_id = $1
`

func (s *PostgresCartStore) FindCartByUserID(
	c context.Context,
	userID uuid.UUID,
) (Cart, error) {
	return scanCart(s.pool.QueryRow(c, findCartByUserID, userID))
}

const findCartByID = `
select id, user_id, created_at, updated_at
from carts
where id = $1
`

func (s *PostgresCartStore) FindCartByID(c context.Context, cartID uuid.UUID) (Cart, error) {
	return scanCart(s.pool.QueryRow(c, findCartByID, cartID))
}

const findCartItemRows = `
select ci.id,
    ci.cart_id,
    ci.product_id,
    ci.quantity,
    ci.price,
    ci.created_at,
    ci.updated_at,
    p.name,
    p.description,
    p.price,
    p.stock,
    p.available,
    p.image_url
from cart_items ci
    join products p on p.id = ci.product_id
where ci.cart_id = $1
order by ci.id
`

func (s *PostgresCartStore) FindCartItemRows(
	c context.Context,
	cartID uuid.UUID,
) ([]CartItemRow, error) {
	rows, err := s.pool.Query(c, findCartItemRows, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CartItemRow{}
	for rows.Next() {
		var (
			row          CartItemRow
			itemPrice    pgtype.Numeric
			productPrice pgtype.Numeric
			description  pgtype.Text
			imageURL     pgtype.Text
		)
		err := rows.Scan(
			&row.Item.ID,
			&row.Item.CartID,
			&row.Item.ProductID,
			&row.Item.Quantity,
			&itemPrice,
			&row.Item.CreatedAt,
			&row.Item.UpdatedAt,
			&row.Product.Name,
			&description,
			&productPrice,
			&row.Product.Stock,
			&row.Product.Available,
			&imageURL,
		)
		if err != nil {
			return nil, err
		}
		row.Item.Price = numericToDecimal(itemPrice)
		row.Product.ID = row.Item.ProductID
		row.Product.Price = numericToDecimal(productPrice)
		row.Product.Description = description.String
		row.Product.ImageURL = imageURL.String
		items = append(items, row)
	}
	return items, rows.Err()
}

const listCartRows = `
select c.id,
    c.user_id,
    c.created_at,
    c.updated_at,
    ci.id,
    ci.product_id,
    ci.quantity,
    ci.price,
    ci.created_at,
    ci.updated_at,
    p.name,
    p.description,
    p.price,
    p.stock,
    p.available,
    p.image_url
from (
        select *
        from carts
        where $1::uuid is null
            or user_id = $1
        order by id
        limit $2 offset $3
    ) c
    left join cart_items ci on ci.cart_id = c.id
    left join products p on p.id = ci.product_id
order by c.id, ci.id
`

func (s *PostgresCartStore) ListCartRows(
	c context.Context,
	param ListCartsParams,
) ([]CartRow, error) {
	rows, err := s.pool.Query(c, listCartRows, param.UserID, param.Limit, param.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cartRows := []CartRow{}
	for rows.Next() {
		var (
			row           CartRow
			itemID        uuid.NullUUID
			productID     uuid.NullUUID
			quantity      pgtype.Int4
			itemPrice     pgtype.Numeric
			itemCreatedAt pgtype.Timestamptz
			itemUpdatedAt pgtype.Timestamptz
			name          pgtype.Text
			description   pgtype.Text
			productPrice  pgtype.Numeric
			stock         pgtype.Int4
			available     pgtype.Bool
			imageURL      pgtype.Text
		)
		err := rows.Scan(
			&row.Cart.ID,
			&row.Cart.UserID,
			&row.Cart.CreatedAt,
			&row.Cart.UpdatedAt,
			&itemID,
			&productID,
			&quantity,
			&itemPrice,
			&itemCreatedAt,
			&itemUpdatedAt,
			&name,
			&description,
			&productPrice,
			&stock,
			&available,
			&imageURL,
		)
		if err != nil {
			return nil, err
		}
		if itemID.Valid {
			row.Item = &CartItem{
				ID:        itemID.UUID,
				CartID:    row.Cart.ID,
				ProductID: productID.UUID,
				Quantity:  quantity.Int32,
				Price:     numericToDecimal(itemPrice),
				CreatedAt: itemCreatedAt.Time,
				UpdatedAt: itemUpdatedAt.Time,
			}
			row.Product = &Product{
				ID:          productID.UUID,
				Name:        name.String,
				Description: description.String,
				Price:       numericToDecimal(productPrice),
				Stock:       stock.Int32,
				Available:   available.Bool,
				ImageURL:    imageURL.String,
			}
		}
		cartRows = append(cartRows, row)
	}
	return cartRows, rows.Err()
}

const countCarts = `
select count(*)
from carts
where $1::uuid is null
    or user_id = $1
`

func (s *PostgresCartStore) CountCarts(
	c context.Context,
	userID uuid.NullUUID,
) (int64, error) {
	var count int64
	err := s.pool.QueryRow(c, countCarts, userID).Scan(&count)
	return count, err
}

type pgxCartTx struct {
	tx pgx.Tx
}

func (t pgxCartTx) FindCartByUserID(c context.Context, userID uuid.UUID) (Cart, error) {
	return scanCart(t.tx.QueryRow(c, findCartByUserID, userID))
}

const upsertCart = `
insert into carts (user_id)
values ($1) on conflict (user_id) do
update
set updated_at = now()
returning id, user_id, created_at, updated_at
`

func (t pgxCartTx) UpsertCart(c context.Context, userID uuid.UUID) (Cart, error) {
	return scanCart(t.tx.QueryRow(c, upsertCart, userID))
}

const touchCart = `
update carts
set updated_at = now()
where id = $1
`

func (t pgxCartTx) TouchCart(c context.Context, cartID uuid.UUID) error {
	tag, err := t.tx.Exec(c, touchCart, cartID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return inErrors.ErrCartNotFound
	}
	return nil
}

const deleteCart = `
delete from carts
where id = $1
`

func (t pgxCartTx) DeleteCart(c context.Context, cartID uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(c, deleteCart, cartID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const findCartItem = `
select id, cart_id, product_id, quantity, price, created_at, updated_at
from cart_items
where cart_id = $1
    and product_id = $2
`

func (t pgxCartTx) FindCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
) (CartItem, error) {
	return scanCartItem(t.tx.QueryRow(c, findCartItem, cartID, productID))
}

const insertCartItem = `
insert into cart_items (cart_id, product_id, quantity, price)
values ($1, $2, $3, $4)
returning id, cart_id, product_id, quantity, price, created_at, updated_at
`

func (t pgxCartTx) InsertCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
	quantity int32,
	price decimal.Decimal,
) (CartItem, error) {
	return scanCartItem(
		t.tx.QueryRow(c, insertCartItem, cartID, productID, quantity, decimalToNumeric(price)),
	)
}

const updateCartItem = `
update cart_items
set quantity = $3,
    price = $4,
    updated_at = now()
where cart_id = $1
    and product_id = $2
returning id, cart_id, product_id, quantity, price, created_at, updated_at
`

func (t pgxCartTx) UpdateCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
	quantity int32,
	price decimal.Decimal,
) (CartItem, error) {
	return scanCartItem(
		t.tx.QueryRow(c, updateCartItem, cartID, productID, quantity, decimalToNumeric(price)),
	)
}

const deleteCartItem = `
delete from cart_items
where cart_id = $1
    and product_id = $2
`

func (t pgxCartTx) DeleteCartItem(
	c context.Context,
	cartID, productID uuid.UUID,
) (bool, error) {
	tag, err := t.tx.Exec(c, deleteCartItem, cartID, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const deleteCartItems = `
delete from cart_items
where cart_id = $1
`

func (t pgxCartTx) DeleteCartItems(c context.Context, cartID uuid.UUID) error {
	_, err := t.tx.Exec(c, deleteCartItems, cartID)
	return err
}

const productForUpdate = `
select id,
    name,
    coalesce(description, ''),
    price,
    stock,
    available,
    coalesce(image_url, '')
from products
where id = $1 for
update
`

func (t pgxCartTx) ProductForUpdate(
	c context.Context,
	productID uuid.UUID,
) (Product, error) {
	var (
		product Product
		price   pgtype.Numeric
	)
	err := t.tx.QueryRow(c, productForUpdate, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&price,
		&product.Stock,
		&product.Available,
		&product.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, inErrors.ErrProductNotFound
		}
		return Product{}, err
	}
	product.Price = numericToDecimal(price)
	return product, nil
}

func scanCart(row pgx.Row) (Cart, error) {
	var cart Cart
	err := row.Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, inErrors.ErrCartNotFound
		}
		return Cart{}, err
	}
	return cart, nil
}

func scanCartItem(row pgx.Row) (CartItem, error) {
	var (
		item  CartItem
		price pgtype.Numeric
	)
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&price,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CartItem{}, inErrors.ErrCartItemNotFound
		}
		return CartItem{}, err
	}
	item.Price = numericToDecimal(price)
	return item, nil
}
