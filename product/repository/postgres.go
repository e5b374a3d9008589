package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	inErrors "github.com/dtrann/clothify/product/errors"
)

// PostgresProductStore implements ProductStore over a pgx connection pool.
type PostgresProductStore struct {
	pool *pgxpool.Pool
}

func NewPostgresProductStore(pool *pgxpool.Pool) *PostgresProductStore {
	return &PostgresProductStore{pool: pool}
}

const insertProduct = `
insert into products (category_id, name, description, type, price, stock, available, image_url)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id,
    category_id,
    ''::text,
    name,
    coalesce(description, ''),
    coalesce(type, ''),
    price,
    stock,
    available,
    coalesce(image_url, ''),
    created_at,
    updated_at
`

func (s *PostgresProductStore) InsertProduct(
	c context.Context,
	param InsertProductParams,
) (Product, error) {
	return scanProduct(s.pool.QueryRow(
		c,
		insertProduct,
		param.CategoryID,
		param.Name,
		param.Description,
		param.Type,
		decimalToNumeric(param.Price),
		param.Stock,
		param.Available,
		param.ImageURL,
	))
}

const findProductByID = `
select p.id,
    p.category_id,
    coalesce(c.name, ''),
    p.name,
    coalesce(p.description, ''),
    coalesce(p.type, ''),
    p.price,
    p.stock,
    p.available,
    coalesce(p.image_url, ''),
    p.created_at,
    p.updated_at
from products p
    left join categories c on c.id = p.category_id
where p.id = $1
`

func (s *PostgresProductStore) FindProductByID(
	c context.Context,
	productID uuid.UUID,
) (Product, error) {
	return scanProduct(s.pool.QueryRow(c, findProductByID, productID))
}

var productSortColumns = map[string]string{
	"id":         "p.id",
	"name":       "p.name",
	"price":      "p.price",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

// productFilters renders the param filters into a where clause. The returned
// args pick up after the supplied offset so callers can prepend their own
// positional arguments.
func productFilters(param ListProductsParams) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if param.Name != "" {
		conds = append(conds, fmt.Sprintf("p.name ilike %s", arg("%"+param.Name+"%")))
	}
	if param.Type != "" {
		conds = append(conds, fmt.Sprintf("p.type ilike %s", arg("%"+param.Type+"%")))
	}
	if param.MinPrice.Valid {
		conds = append(conds, fmt.Sprintf("p.price >= %s", arg(decimalToNumeric(param.MinPrice.Decimal))))
	}
	if param.MaxPrice.Valid {
		conds = append(conds, fmt.Sprintf("p.price <= %s", arg(decimalToNumeric(param.MaxPrice.Decimal))))
	}
	if param.Available != nil {
		conds = append(conds, fmt.Sprintf("p.available = %s", arg(*param.Available)))
	}
	if param.InStock {
		conds = append(conds, "p.stock > 0")
	}
	if len(param.CategoryIDs) > 0 {
		conds = append(conds, fmt.Sprintf("p.category_id = any(%s)", arg(param.CategoryIDs)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "where " + strings.Join(conds, " and "), args
}

func (s *PostgresProductStore) ListProducts(
	c context.Context,
	param ListProductsParams,
) ([]Product, error) {
	where, args := productFilters(param)

	sortColumn, ok := productSortColumns[param.SortBy]
	if !ok {
		sortColumn = "p.id"
	}
	sortOrder := "asc"
	if param.SortBy == "" || strings.EqualFold(param.SortOrder, "desc") {
		sortOrder = "desc"
	}

	query := fmt.Sprintf(`
select p.id,
    p.category_id,
    coalesce(c.name, ''),
    p.name,
    coalesce(p.description, ''),
    coalesce(p.type, ''),
    p.price,
    p.stock,
    p.available,
    coalesce(p.image_url, ''),
    p.created_at,
    p.updated_at
from products p
    left join categories c on c.id = p.category_id
%s
order by %s %s
limit $%d offset $%d
`, where, sortColumn, sortOrder, len(args)+1, len(args)+2)
	args = append(args, param.Limit, param.Offset)

	rows, err := s.pool.Query(c, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *PostgresProductStore) CountProducts(
	c context.Context,
	param ListProductsParams,
) (int64, error) {
	where, args := productFilters(param)
	query := fmt.Sprintf("select count(*) from products p %s", where)

	var total int64
	if err := s.pool.QueryRow(c, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

const updateProduct = `
update products
set category_id = $2,
    name = $3,
    description = $4,
    type = $5,
    price = $6,
    stock = $7,
    available = $8,
    image_url = $9,
    updated_at = now()
where id = $1
returning id,
    category_id,
    ''::text,
    name,
    coalesce(description, ''),
    coalesce(type, ''),
    price,
    stock,
    available,
    coalesce(image_url, ''),
    created_at,
    updated_at
`

func (s *PostgresProductStore) UpdateProduct(
	c context.Context,
	param UpdateProductParams,
) (Product, error) {
	return scanProduct(s.pool.QueryRow(
		c,
		updateProduct,
		param.ID,
		param.CategoryID,
		param.Name,
		param.Description,
		param.Type,
		decimalToNumeric(param.Price),
		param.Stock,
		param.Available,
		param.ImageURL,
	))
}

const deleteProduct = `delete from products where id = $1`

func (s *PostgresProductStore) DeleteProduct(
	c context.Context,
	productID uuid.UUID,
) (bool, error) {
	tag, err := s.pool.Exec(c, deleteProduct, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		product Product
		price   pgtype.Numeric
	)
	err := row.Scan(
		&product.ID,
		&product.CategoryID,
		&product.CategoryName,
		&product.Name,
		&product.Description,
		&product.Type,
		&price,
		&product.Stock,
		&product.Available,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
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
