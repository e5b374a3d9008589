package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	inErrors "github.com/dtrann/clothify/category/errors"
)

// CategoryStore owns the categories rows.
type CategoryStore interface {
	InsertCategory(c context.Context, param InsertCategoryParams) (Category, error)
	FindCategoryByID(c context.Context, categoryID uuid.UUID) (Category, error)
	ListCategories(c context.Context, param ListCategoriesParams) ([]Category, error)
	CountCategories(c context.Context, name string) (int64, error)
	UpdateCategory(c context.Context, param UpdateCategoryParams) (Category, error)
	DeleteCategory(c context.Context, categoryID uuid.UUID) (bool, error)
}

type PostgresCategoryStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryStore(pool *pgxpool.Pool) *PostgresCategoryStore {
	return &PostgresCategoryStore{pool: pool}
}

const insertCategory = `
insert into categories (name, url_path, description)
values ($1, $2, $3)
returning id, name, coalesce(url_path, ''), coalesce(description, ''), created_at, updated_at
`

func (s *PostgresCategoryStore) InsertCategory(
	c context.Context,
	param InsertCategoryParams,
) (Category, error) {
	return scanCategory(
		s.pool.QueryRow(c, insertCategory, param.Name, param.UrlPath, param.Description),
	)
}

const findCategoryByID = `
select id, name, coalesce(url_path, ''), coalesce(description, ''), created_at, updated_at
from categories
where id = $1
`

func (s *PostgresCategoryStore) FindCategoryByID(
	c context.Context,
	categoryID uuid.UUID,
) (Category, error) {
	return scanCategory(s.pool.QueryRow(c, findCategoryByID, categoryID))
}

const listCategories = `
select id, name, coalesce(url_path, ''), coalesce(description, ''), created_at, updated_at
from categories
where ($1 = '' or name ilike '%' || $1 || '%')
order by id
limit $2 offset $3
`

func (s *PostgresCategoryStore) ListCategories(
	c context.Context,
	param ListCategoriesParams,
) ([]Category, error) {
	rows, err := s.pool.Query(c, listCategories, param.Name, param.Limit, param.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

const countCategories = `
select count(*) from categories where ($1 = '' or name ilike '%' || $1 || '%')
`

func (s *PostgresCategoryStore) CountCategories(c context.Context, name string) (int64, error) {
	var total int64
	if err := s.pool.QueryRow(c, countCategories, name).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

const updateCategory = `
update categories
set name = $2, url_path = $3, description = $4, updated_at = now()
where id = $1
returning id, name, coalesce(url_path, ''), coalesce(description, ''), created_at, updated_at
`

func (s *PostgresCategoryStore) UpdateCategory(
	c context.Context,
	param UpdateCategoryParams,
) (Category, error) {
	return scanCategory(s.pool.QueryRow(
		c,
		updateCategory,
		param.ID,
		param.Name,
		param.UrlPath,
		param.Description,
	))
}

const deleteCategory = `delete from categories where id = $1`

func (s *PostgresCategoryStore) DeleteCategory(
	c context.Context,
	categoryID uuid.UUID,
) (bool, error) {
	tag, err := s.pool.Exec(c, deleteCategory, categoryID)
	if err != nil {
		return false, fmt.Errorf("failed deleting category with error=%w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var category Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.UrlPath,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, inErrors.ErrCategoryNotFound
		}
		return Category{}, err
	}
	return category, nil
}
