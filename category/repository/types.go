package repository

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	UrlPath     string    `json:"url_path"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type InsertCategoryParams struct {
	Name        string
	UrlPath     string
	Description string
}

type UpdateCategoryParams struct {
	ID          uuid.UUID
	Name        string
	UrlPath     string
	Description string
}

type ListCategoriesParams struct {
	Name   string
	Limit  int32
	Offset int32
}
