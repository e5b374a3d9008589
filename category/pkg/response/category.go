package response

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

type CategoryList struct {
	Categories  []Category `json:"categories"`
	TotalItems  int64      `json:"totalItems"`
	CurrentPage int32      `json:"currentPage"`
	TotalPages  int32      `json:"totalPages"`
	Limit       int32      `json:"limit"`
}
