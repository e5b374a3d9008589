package errors

import "errors"

var ErrCategoryNotFound = errors.New("category not found")
