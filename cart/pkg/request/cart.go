package request

import (
	"github.com/google/uuid"
)

type CartItem struct {
	ProductId uuid.UUID `validate:"required"       json:"product_id"`
	Quantity  int32     `validate:"required,gte=1" json:"quantity"`
}

type AddCartItems struct {
	Items []CartItem `validate:"required,min=1,dive" json:"items"`
}

type UpdateCartItem struct {
	ProductId uuid.UUID `validate:"required" json:"product_id"`
	Quantity  int32     `validate:"gte=0"    json:"quantity"`
}

type RemoveCartItem struct {
	ProductId uuid.UUID `validate:"required" json:"product_id"`
}

type FindCarts struct {
	UserId uuid.NullUUID `json:"user_id"`
	Page   int32         `validate:"gte=1"         json:"page"`
	Limit  int32         `validate:"gte=1,lte=100" json:"limit"`
}
