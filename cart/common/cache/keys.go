package cache

const (
	KeyCartById     = "carts:%s"
	KeyCartByUserId = "carts:user:%s"
)
