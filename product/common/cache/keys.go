package cache

const (
	KeyProductById = "products:%s"
)
