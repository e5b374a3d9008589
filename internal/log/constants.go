package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyConfig        = "config"
	KeyEmail         = "email"
	KeyToken         = "token"
	KeyDbURL         = "dbUrl"
	KeyCacheKey      = "cacheKey"
	KeyUserID        = "userId"
	KeyCartID        = "cartId"
	KeyCartItemID    = "cartItemId"
	KeyProductID     = "productId"
	KeyCategoryID    = "categoryId"
	KeyQuantity      = "quantity"
	KeyCart          = "cart"
	KeyCartItems     = "cartItems"
	KeyProduct       = "product"
	KeyPathValues    = "pathValues"
	KeyRequest       = "request"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
)
