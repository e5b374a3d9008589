package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dtrann/clothify/cart/common/cache"
	"github.com/dtrann/clothify/cart/common/otel"
	inErrors "github.com/dtrann/clothify/cart/errors"
	"github.com/dtrann/clothify/cart/repository"
	"github.com/dtrann/clothify/cart/pkg/request"
	"github.com/dtrann/clothify/cart/pkg/response"
	commonErrors "github.com/dtrann/clothify/internal/common/errors"
	"github.com/dtrann/clothify/internal/log"
)

const cacheTTL = time.Hour

// CartService is the cart reconciliation engine. All mutating operations run
// inside exactly one store transaction; any validation failure rolls the
// whole batch back, so callers never observe partial writes.
type CartService struct {
	store repository.CartStore
	cache *redis.Client
}

func NewCartService(store repository.CartStore, cache *redis.Client) CartService {
	return CartService{store: store, cache: cache}
}

// AddItems resolves or lazily creates the user's cart and merges the
// requested quantities into it, in request order, under one transaction.
// Additions always merge into an existing line; the price snapshot is
// refreshed to the product's current price on every write.
func (s CartService) AddItems(
	c context.Context,
	userID uuid.UUID,
	items []request.CartItem,
) (repository.Cart, []repository.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItems").
		Str(log.KeyUserID, userID.String()).
		Int(log.KeyCartItems, len(items)).
		Logger()

	var cart repository.Cart
	upserted := make([]repository.CartItem, 0, len(items))

	logger = logger.With().Str(log.KeyProcess, "reconciling cart items").Logger()
	logger.Info().Msg("reconciling cart items")
	err := s.store.Transaction(c, func(c context.Context, tx repository.CartTx) error {
		var err error
		cart, err = tx.UpsertCart(c, userID)
		if err != nil {
			return fmt.Errorf("failed resolving cart for userId=%s with error=%w", userID, err)
		}

		for _, item := range items {
			if item.Quantity < 1 {
				return fmt.Errorf(
					"productId=%s quantity=%d: %w",
					item.ProductId, item.Quantity, inErrors.ErrInvalidQuantity,
				)
			}

			product, err := tx.ProductForUpdate(c, item.ProductId)
			if err != nil {
				return fmt.Errorf("productId=%s: %w", item.ProductId, err)
			}
			if !product.Available {
				return fmt.Errorf("product '%s': %w", product.Name, inErrors.ErrProductUnavailable)
			}

			finalQuantity := item.Quantity
			existing, err := tx.FindCartItem(c, cart.ID, item.ProductId)
			switch {
			case err == nil:
				finalQuantity += existing.Quantity
			case errors.Is(err, inErrors.ErrCartItemNotFound):
			default:
				return err
			}

			if finalQuantity > product.Stock {
				return &inErrors.InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   finalQuantity,
				}
			}

			var row repository.CartItem
			if err == nil {
				row, err = tx.UpdateCartItem(c, cart.ID, item.ProductId, finalQuantity, product.Price)
			} else {
				row, err = tx.InsertCartItem(c, cart.ID, item.ProductId, finalQuantity, product.Price)
			}
			if err != nil {
				return fmt.Errorf("failed upserting cart item productId=%s with error=%w", item.ProductId, err)
			}
			upserted = append(upserted, row)
		}

		return tx.TouchCart(c, cart.ID)
	})
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Cart{}, nil, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("reconciled cart items")

	s.invalidateCache(c, cart.ID, userID)

	return cart, upserted, nil
}

// SetItemQuantity overwrites an existing line's quantity with the supplied
// absolute value. A quantity of zero or less is treated as a removal request
// and reported through the removed return, not as an error. This operation
// never creates a new line.
func (s CartService) SetItemQuantity(
	c context.Context,
	cartID, productID uuid.UUID,
	quantity int32,
) (item repository.CartItem, removed bool, err error) {
	c, span := otel.Tracer.Start(c, "CartService SetItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService SetItemQuantity").
		Str(log.KeyCartID, cartID.String()).
		Str(log.KeyProductID, productID.String()).
		Int32(log.KeyQuantity, quantity).
		Logger()

	if quantity <= 0 {
		logger.Info().Msg("quantity is zero, removing cart item")
		_, err := s.RemoveItem(c, cartID, productID)
		if err != nil {
			return repository.CartItem{}, false, err
		}
		return repository.CartItem{}, true, nil
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
	logger.Info().Msg("updating cart item")
	err = s.store.Transaction(c, func(c context.Context, tx repository.CartTx) error {
		product, err := tx.ProductForUpdate(c, productID)
		if err != nil {
			return fmt.Errorf("productId=%s: %w", productID, err)
		}
		if !product.Available {
			return fmt.Errorf("product '%s': %w", product.Name, inErrors.ErrProductUnavailable)
		}
		if quantity > product.Stock {
			return &inErrors.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   quantity,
			}
		}

		item, err = tx.UpdateCartItem(c, cartID, productID, quantity, product.Price)
		if err != nil {
			return err
		}
		return tx.TouchCart(c, cartID)
	})
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.CartItem{}, false, err
	}
	logger.Info().Msg("updated cart item")

	s.invalidateCacheByCartID(c, cartID)

	return item, false, nil
}

// RemoveItem deletes the matching cart line. It reports whether a row was
// deleted; a missing row is not an error. Removal needs no stock validation.
func (s CartService) RemoveItem(
	c context.Context,
	cartID, productID uuid.UUID,
) (deleted bool, err error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyCartID, cartID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyProcess, "deleting cart item").
		Logger()

	logger.Info().Msg("deleting cart item")
	err = s.store.Transaction(c, func(c context.Context, tx repository.CartTx) error {
		deleted, err = tx.DeleteCartItem(c, cartID, productID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return tx.TouchCart(c, cartID)
	})
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msgf("deleted cart item deleted=%t", deleted)

	if deleted {
		s.invalidateCacheByCartID(c, cartID)
	}

	return deleted, nil
}

// DeleteCart removes the cart and all of its lines in one transaction. It is
// the only operation that removes a cart row.
func (s CartService) DeleteCart(c context.Context, cartID uuid.UUID) (bool, error) {
	c, span := otel.Tracer.Start(c, "CartService DeleteCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService DeleteCart").
		Str(log.KeyCartID, cartID.String()).
		Str(log.KeyProcess, "deleting cart").
		Logger()

	cart, err := s.store.FindCartByID(c, cartID)
	if err != nil {
		if errors.Is(err, inErrors.ErrCartNotFound) {
			logger.Info().Msg("cart not found, nothing to delete")
			return false, nil
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}

	var deleted bool
	logger.Info().Msg("deleting cart")
	err = s.store.Transaction(c, func(c context.Context, tx repository.CartTx) error {
		if err := tx.DeleteCartItems(c, cartID); err != nil {
			return err
		}
		deleted, err = tx.DeleteCart(c, cartID)
		return err
	})
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msgf("deleted cart deleted=%t", deleted)

	s.invalidateCache(c, cartID, cart.UserID)

	return deleted, nil
}

// FindCartByUserID returns the user's cart as a nested view, or
// ErrCartNotFound when the user has no cart yet.
func (s CartService) FindCartByUserID(
	c context.Context,
	userID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartByUserID")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyCartByUserId, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCartByUserID").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Info().Msg("finding cart in cache")
	cached, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		view := response.Cart{}
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			logger.Info().Msg("found cart in cache")
			return view, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "finding cart in db").Logger()
	logger.Info().Msg("finding cart in db")
	cart, err := s.store.FindCartByUserID(c, userID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	view, err := s.buildView(c, cart)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found cart in db")

	s.setCache(c, cacheKey, view)

	return view, nil
}

// FindCartByID returns one cart as a nested view.
func (s CartService) FindCartByID(c context.Context, cartID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartByID")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyCartById, cartID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCartByID").
		Str(log.KeyCartID, cartID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Info().Msg("finding cart in cache")
	cached, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		view := response.Cart{}
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			logger.Info().Msg("found cart in cache")
			return view, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "finding cart in db").Logger()
	logger.Info().Msg("finding cart in db")
	cart, err := s.store.FindCartByID(c, cartID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	view, err := s.buildView(c, cart)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found cart in db")

	s.setCache(c, cacheKey, view)

	return view, nil
}

// FindCarts returns the paginated administrative listing of carts, each
// grouped into a nested view. Empty carts appear with an empty item slice.
func (s CartService) FindCarts(
	c context.Context,
	param request.FindCarts,
) (response.CartList, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCarts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCarts").
		Str(log.KeyProcess, "listing carts").
		Logger()

	page := param.Page
	if page < 1 {
		page = 1
	}
	limit := param.Limit
	if limit < 1 {
		limit = 10
	}

	logger.Info().Msg("counting carts")
	total, err := s.store.CountCarts(c, param.UserId)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartList{}, err
	}

	logger.Info().Msg("listing cart rows")
	rows, err := s.store.ListCartRows(c, repository.ListCartsParams{
		UserID: param.UserId,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartList{}, err
	}

	carts, err := BuildCartListView(rows)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartList{}, err
	}
	logger.Info().Msgf("listed %d carts", len(carts))

	totalPages := int32((total + int64(limit) - 1) / int64(limit))
	return response.CartList{
		Carts:       carts,
		TotalItems:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		Limit:       limit,
	}, nil
}

func (s CartService) buildView(c context.Context, cart repository.Cart) (response.Cart, error) {
	rows, err := s.store.FindCartItemRows(c, cart.ID)
	if err != nil {
		return response.Cart{}, err
	}
	return BuildCartView(cart, rows), nil
}

func (s CartService) setCache(c context.Context, key string, view response.Cart) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService setCache").
		Str(log.KeyCacheKey, key).
		Logger()

	body, err := json.Marshal(view)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling cart for cache")
		return
	}
	if err := s.cache.Set(c, key, body, cacheTTL).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed inserting cart to cache")
	}
}

func (s CartService) invalidateCache(c context.Context, cartID, userID uuid.UUID) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService invalidateCache").
		Logger()

	keys := []string{
		fmt.Sprintf(cache.KeyCartById, cartID.String()),
		fmt.Sprintf(cache.KeyCartByUserId, userID.String()),
	}
	if err := s.cache.Del(c, keys...).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed deleting cart from cache")
	}
}

func (s CartService) invalidateCacheByCartID(c context.Context, cartID uuid.UUID) {
	cart, err := s.store.FindCartByID(c, cartID)
	if err != nil {
		s.cache.Del(c, fmt.Sprintf(cache.KeyCartById, cartID.String()))
		return
	}
	s.invalidateCache(c, cart.ID, cart.UserID)
}
