package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	commonErrors "github.com/dtrann/clothify/internal/common/errors"
	"github.com/dtrann/clothify/internal/log"
	"github.com/dtrann/clothify/product/common/cache"
	"github.com/dtrann/clothify/product/common/otel"
	"github.com/dtrann/clothify/product/repository"
	"github.com/dtrann/clothify/product/pkg/request"
	"github.com/dtrann/clothify/product/pkg/response"
)

const cacheTTL = time.Hour

type ProductService struct {
	store repository.ProductStore
	cache *redis.Client
}

func NewProductService(store repository.ProductStore, cache *redis.Client) ProductService {
	return ProductService{store: store, cache: cache}
}

func (s ProductService) InsertProduct(
	c context.Context,
	param request.InsertProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str(log.KeyProcess, "inserting product").
		Logger()

	available := true
	if param.Available != nil {
		available = *param.Available
	}

	logger.Info().Msg("inserting product")
	product, err := s.store.InsertProduct(c, repository.InsertProductParams{
		CategoryID:  param.CategoryId,
		Name:        param.Name,
		Description: param.Description,
		Type:        param.Type,
		Price:       param.Price,
		Stock:       param.Stock,
		Available:   available,
		ImageURL:    param.ImageUrl,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msgf("inserted product productId=%s", product.ID)

	return newProductView(product), nil
}

func (s ProductService) FindProductByID(
	c context.Context,
	productID uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductByID")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KeyProductById, productID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductByID").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Info().Msg("finding product in cache")
	cached, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		view := response.Product{}
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			logger.Info().Msg("found product in cache")
			return view, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in db").Logger()
	logger.Info().Msg("finding product in db")
	product, err := s.store.FindProductByID(c, productID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in db")

	view := newProductView(product)
	if body, err := json.Marshal(view); err == nil {
		if err := s.cache.Set(c, cacheKey, body, cacheTTL).Err(); err != nil {
			logger.Warn().Err(err).Msg("failed inserting product to cache")
		}
	}

	return view, nil
}

func (s ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) (response.ProductList, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyProcess, "listing products").
		Logger()

	page := param.Page
	if page < 1 {
		page = 1
	}
	limit := param.Limit
	if limit < 1 {
		limit = 10
	}

	listParams := repository.ListProductsParams{
		Name:        param.Name,
		Type:        param.Type,
		MinPrice:    param.MinPrice,
		MaxPrice:    param.MaxPrice,
		Available:   param.Available,
		InStock:     param.InStock,
		CategoryIDs: param.CategoryIds,
		SortBy:      param.SortBy,
		SortOrder:   param.SortOrder,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}

	logger.Info().Msg("counting products")
	total, err := s.store.CountProducts(c, listParams)
	if err != nil {
		err = fmt.Errorf("failed counting products with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductList{}, err
	}

	logger.Info().Msg("listing products")
	products, err := s.store.ListProducts(c, listParams)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductList{}, err
	}
	logger.Info().Msgf("listed %d products", len(products))

	views := make([]response.Product, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}

	totalPages := int32((total + int64(limit) - 1) / int64(limit))
	return response.ProductList{
		Products:    views,
		TotalItems:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		Limit:       limit,
	}, nil
}

// UpdateProduct applies a partial update on top of the stored row. Fields the
// request leaves nil keep their current value.
func (s ProductService) UpdateProduct(
	c context.Context,
	productID uuid.UUID,
	param request.UpdateProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService UpdateProduct").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyProcess, "updating product").
		Logger()

	logger.Info().Msg("finding existing product")
	existing, err := s.store.FindProductByID(c, productID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	update := repository.UpdateProductParams{
		ID:          existing.ID,
		CategoryID:  existing.CategoryID,
		Name:        existing.Name,
		Description: existing.Description,
		Type:        existing.Type,
		Price:       existing.Price,
		Stock:       existing.Stock,
		Available:   existing.Available,
		ImageURL:    existing.ImageURL,
	}
	if param.CategoryId != nil {
		update.CategoryID = *param.CategoryId
	}
	if param.Name != nil {
		update.Name = *param.Name
	}
	if param.Description != nil {
		update.Description = *param.Description
	}
	if param.Type != nil {
		update.Type = *param.Type
	}
	if param.Price != nil {
		update.Price = *param.Price
	}
	if param.Stock != nil {
		update.Stock = *param.Stock
	}
	if param.Available != nil {
		update.Available = *param.Available
	}
	if param.ImageUrl != nil {
		update.ImageURL = *param.ImageUrl
	}

	logger.Info().Msg("updating product")
	product, err := s.store.UpdateProduct(c, update)
	if err != nil {
		err = fmt.Errorf("failed updating product with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("updated product")

	s.invalidateCache(c, productID)

	return newProductView(product), nil
}

func (s ProductService) DeleteProduct(c context.Context, productID uuid.UUID) (bool, error) {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService DeleteProduct").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyProcess, "deleting product").
		Logger()

	logger.Info().Msg("deleting product")
	deleted, err := s.store.DeleteProduct(c, productID)
	if err != nil {
		err = fmt.Errorf("failed deleting product with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msgf("deleted product deleted=%t", deleted)

	s.invalidateCache(c, productID)

	return deleted, nil
}

func (s ProductService) invalidateCache(c context.Context, productID uuid.UUID) {
	key := fmt.Sprintf(cache.KeyProductById, productID.String())
	if err := s.cache.Del(c, key).Err(); err != nil {
		zerolog.Ctx(c).Warn().
			Str(log.KeyCacheKey, key).
			Err(err).
			Msg("failed deleting product from cache")
	}
}

func newProductView(product repository.Product) response.Product {
	return response.Product{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
		Name:         product.Name,
		Description:  product.Description,
		Type:         product.Type,
		Price:        product.Price,
		Stock:        product.Stock,
		Available:    product.Available,
		ImageURL:     product.ImageURL,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}
