package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dtrann/clothify/category/common/otel"
	"github.com/dtrann/clothify/category/repository"
	"github.com/dtrann/clothify/category/pkg/request"
	"github.com/dtrann/clothify/category/pkg/response"
	commonErrors "github.com/dtrann/clothify/internal/common/errors"
	"github.com/dtrann/clothify/internal/log"
)

type CategoryService struct {
	store repository.CategoryStore
}

func NewCategoryService(store repository.CategoryStore) CategoryService {
	return CategoryService{store: store}
}

func (s CategoryService) InsertCategory(
	c context.Context,
	param request.InsertCategory,
) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CategoryService InsertCategory").
		Str(log.KeyProcess, "inserting category").
		Logger()

	logger.Info().Msg("inserting category")
	category, err := s.store.InsertCategory(c, repository.InsertCategoryParams{
		Name:        param.Name,
		UrlPath:     param.UrlPath,
		Description: param.Description,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msgf("inserted category categoryId=%s", category.ID)

	return newCategoryView(category), nil
}

func (s CategoryService) FindCategoryByID(
	c context.Context,
	categoryID uuid.UUID,
) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService FindCategoryByID")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CategoryService FindCategoryByID").
		Str(log.KeyCategoryID, categoryID.String()).
		Str(log.KeyProcess, "finding category").
		Logger()

	logger.Info().Msg("finding category")
	category, err := s.store.FindCategoryByID(c, categoryID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msg("found category")

	return newCategoryView(category), nil
}

func (s CategoryService) FindCategories(
	c context.Context,
	param request.FindCategories,
) (response.CategoryList, error) {
	c, span := otel.Tracer.Start(c, "CategoryService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CategoryService FindCategories").
		Str(log.KeyProcess, "listing categories").
		Logger()

	page := param.Page
	if page < 1 {
		page = 1
	}
	limit := param.Limit
	if limit < 1 {
		limit = 10
	}

	logger.Info().Msg("counting categories")
	total, err := s.store.CountCategories(c, param.Name)
	if err != nil {
		err = fmt.Errorf("failed counting categories with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CategoryList{}, err
	}

	logger.Info().Msg("listing categories")
	categories, err := s.store.ListCategories(c, repository.ListCategoriesParams{
		Name:   param.Name,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		err = fmt.Errorf("failed listing categories with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CategoryList{}, err
	}
	logger.Info().Msgf("listed %d categories", len(categories))

	views := make([]response.Category, 0, len(categories))
	for _, category := range categories {
		views = append(views, newCategoryView(category))
	}

	totalPages := int32((total + int64(limit) - 1) / int64(limit))
	return response.CategoryList{
		Categories:  views,
		TotalItems:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		Limit:       limit,
	}, nil
}

func (s CategoryService) UpdateCategory(
	c context.Context,
	categoryID uuid.UUID,
	param request.UpdateCategory,
) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService UpdateCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CategoryService UpdateCategory").
		Str(log.KeyCategoryID, categoryID.String()).
		Str(log.KeyProcess, "updating category").
		Logger()

	logger.Info().Msg("finding existing category")
	existing, err := s.store.FindCategoryByID(c, categoryID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}

	update := repository.UpdateCategoryParams{
		ID:          existing.ID,
		Name:        existing.Name,
		UrlPath:     existing.UrlPath,
		Description: existing.Description,
	}
	if param.Name != nil {
		update.Name = *param.Name
	}
	if param.UrlPath != nil {
		update.UrlPath = *param.UrlPath
	}
	if param.Description != nil {
		update.Description = *param.Description
	}

	logger.Info().Msg("updating category")
	category, err := s.store.UpdateCategory(c, update)
	if err != nil {
		err = fmt.Errorf("failed updating category with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msg("updated category")

	return newCategoryView(category), nil
}

func (s CategoryService) DeleteCategory(c context.Context, categoryID uuid.UUID) (bool, error) {
	c, span := otel.Tracer.Start(c, "CategoryService DeleteCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CategoryService DeleteCategory").
		Str(log.KeyCategoryID, categoryID.String()).
		Str(log.KeyProcess, "deleting category").
		Logger()

	logger.Info().Msg("deleting category")
	deleted, err := s.store.DeleteCategory(c, categoryID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msgf("deleted category deleted=%t", deleted)

	return deleted, nil
}

func newCategoryView(category repository.Category) response.Category {
	return response.Category{
		ID:          category.ID,
		Name:        category.Name,
		UrlPath:     category.UrlPath,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
