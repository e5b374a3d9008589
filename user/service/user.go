package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtrann/clothify/internal/common"
	commonErrors "github.com/dtrann/clothify/internal/common/errors"
	"github.com/dtrann/clothify/internal/config"
	"github.com/dtrann/clothify/internal/log"
	"github.com/dtrann/clothify/user/common/otel"
	"github.com/dtrann/clothify/user/repository"
	"github.com/dtrann/clothify/user/pkg/request"
	"github.com/dtrann/clothify/user/pkg/response"
)

const bcryptCost = 12

type UserService struct {
	store  repository.UserStore
	config config.Application
}

func NewUserService(store repository.UserStore, config config.Application) UserService {
	return UserService{store: store, config: config}
}

func (s UserService) Register(
	c context.Context,
	param request.Register,
) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcryptCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Info().Msg("inserting user")
	user, err := s.store.InsertUser(c, repository.InsertUserParams{
		Name:     param.Name,
		Email:    param.Email,
		Password: string(hashed),
		Address:  param.Address,
		Phone:    param.Phone,
		Role:     "user",
	})
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msgf("inserted user userId=%s", user.ID)

	return newUserView(user), nil
}

func (s UserService) Login(c context.Context, param request.Login) (string, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user by email").Logger()
	logger.Info().Msg("finding user by email")
	user, err := s.store.FindUserByEmail(c, param.Email)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Info().Msg("verifying password")
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password)); err != nil {
		err = errors.Join(err, commonErrors.ErrWrongPassword)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", commonErrors.ErrWrongPassword
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Info().Msg("signing token")
	token, err := common.SignToken(s.config, user.ID)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("signed token")

	return token, nil
}

func (s UserService) FindUserByID(c context.Context, userID uuid.UUID) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService FindUserByID")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService FindUserByID").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "finding user").
		Logger()

	logger.Info().Msg("finding user")
	user, err := s.store.FindUserByID(c, userID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("found user")

	return newUserView(user), nil
}

func (s UserService) UpdateUser(
	c context.Context,
	userID uuid.UUID,
	param request.UpdateUser,
) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService UpdateUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService UpdateUser").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "updating user").
		Logger()

	logger.Info().Msg("finding existing user")
	existing, err := s.store.FindUserByID(c, userID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}

	update := repository.UpdateUserParams{
		ID:        existing.ID,
		Name:      existing.Name,
		Address:   existing.Address,
		Phone:     existing.Phone,
		AvatarURL: existing.AvatarURL,
	}
	if param.Name != nil {
		update.Name = *param.Name
	}
	if param.Address != nil {
		update.Address = *param.Address
	}
	if param.Phone != nil {
		update.Phone = *param.Phone
	}
	if param.AvatarUrl != nil {
		update.AvatarURL = *param.AvatarUrl
	}

	logger.Info().Msg("updating user")
	user, err := s.store.UpdateUser(c, update)
	if err != nil {
		err = fmt.Errorf("failed updating user with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("updated user")

	return newUserView(user), nil
}

func (s UserService) DeleteUser(c context.Context, userID uuid.UUID) (bool, error) {
	c, span := otel.Tracer.Start(c, "UserService DeleteUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService DeleteUser").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "deleting user").
		Logger()

	logger.Info().Msg("deleting user")
	deleted, err := s.store.DeleteUser(c, userID)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Info().Msgf("deleted user deleted=%t", deleted)

	return deleted, nil
}

func newUserView(user repository.User) response.User {
	return response.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Address:   user.Address,
		Phone:     user.Phone,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
