package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/dtrann/clothify/cart/controller"
	cartRepository "github.com/dtrann/clothify/cart/repository"
	cartService "github.com/dtrann/clothify/cart/service"
	categoryController "github.com/dtrann/clothify/category/controller"
	categoryRepository "github.com/dtrann/clothify/category/repository"
	categoryService "github.com/dtrann/clothify/category/service"
	"github.com/dtrann/clothify/internal/common"
	commonErrors "github.com/dtrann/clothify/internal/common/errors"
	"github.com/dtrann/clothify/internal/config"
	"github.com/dtrann/clothify/internal/infra"
	"github.com/dtrann/clothify/internal/log"
	"github.com/dtrann/clothify/internal/middleware"
	"github.com/dtrann/clothify/internal/otel"
	productController "github.com/dtrann/clothify/product/controller"
	productRepository "github.com/dtrann/clothify/product/repository"
	productService "github.com/dtrann/clothify/product/service"
	userController "github.com/dtrann/clothify/user/controller"
	userRepository "github.com/dtrann/clothify/user/repository"
	userService "github.com/dtrann/clothify/user/service"
)

// RunApiServer wires configuration, telemetry, storage and every domain
// controller into one http server, then blocks until the context is
// cancelled and shuts everything down in reverse order.
func RunApiServer(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunApiServer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, common.AppClothifyApi).
		Str(log.KeyTag, "main RunApiServer").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, common.AppClothifyApi)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, common.AppClothifyApi, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	carts := cartService.NewCartService(cartRepository.NewPostgresCartStore(db), cache)
	products := productService.NewProductService(productRepository.NewPostgresProductStore(db), cache)
	categories := categoryService.NewCategoryService(categoryRepository.NewPostgresCategoryStore(db))
	users := userService.NewUserService(userRepository.NewPostgresUserStore(db), cfg.Application)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(common.AppClothifyApi),
		middleware.RecoverPanic,
		middleware.Logging,
		middleware.Metrics,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	protected := router.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Application))

	cartController.AttachCartController(protected, &carts)
	productController.AttachProductController(router, protected, &products)
	categoryController.AttachCategoryController(router, protected, &categories)
	userController.AttachUserController(router, protected, &users)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "running server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interruption signal, shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
