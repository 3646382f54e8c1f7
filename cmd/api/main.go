package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lmorandi/catalog-admin-backend/api/routes"
	attributesvc "github.com/lmorandi/catalog-admin-backend/internal/attributes"
	categorysvc "github.com/lmorandi/catalog-admin-backend/internal/categories"
	imagesvc "github.com/lmorandi/catalog-admin-backend/internal/images"
	optionsvc "github.com/lmorandi/catalog-admin-backend/internal/options"
	productsvc "github.com/lmorandi/catalog-admin-backend/internal/products"
	exportsvc "github.com/lmorandi/catalog-admin-backend/internal/shopifyexport"
	variantsvc "github.com/lmorandi/catalog-admin-backend/internal/variants"
	"github.com/lmorandi/catalog-admin-backend/pkg/config"
	"github.com/lmorandi/catalog-admin-backend/pkg/db"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
	"github.com/lmorandi/catalog-admin-backend/pkg/metrics"
	"github.com/lmorandi/catalog-admin-backend/pkg/migrate"
	"github.com/lmorandi/catalog-admin-backend/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	categoryService, err := categorysvc.NewService(categorysvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	optionService, err := optionsvc.NewService(optionsvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create option service", err)
		os.Exit(1)
	}

	variantService, err := variantsvc.NewService(variantsvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create variant service", err)
		os.Exit(1)
	}

	imageService, err := imagesvc.NewService(imagesvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create image service", err)
		os.Exit(1)
	}

	attributeService, err := attributesvc.NewService(attributesvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create attribute service", err)
		os.Exit(1)
	}

	shopifyClient := shopify.NewClient(cfg.Shopify, logg)
	exportService, err := exportsvc.NewService(
		exportsvc.NewRepository(dbClient.DB()),
		shopifyClient,
		dbClient,
		cfg.Shopify.Enabled,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopify export service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"driver":  dbClient.Driver(),
		"shopify": cfg.Shopify.Enabled,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, metrics.NewHTTPMetrics(), routes.Services{
			Categories: categoryService,
			Products:   productService,
			Options:    optionService,
			Variants:   variantService,
			Images:     imageService,
			Attributes: attributeService,
			Shopify:    exportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
