package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lmorandi/catalog-admin-backend/api/controllers"
	"github.com/lmorandi/catalog-admin-backend/api/middleware"
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
)

// Services bundles everything the route table serves.
type Services struct {
	Categories categorysvc.Service
	Products   productsvc.Service
	Options    optionsvc.Service
	Variants   variantsvc.Service
	Images     imagesvc.Service
	Attributes attributesvc.Service
	Shopify    exportsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
		r.Get("/metrics", httpMetrics.Handler().ServeHTTP)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(svcs.Categories, logg))
		r.Post("/", controllers.CreateCategory(svcs.Categories, logg))
		r.Get("/{id}", controllers.GetCategory(svcs.Categories, logg))
		r.Put("/{id}", controllers.UpdateCategory(svcs.Categories, logg))
		r.Delete("/{id}", controllers.DeleteCategory(svcs.Categories, logg))
		r.Post("/{id}/fields", controllers.AddCategoryField(svcs.Categories, logg))
		r.Put("/{id}/fields/{fieldId}", controllers.UpdateCategoryField(svcs.Categories, logg))
		r.Delete("/{id}/fields/{fieldId}", controllers.DeleteCategoryField(svcs.Categories, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Products, logg))
		r.Post("/", controllers.CreateProduct(svcs.Products, logg))
		r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
		r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
		r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))

		r.Route("/{productId}/options", func(r chi.Router) {
			r.Get("/", controllers.ListOptions(svcs.Options, logg))
			r.Post("/", controllers.CreateOption(svcs.Options, logg))
			r.Put("/{optionId}", controllers.UpdateOption(svcs.Options, logg))
			r.Delete("/{optionId}", controllers.DeleteOption(svcs.Options, logg))
		})

		r.Route("/{productId}/variants", func(r chi.Router) {
			r.Get("/", controllers.ListVariants(svcs.Variants, logg))
			r.Post("/", controllers.CreateVariant(svcs.Variants, logg))
			r.Post("/generate", controllers.GenerateVariants(svcs.Variants, logg))
			r.Get("/available-combinations", controllers.AvailableCombinations(svcs.Variants, logg))
			r.Put("/bulk", controllers.BulkUpdateVariants(svcs.Variants, logg))
			r.Delete("/{variantId}", controllers.DeleteVariant(svcs.Variants, logg))
		})

		r.Route("/{productId}/images", func(r chi.Router) {
			r.Get("/", controllers.ListImages(svcs.Images, logg))
			r.Post("/", controllers.CreateImage(svcs.Images, logg))
			r.Put("/reorder", controllers.ReorderImages(svcs.Images, logg))
			r.Put("/{imageId}", controllers.UpdateImage(svcs.Images, logg))
			r.Delete("/{imageId}", controllers.DeleteImage(svcs.Images, logg))
		})

		r.Route("/{productId}/attributes", func(r chi.Router) {
			r.Get("/", controllers.ListAttributes(svcs.Attributes, logg))
			r.Post("/", controllers.CreateAttribute(svcs.Attributes, logg))
			r.Put("/{attributeId}", controllers.UpdateAttribute(svcs.Attributes, logg))
			r.Delete("/{attributeId}", controllers.DeleteAttribute(svcs.Attributes, logg))
		})
	})

	r.Route("/api/shopify", func(r chi.Router) {
		r.Get("/test", controllers.ShopifyTest(svcs.Shopify, logg))
		r.Get("/rate-limit", controllers.ShopifyRateLimit(svcs.Shopify, logg))
		r.Post("/export/{productId}", controllers.ShopifyExportProduct(svcs.Shopify, logg))
	})

	return r
}
