package shopifyexport

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db"
	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/shopify"
)

type stubAPI struct {
	created []shopify.Product
	updated []shopify.Product
	respond func(product shopify.Product) *shopify.Product
	err     error
}

func (s *stubAPI) TestConnection(context.Context) (*shopify.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &shopify.Shop{ID: 1, Name: "Test Shop"}, nil
}

func (s *stubAPI) CreateProduct(_ context.Context, product shopify.Product) (*shopify.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, product)
	return s.respond(product), nil
}

func (s *stubAPI) UpdateProduct(_ context.Context, shopifyID int64, product shopify.Product) (*shopify.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	product.ID = shopifyID
	s.updated = append(s.updated, product)
	return s.respond(product), nil
}

func (s *stubAPI) RateLimit(context.Context) (*shopify.RateLimitStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &shopify.RateLimitStatus{Used: 3, Limit: 40}, nil
}

// remoteEcho assigns ids the way Shopify does on create.
func remoteEcho(product shopify.Product) *shopify.Product {
	out := product
	if out.ID == 0 {
		out.ID = 7001
	}
	out.Variants = make([]shopify.Variant, len(product.Variants))
	copy(out.Variants, product.Variants)
	for i := range out.Variants {
		out.Variants[i].ID = int64(8001 + i)
	}
	return &out
}

func setupExportTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  shopify_product_type TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  description TEXT,
  vendor TEXT,
  product_type TEXT,
  tags TEXT,
  handle TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'draft',
  shopify_id INTEGER,
  category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE options (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 1,
  "values" TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE variants (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  sku TEXT UNIQUE,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  barcode TEXT,
  inventory_quantity INTEGER NOT NULL DEFAULT 0,
  inventory_management TEXT NOT NULL DEFAULT 'manual',
  shopify_id INTEGER,
  weight TEXT,
  weight_unit TEXT DEFAULT 'kg',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE variant_options (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  variant_id INTEGER NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
  option_id INTEGER NOT NULL REFERENCES options(id) ON DELETE CASCADE,
  option_value TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE images (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  variant_id INTEGER REFERENCES variants(id) ON DELETE CASCADE,
  src TEXT NOT NULL,
  alt_text TEXT,
  position INTEGER NOT NULL DEFAULT 1,
  width INTEGER,
  height INTEGER,
  size INTEGER,
  filename TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE attributes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  variant_id INTEGER REFERENCES variants(id) ON DELETE CASCADE,
  category TEXT DEFAULT 'custom',
  key TEXT NOT NULL,
  value TEXT,
  value_type TEXT NOT NULL DEFAULT 'string',
  namespace TEXT NOT NULL DEFAULT 'custom',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newExportService(t *testing.T, conn *gorm.DB, api API) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), api, db.NewWithConn(conn, "sqlite"), true)
	require.NoError(t, err)
	return svc
}

func seedExportProduct(t *testing.T, conn *gorm.DB) (productID int64, variantIDs []int64) {
	t.Helper()

	product := models.Product{Title: "Trail Shirt", Handle: "trail-shirt", Status: "active"}
	require.NoError(t, conn.Create(&product).Error)

	skuS, skuM := "TS-S", "TS-M"
	variants := []models.Variant{
		{ProductID: product.ID, SKU: &skuS, Price: decimal.NewFromFloat(19.99)},
		{ProductID: product.ID, SKU: &skuM, Price: decimal.NewFromFloat(19.99)},
	}
	for i := range variants {
		require.NoError(t, conn.Create(&variants[i]).Error)
	}
	return product.ID, []int64{variants[0].ID, variants[1].ID}
}

func TestExportCreatesAndLinksIDs(t *testing.T) {
	conn := setupExportTestDB(t)
	api := &stubAPI{respond: remoteEcho}
	svc := newExportService(t, conn, api)
	productID, variantIDs := seedExportProduct(t, conn)

	result, err := svc.Export(context.Background(), productID, false)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, int64(7001), result.ShopifyID)
	assert.Equal(t, 2, result.VariantsLinked)
	require.Len(t, api.created, 1)
	assert.Empty(t, api.updated)

	var product models.Product
	require.NoError(t, conn.First(&product, productID).Error)
	require.NotNil(t, product.ShopifyID)
	assert.Equal(t, int64(7001), *product.ShopifyID)

	for i, id := range variantIDs {
		var variant models.Variant
		require.NoError(t, conn.First(&variant, id).Error)
		require.NotNil(t, variant.ShopifyID)
		assert.Equal(t, int64(8001+i), *variant.ShopifyID)
	}
}

func TestExportAlreadyExportedWithoutForce(t *testing.T) {
	conn := setupExportTestDB(t)
	api := &stubAPI{respond: remoteEcho}
	svc := newExportService(t, conn, api)
	productID, _ := seedExportProduct(t, conn)
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", productID).Update("shopify_id", 7001).Error)

	_, err := svc.Export(context.Background(), productID, false)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
	assert.Empty(t, api.created)
	assert.Empty(t, api.updated)
}

func TestExportForceUpdates(t *testing.T) {
	conn := setupExportTestDB(t)
	api := &stubAPI{respond: remoteEcho}
	svc := newExportService(t, conn, api)
	productID, _ := seedExportProduct(t, conn)
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", productID).Update("shopify_id", 7001).Error)

	result, err := svc.Export(context.Background(), productID, true)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, int64(7001), result.ShopifyID)
	assert.Empty(t, api.created)
	require.Len(t, api.updated, 1)
	assert.Equal(t, int64(7001), api.updated[0].ID)
}

func TestExportUnknownProduct(t *testing.T) {
	conn := setupExportTestDB(t)
	svc := newExportService(t, conn, &stubAPI{respond: remoteEcho})

	_, err := svc.Export(context.Background(), 999, false)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestExportValidationStopsBeforeRemoteCall(t *testing.T) {
	conn := setupExportTestDB(t)
	api := &stubAPI{respond: remoteEcho}
	svc := newExportService(t, conn, api)

	product := models.Product{Title: "  ", Handle: "blank", Status: "draft"}
	require.NoError(t, conn.Create(&product).Error)

	_, err := svc.Export(context.Background(), product.ID, false)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Empty(t, api.created)
}

func TestExportDisabledIntegration(t *testing.T) {
	conn := setupExportTestDB(t)
	svc, err := NewService(NewRepository(conn), &stubAPI{respond: remoteEcho}, db.NewWithConn(conn, "sqlite"), false)
	require.NoError(t, err)

	_, err = svc.Export(context.Background(), 1, false)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInvalidState, appErr.Code())

	_, err = svc.TestConnection(context.Background())
	require.Error(t, err)
	_, err = svc.RateLimit(context.Background())
	require.Error(t, err)
}

func TestExportDefaultVariantNotLinked(t *testing.T) {
	conn := setupExportTestDB(t)
	api := &stubAPI{respond: remoteEcho}
	svc := newExportService(t, conn, api)

	product := models.Product{Title: "Bare", Handle: "bare", Status: "draft"}
	require.NoError(t, conn.Create(&product).Error)

	result, err := svc.Export(context.Background(), product.ID, false)
	require.NoError(t, err)
	assert.Zero(t, result.VariantsLinked)
}
