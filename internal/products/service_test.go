package products

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db"
	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
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
  namespace TEXT NOT NULL DEFAULT 'custom',
  key TEXT NOT NULL,
  value TEXT,
  value_type TEXT NOT NULL DEFAULT 'string',
  category TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn, "sqlite"))
	require.NoError(t, err)
	return svc
}

func TestCreateSlugsHandleFromTitle(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), CreateInput{Title: "Trail Shirt 2.0"})
	require.NoError(t, err)
	assert.Equal(t, "trail-shirt-2-0", product.Handle)
	assert.Equal(t, "draft", product.Status.String())

	_, err = svc.Create(context.Background(), CreateInput{Title: "Trail Shirt 2.0"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateWithExplicitHandleAndStatus(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), CreateInput{
		Title:  "Trail Shirt",
		Handle: "My Custom Handle",
		Status: "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-custom-handle", product.Handle)
	assert.Equal(t, "active", product.Status.String())

	_, err = svc.Create(context.Background(), CreateInput{Title: "Bad", Status: "published"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsMissingCategory(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	missing := int64(99)
	_, err := svc.Create(context.Background(), CreateInput{Title: "Shirt", CategoryID: &missing})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListFilters(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	category := models.Category{Name: "Apparel", Status: "active"}
	require.NoError(t, conn.Create(&category).Error)

	_, err := svc.Create(context.Background(), CreateInput{Title: "Trail Shirt", Status: "active", CategoryID: &category.ID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Title: "Summit Jacket", Status: "active"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Title: "Old Poster", Status: "archived"})
	require.NoError(t, err)

	active, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Status: "active"})
	require.NoError(t, err)
	assert.Len(t, active.Products, 2)
	assert.Equal(t, int64(2), active.Meta.Total)

	inCategory, err := svc.List(context.Background(), pagination.Params{}, ListFilters{CategoryID: &category.ID})
	require.NoError(t, err)
	require.Len(t, inCategory.Products, 1)
	assert.Equal(t, "Trail Shirt", inCategory.Products[0].Title)

	search, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Search: "jacket"})
	require.NoError(t, err)
	require.Len(t, search.Products, 1)
	assert.Equal(t, "Summit Jacket", search.Products[0].Title)

	_, err = svc.List(context.Background(), pagination.Params{}, ListFilters{Status: "bogus"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListPagination(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), CreateInput{Title: fmt.Sprintf("Product %d", i+1)})
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), pagination.Params{Page: 2, Limit: 2}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, int64(5), page.Meta.Total)
	assert.Equal(t, int64(3), page.Meta.Pages)
	assert.Equal(t, 2, page.Meta.Page)
}

func TestUpdatePatchesFields(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), CreateInput{Title: "Trail Shirt"})
	require.NoError(t, err)

	newTitle := "Trail Shirt v2"
	newStatus := "active"
	updated, err := svc.Update(context.Background(), UpdateInput{
		ProductID: product.ID,
		Title:     &newTitle,
		Status:    &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, "Trail Shirt v2", updated.Title)
	assert.Equal(t, "active", updated.Status.String())
	// Handle is not re-slugged on title change.
	assert.Equal(t, "trail-shirt", updated.Handle)

	_, err = svc.Update(context.Background(), UpdateInput{ProductID: product.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateHandleConflict(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Create(context.Background(), CreateInput{Title: "Trail Shirt"})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), CreateInput{Title: "Summit Jacket"})
	require.NoError(t, err)

	clash := "trail-shirt"
	_, err = svc.Update(context.Background(), UpdateInput{ProductID: other.ID, Handle: &clash})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetDetailPreloadsRelations(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), CreateInput{Title: "Trail Shirt"})
	require.NoError(t, err)

	option := models.Option{ProductID: product.ID, Name: "Color", Position: 1, Values: dbtypes.StringList{"Red"}}
	require.NoError(t, conn.Create(&option).Error)
	variant := models.Variant{ProductID: product.ID}
	require.NoError(t, conn.Create(&variant).Error)
	link := models.VariantOption{VariantID: variant.ID, OptionID: option.ID, OptionValue: "Red", Position: 1}
	require.NoError(t, conn.Create(&link).Error)

	detail, err := svc.Get(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Options, 1)
	require.Len(t, detail.Variants, 1)
	require.Len(t, detail.Variants[0].VariantOptions, 1)
	require.NotNil(t, detail.Variants[0].VariantOptions[0].Option)
	assert.Equal(t, "Color", detail.Variants[0].VariantOptions[0].Option.Name)
}

func TestDeleteCascades(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn)

	product, err := svc.Create(context.Background(), CreateInput{Title: "Trail Shirt"})
	require.NoError(t, err)

	option := models.Option{ProductID: product.ID, Name: "Color", Position: 1, Values: dbtypes.StringList{"Red"}}
	require.NoError(t, conn.Create(&option).Error)
	variant := models.Variant{ProductID: product.ID}
	require.NoError(t, conn.Create(&variant).Error)
	link := models.VariantOption{VariantID: variant.ID, OptionID: option.ID, OptionValue: "Red", Position: 1}
	require.NoError(t, conn.Create(&link).Error)

	require.NoError(t, svc.Delete(context.Background(), product.ID))

	for _, model := range []any{&models.Option{}, &models.Variant{}, &models.VariantOption{}} {
		var count int64
		require.NoError(t, conn.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}

	err = svc.Delete(context.Background(), product.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
