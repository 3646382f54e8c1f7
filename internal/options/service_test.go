package options

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	variantsvc "github.com/lmorandi/catalog-admin-backend/internal/variants"
	"github.com/lmorandi/catalog-admin-backend/pkg/db"
	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

func setupOptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	schema := []string{`
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
  category_id INTEGER,
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
CREATE UNIQUE INDEX uniq_variant_option ON variant_options (variant_id, option_id);`, `
CREATE UNIQUE INDEX uniq_variant_position ON variant_options (variant_id, position);`,
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

func seedProduct(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	product := models.Product{Title: "Trail Shirt", Handle: "trail-shirt", Status: "active"}
	require.NoError(t, conn.Create(&product).Error)
	return product.ID
}

func TestCreateAssignsPositions(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	color, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red", "Blue"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, color.Position)

	size, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Size", Values: []string{"S", "M"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, size.Position)

	list, err := svc.List(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Color", list[0].Name)
	assert.Equal(t, dbtypes.StringList{"Red", "Blue"}, list[0].Values)
}

func TestCreateEnforcesOptionCap(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	for i := 0; i < models.MaxOptionsPerProduct; i++ {
		_, err := svc.Create(context.Background(), CreateInput{
			ProductID: productID,
			Name:      fmt.Sprintf("Axis %d", i+1),
			Values:    []string{"a", "b"},
		})
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "One Too Many", Values: []string{"x"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	_, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red"},
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "color", Values: []string{"Blue"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsBadValues(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	tests := []struct {
		name   string
		values []string
	}{
		{"empty list", nil},
		{"blank entry", []string{"Red", "  "}},
		{"duplicate entry", []string{"Red", "Red"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateInput{
				ProductID: productID, Name: "Color", Values: tc.values,
			})
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestUpdateForbidsRemovingInUseValue(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	option, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red", "Blue"},
	})
	require.NoError(t, err)

	variant := models.Variant{ProductID: productID}
	require.NoError(t, conn.Create(&variant).Error)
	link := models.VariantOption{
		VariantID: variant.ID, OptionID: option.ID, OptionValue: "Red", Position: 1,
	}
	require.NoError(t, conn.Create(&link).Error)

	_, err = svc.Update(context.Background(), UpdateInput{
		ProductID: productID,
		OptionID:  option.ID,
		Values:    []string{"Blue", "Green"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Unused values can still be dropped and new ones added.
	updated, err := svc.Update(context.Background(), UpdateInput{
		ProductID: productID,
		OptionID:  option.ID,
		Values:    []string{"Red", "Green"},
	})
	require.NoError(t, err)
	assert.Equal(t, dbtypes.StringList{"Red", "Green"}, updated.Values)
}

func TestUpdateRename(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	option, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red"},
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Size", Values: []string{"S"},
	})
	require.NoError(t, err)

	newName := "Shade"
	updated, err := svc.Update(context.Background(), UpdateInput{
		ProductID: productID, OptionID: option.ID, Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Shade", updated.Name)

	clash := "size"
	_, err = svc.Update(context.Background(), UpdateInput{
		ProductID: productID, OptionID: option.ID, Name: &clash,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeleteCascadesVariantLinks(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	option, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red"},
	})
	require.NoError(t, err)

	variant := models.Variant{ProductID: productID}
	require.NoError(t, conn.Create(&variant).Error)
	link := models.VariantOption{
		VariantID: variant.ID, OptionID: option.ID, OptionValue: "Red", Position: 1,
	}
	require.NoError(t, conn.Create(&link).Error)

	require.NoError(t, svc.Delete(context.Background(), productID, option.ID))

	var links int64
	require.NoError(t, conn.Model(&models.VariantOption{}).Where("option_id = ?", option.ID).Count(&links).Error)
	assert.Zero(t, links)

	// The variant itself survives.
	var variants int64
	require.NoError(t, conn.Model(&models.Variant{}).Where("id = ?", variant.ID).Count(&variants).Error)
	assert.Equal(t, int64(1), variants)
}

func TestDeleteCompactsPositions(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	color, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red", "Blue"},
	})
	require.NoError(t, err)
	size, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Size", Values: []string{"S", "M"},
	})
	require.NoError(t, err)
	material, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Material", Values: []string{"Cotton"},
	})
	require.NoError(t, err)

	variant := models.Variant{ProductID: productID}
	require.NoError(t, conn.Create(&variant).Error)
	for _, link := range []models.VariantOption{
		{VariantID: variant.ID, OptionID: color.ID, OptionValue: "Red", Position: 1},
		{VariantID: variant.ID, OptionID: size.ID, OptionValue: "S", Position: 2},
		{VariantID: variant.ID, OptionID: material.ID, OptionValue: "Cotton", Position: 3},
	} {
		require.NoError(t, conn.Create(&link).Error)
	}

	require.NoError(t, svc.Delete(context.Background(), productID, color.ID))

	list, err := svc.List(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Size", list[0].Name)
	assert.Equal(t, 1, list[0].Position)
	assert.Equal(t, "Material", list[1].Name)
	assert.Equal(t, 2, list[1].Position)

	// The surviving variant's selections follow their options down.
	var links []models.VariantOption
	require.NoError(t, conn.Where("variant_id = ?", variant.ID).Order("position ASC").Find(&links).Error)
	require.Len(t, links, 2)
	assert.Equal(t, size.ID, links[0].OptionID)
	assert.Equal(t, 1, links[0].Position)
	assert.Equal(t, material.ID, links[1].OptionID)
	assert.Equal(t, 2, links[1].Position)

	fit, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Fit", Values: []string{"Slim", "Relaxed"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, fit.Position)
}

func TestGenerateSucceedsAfterOptionChurn(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	color, err := svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Color", Values: []string{"Red", "Blue"},
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Size", Values: []string{"S", "M"},
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Material", Values: []string{"Cotton"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), productID, color.ID))
	_, err = svc.Create(context.Background(), CreateInput{
		ProductID: productID, Name: "Fit", Values: []string{"Slim", "Relaxed"},
	})
	require.NoError(t, err)

	variantSvc, err := variantsvc.NewService(variantsvc.NewRepository(conn), db.NewWithConn(conn, "sqlite"))
	require.NoError(t, err)

	result, err := variantSvc.Generate(context.Background(), variantsvc.GenerateInput{
		ProductID: productID,
		Mode:      variantsvc.GenerateModeAll,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Len(t, result.Created, 4)
	for _, created := range result.Created {
		require.Len(t, created.VariantOptions, 3)
	}
}

func TestOptionNotFound(t *testing.T) {
	conn := setupOptionsTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn)

	err := svc.Delete(context.Background(), productID, 999)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.List(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
