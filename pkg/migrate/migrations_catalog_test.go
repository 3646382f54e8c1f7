package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestVariantMigrationEnforcesCombinationConstraints(t *testing.T) {
	content := readMigration(t, "*_create_options_and_variants.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS options",
		"CREATE TABLE IF NOT EXISTS variants",
		"CREATE TABLE IF NOT EXISTS variant_options",
		"ON DELETE CASCADE",
		"uniq_variant_option ON variant_options (variant_id, option_id)",
		"uniq_variant_position ON variant_options (variant_id, position)",
		"idx_variants_sku ON variants (sku) WHERE sku IS NOT NULL",
		"position BETWEEN 1 AND 3",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogMigrationCascadesAndUniques(t *testing.T) {
	content := readMigration(t, "*_create_categories_and_products.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS category_fields",
		"CREATE TABLE IF NOT EXISTS products",
		"idx_products_handle ON products (handle)",
		"ON DELETE SET NULL",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAttributeMigrationUniquePerEntity(t *testing.T) {
	content := readMigration(t, "*_create_images_and_attributes.sql")

	if !strings.Contains(content, `uniq_attribute_per_entity ON attributes (product_id, variant_id, namespace, "key")`) {
		t.Error("missing attribute uniqueness index")
	}
	if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS images") {
		t.Error("missing images table")
	}
}
