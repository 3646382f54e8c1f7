package variants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	pkgdb "github.com/lmorandi/catalog-admin-backend/pkg/db"
	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a variant service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("variants repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, productID int64) ([]models.Variant, error) {
	if _, err := s.loadProduct(ctx, s.repo, productID); err != nil {
		return nil, err
	}
	list, err := s.repo.FindVariantsByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variants")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, productID, variantID int64) (*models.Variant, error) {
	variant, err := s.repo.FindVariant(ctx, productID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	return variant, nil
}

// Create materializes one variant from an explicit combination. The
// combination must name every option of the product exactly once and must not
// collide with an existing variant, position order notwithstanding.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Variant, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	var created *models.Variant
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.loadProduct(ctx, repo, input.ProductID)
		if err != nil {
			return err
		}

		combo, err := resolveSelections(product.Options, input.Selections)
		if err != nil {
			return err
		}

		existing, err := existingKeys(ctx, repo, input.ProductID)
		if err != nil {
			return err
		}
		if _, taken := existing[combo.Key()]; taken {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("variant with combination %q already exists", combo.Title()))
		}

		count, err := repo.CountVariantsByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count variants")
		}
		if count >= models.MaxVariantsPerProduct {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product cannot hold more than %d variants", models.MaxVariantsPerProduct))
		}

		variant := &models.Variant{
			ProductID:           input.ProductID,
			SKU:                 input.SKU,
			Barcode:             input.Barcode,
			Price:               input.Price,
			CompareAtPrice:      input.CompareAtPrice,
			InventoryQuantity:   input.InventoryQuantity,
			InventoryManagement: defaultManagement(input.InventoryManagement),
			Weight:              input.Weight,
			WeightUnit:          defaultWeightUnit(input.WeightUnit),
		}
		if _, err := repo.CreateVariant(ctx, variant); err != nil {
			// A concurrent writer can land the same sku between the existence
			// check and the insert; the unique index wins then.
			if pkgdb.IsUniqueViolation(err, "sku") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
		}
		if err := repo.CreateVariantOptions(ctx, linksFor(variant.ID, combo)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant options")
		}

		reloaded, err := repo.FindVariant(ctx, input.ProductID, variant.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variant")
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Generate expands option combinations into variants, skipping every
// combination an existing variant already occupies. The whole expansion is one
// transaction: either all missing variants appear or none do.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	mode := input.Mode
	if mode == "" {
		mode = GenerateModeAll
	}
	if mode != GenerateModeAll && mode != GenerateModeSelective {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown generate mode %q", input.Mode))
	}
	if mode == GenerateModeSelective && len(input.Combinations) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"selective generation requires at least one combination")
	}
	if input.Defaults.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default price cannot be negative")
	}

	result := &GenerateResult{Created: []models.Variant{}}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.loadProduct(ctx, repo, input.ProductID)
		if err != nil {
			return err
		}
		if len(product.Options) == 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidState,
				"product has no options to generate variants from")
		}

		candidates, err := resolveCandidates(product.Options, mode, input.Combinations)
		if err != nil {
			return err
		}
		result.Total = len(candidates)

		existing, err := existingKeys(ctx, repo, input.ProductID)
		if err != nil {
			return err
		}

		count, err := repo.CountVariantsByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count variants")
		}

		createdIDs := map[int64]struct{}{}
		for _, candidate := range candidates {
			if _, taken := existing[candidate.combo.Key()]; taken {
				result.Skipped++
				continue
			}
			if count >= models.MaxVariantsPerProduct {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("generation would exceed %d variants per product", models.MaxVariantsPerProduct))
			}

			variant := candidate.materialize(input.Defaults)
			variant.ProductID = input.ProductID
			if _, err := repo.CreateVariant(ctx, variant); err != nil {
				if pkgdb.IsUniqueViolation(err, "sku") {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err,
						fmt.Sprintf("combination %q: sku already in use", candidate.combo.Title()))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create generated variant")
			}
			if err := repo.CreateVariantOptions(ctx, linksFor(variant.ID, candidate.combo)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create generated variant options")
			}

			existing[candidate.combo.Key()] = struct{}{}
			createdIDs[variant.ID] = struct{}{}
			count++
		}

		all, err := repo.FindVariantsByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variants")
		}
		for _, variant := range all {
			if _, ok := createdIDs[variant.ID]; ok {
				result.Created = append(result.Created, variant)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AvailableCombinations returns the combinations of the full matrix that no
// existing variant occupies yet.
func (s *service) AvailableCombinations(ctx context.Context, productID int64) ([]AvailableCombination, error) {
	product, err := s.loadProduct(ctx, s.repo, productID)
	if err != nil {
		return nil, err
	}
	if len(product.Options) == 0 {
		return []AvailableCombination{}, nil
	}

	axes, err := axesFor(product.Options)
	if err != nil {
		return nil, err
	}

	existing, err := existingKeys(ctx, s.repo, productID)
	if err != nil {
		return nil, err
	}

	available := []AvailableCombination{}
	for _, combo := range GenerateCombinations(axes) {
		if _, taken := existing[combo.Key()]; taken {
			continue
		}
		available = append(available, AvailableCombination{
			Title:      combo.Title(),
			Selections: combo,
		})
	}
	return available, nil
}

// BulkUpdate applies per-variant patches in a single transaction. A missing
// variant id or one belonging to another product aborts the whole batch.
func (s *service) BulkUpdate(ctx context.Context, input BulkUpdateInput) ([]models.Variant, error) {
	if len(input.Updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "updates cannot be empty")
	}

	var updated []models.Variant
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.loadProduct(ctx, repo, input.ProductID); err != nil {
			return err
		}

		for _, update := range input.Updates {
			if _, err := repo.FindVariant(ctx, input.ProductID, update.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("variant %d does not belong to product %d", update.ID, input.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant for update")
			}

			fields, err := updateFields(update)
			if err != nil {
				return err
			}
			if err := repo.UpdateVariant(ctx, update.ID, fields); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant")
			}
		}

		list, err := repo.FindVariantsByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variants")
		}
		updated = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Update(ctx context.Context, productID int64, update VariantUpdate) (*models.Variant, error) {
	var updated *models.Variant
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindVariant(ctx, productID, update.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}

		fields, err := updateFields(update)
		if err != nil {
			return err
		}
		if err := repo.UpdateVariant(ctx, update.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant")
		}

		variant, err := repo.FindVariant(ctx, productID, update.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload variant")
		}
		updated = variant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a variant; its option links go with it via cascade.
func (s *service) Delete(ctx context.Context, productID, variantID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindVariant(ctx, productID, variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if err := repo.DeleteVariant(ctx, variantID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
		}
		return nil
	})
}

func (s *service) loadProduct(ctx context.Context, repo Repository, productID int64) (*models.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := repo.FindProductWithOptions(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// existingKeys builds the combination identity set of every current variant.
func existingKeys(ctx context.Context, repo Repository, productID int64) (map[string]struct{}, error) {
	list, err := repo.FindVariantsByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing variants")
	}
	keys := make(map[string]struct{}, len(list))
	for _, variant := range list {
		keys[comboFromLinks(variant.VariantOptions).Key()] = struct{}{}
	}
	return keys, nil
}

func comboFromLinks(links []models.VariantOption) Combination {
	combo := make(Combination, len(links))
	for i, link := range links {
		combo[i] = Selection{OptionID: link.OptionID, Value: link.OptionValue, Position: link.Position}
	}
	return combo
}

func linksFor(variantID int64, combo Combination) []models.VariantOption {
	links := make([]models.VariantOption, len(combo))
	for i, sel := range combo {
		links[i] = models.VariantOption{
			VariantID:   variantID,
			OptionID:    sel.OptionID,
			OptionValue: sel.Value,
			Position:    sel.Position,
		}
	}
	return links
}

// resolveSelections checks an explicit combination against the product's
// options: every option covered exactly once, every value allowed.
func resolveSelections(options []models.Option, selections []SelectionInput) (Combination, error) {
	if len(selections) != len(options) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("expected %d selections, got %d", len(options), len(selections)))
	}

	byID := make(map[int64]models.Option, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt
	}

	combo := make(Combination, 0, len(selections))
	seen := make(map[int64]struct{}, len(selections))
	for _, sel := range selections {
		opt, ok := byID[sel.OptionID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("option %d does not belong to this product", sel.OptionID))
		}
		if _, dup := seen[sel.OptionID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("option %q selected more than once", opt.Name))
		}
		if !opt.Values.Contains(sel.Value) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("value %q is not allowed for option %q", sel.Value, opt.Name))
		}
		seen[sel.OptionID] = struct{}{}
		combo = append(combo, Selection{OptionID: opt.ID, Value: sel.Value, Position: opt.Position})
	}
	return combo, nil
}

// candidate pairs a resolved combination with its optional per-row overrides.
type candidate struct {
	combo     Combination
	overrides CombinationInput
}

func resolveCandidates(options []models.Option, mode GenerateMode, inputs []CombinationInput) ([]candidate, error) {
	if mode == GenerateModeAll {
		axes, err := axesFor(options)
		if err != nil {
			return nil, err
		}
		combos := GenerateCombinations(axes)
		candidates := make([]candidate, len(combos))
		for i, combo := range combos {
			candidates[i] = candidate{combo: combo}
		}
		return candidates, nil
	}

	candidates := make([]candidate, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		combo, err := resolveSelections(options, in.Selections)
		if err != nil {
			return nil, err
		}
		if in.Price != nil && in.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("combination %q: price cannot be negative", combo.Title()))
		}
		if _, dup := seen[combo.Key()]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("combination %q appears more than once in the request", combo.Title()))
		}
		seen[combo.Key()] = struct{}{}
		candidates = append(candidates, candidate{combo: combo, overrides: in})
	}
	return candidates, nil
}

func (c candidate) materialize(defaults VariantDefaults) *models.Variant {
	variant := &models.Variant{
		SKU:                 generatedSKU(defaults.SKUPrefix, c.combo),
		Price:               defaults.Price,
		CompareAtPrice:      defaults.CompareAtPrice,
		InventoryQuantity:   defaults.InventoryQuantity,
		InventoryManagement: defaultManagement(defaults.InventoryManagement),
		Weight:              defaults.Weight,
		WeightUnit:          defaultWeightUnit(defaults.WeightUnit),
	}
	if c.overrides.SKU != nil {
		variant.SKU = c.overrides.SKU
	}
	if c.overrides.Price != nil {
		variant.Price = *c.overrides.Price
	}
	if c.overrides.CompareAtPrice != nil {
		variant.CompareAtPrice = c.overrides.CompareAtPrice
	}
	if c.overrides.InventoryQuantity != nil {
		variant.InventoryQuantity = *c.overrides.InventoryQuantity
	}
	return variant
}

// axesFor turns the product's options into expansion axes.
func axesFor(options []models.Option) ([]Axis, error) {
	axes := make([]Axis, 0, len(options))
	for _, opt := range options {
		if len(opt.Values) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("option %q has no values to expand", opt.Name))
		}
		axes = append(axes, Axis{OptionID: opt.ID, Name: opt.Name, Position: opt.Position, Values: opt.Values})
	}
	return axes, nil
}

// generatedSKU derives a sku from the prefix and the combination values, e.g.
// "TS" + Red/S => "TS-RED-S". Without a prefix the sku is left unset.
func generatedSKU(prefix string, combo Combination) *string {
	if prefix == "" {
		return nil
	}
	parts := make([]string, 0, len(combo)+1)
	parts = append(parts, strings.ToUpper(slug.Make(prefix)))
	for _, sel := range combo {
		parts = append(parts, strings.ToUpper(slug.Make(sel.Value)))
	}
	sku := strings.Join(parts, "-")
	return &sku
}

func updateFields(update VariantUpdate) (map[string]any, error) {
	fields := map[string]any{}
	if update.Price != nil {
		if update.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("variant %d: price cannot be negative", update.ID))
		}
		fields["price"] = *update.Price
	}
	if update.CompareAtPrice != nil {
		fields["compare_at_price"] = *update.CompareAtPrice
	}
	if update.SKU != nil {
		fields["sku"] = *update.SKU
	}
	if update.Barcode != nil {
		fields["barcode"] = *update.Barcode
	}
	if update.InventoryQuantity != nil {
		if *update.InventoryQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("variant %d: inventory quantity cannot be negative", update.ID))
		}
		fields["inventory_quantity"] = *update.InventoryQuantity
	}
	if update.InventoryManagement != nil {
		mgmt, err := enums.ParseInventoryManagement(*update.InventoryManagement)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		fields["inventory_management"] = mgmt
	}
	if update.Weight != nil {
		fields["weight"] = *update.Weight
	}
	if update.WeightUnit != nil {
		unit, err := enums.ParseWeightUnit(*update.WeightUnit)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		fields["weight_unit"] = unit
	}
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("variant %d: no fields to update", update.ID))
	}
	return fields, nil
}

func defaultManagement(mgmt enums.InventoryManagement) enums.InventoryManagement {
	if mgmt == "" {
		return enums.InventoryManagementManual
	}
	return mgmt
}

func defaultWeightUnit(unit enums.WeightUnit) enums.WeightUnit {
	if unit == "" {
		return enums.WeightUnitKilogram
	}
	return unit
}

