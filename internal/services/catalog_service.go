package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	domain "github.com/brightfold/api/internal/domain"
	"github.com/brightfold/api/internal/repositories"
)

var (
	// ErrCatalogInvalidInput signals the caller provided invalid data.
	ErrCatalogInvalidInput = errors.New("catalog: invalid input")
	// ErrCatalogNotFound indicates the product or category does not exist.
	ErrCatalogNotFound = errors.New("catalog: not found")
	// ErrCatalogConflict indicates a uniqueness violation, typically a
	// duplicate category name.
	ErrCatalogConflict = errors.New("catalog: conflict")
)

// CatalogServiceDeps bundles collaborators for the catalog service.
type CatalogServiceDeps struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository

	Clock       func() time.Time
	IDGenerator func(prefix string) string
}

type catalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	clock      func() time.Time
	newID      func(prefix string) string
	sanitize   *bluemonday.Policy
}

// NewCatalogService wires a CatalogService implementation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("catalog service requires product repository")
	}
	if deps.Categories == nil {
		return nil, errors.New("catalog service requires category repository")
	}
	svc := &catalogService{
		products:   deps.Products,
		categories: deps.Categories,
		clock:      deps.Clock,
		newID:      deps.IDGenerator,
		sanitize:   bluemonday.UGCPolicy(),
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = func(prefix string) string {
			return prefix + strings.ToLower(ulid.Make().String())
		}
	}
	return svc, nil
}

func wrapCatalogErr(op string, err error) error {
	switch {
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, op)
	case repositories.IsConflict(err):
		return fmt.Errorf("%w: %s", ErrCatalogConflict, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *catalogService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return domain.Product{}, fmt.Errorf("%w: product name is required", ErrCatalogInvalidInput)
	}
	if product.Price < 0 {
		return domain.Product{}, fmt.Errorf("%w: product price cannot be negative", ErrCatalogInvalidInput)
	}
	if product.CategoryID != "" {
		if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
			if repositories.IsNotFound(err) {
				return domain.Product{}, fmt.Errorf("%w: category %q does not exist", ErrCatalogInvalidInput, product.CategoryID)
			}
			return domain.Product{}, wrapCatalogErr("resolve category", err)
		}
	}
	now := s.clock()
	product.ID = s.newID("prd_")
	if product.Slug == "" {
		product.Slug = slugify(product.Name)
	}
	product.Description = strings.TrimSpace(s.sanitize.Sanitize(product.Description))
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.products.Insert(ctx, product); err != nil {
		return domain.Product{}, wrapCatalogErr("create product", err)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	existing, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		return domain.Product{}, wrapCatalogErr("find product", err)
	}
	if product.Price < 0 {
		return domain.Product{}, fmt.Errorf("%w: product price cannot be negative", ErrCatalogInvalidInput)
	}
	if product.CategoryID != "" && product.CategoryID != existing.CategoryID {
		if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
			if repositories.IsNotFound(err) {
				return domain.Product{}, fmt.Errorf("%w: category %q does not exist", ErrCatalogInvalidInput, product.CategoryID)
			}
			return domain.Product{}, wrapCatalogErr("resolve category", err)
		}
	}
	if product.Slug == "" {
		product.Slug = existing.Slug
	}
	product.Description = strings.TrimSpace(s.sanitize.Sanitize(product.Description))
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.clock()
	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, wrapCatalogErr("update product", err)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.products.Delete(ctx, productID); err != nil {
		return wrapCatalogErr("delete product", err)
	}
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, wrapCatalogErr("get product", err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, query CatalogQuery) (domain.Page[domain.Product], error) {
	page, err := s.products.List(ctx, repositories.ProductListFilter{
		CategoryID: query.CategoryID,
		Search:     strings.TrimSpace(query.Search),
		ActiveOnly: query.ActiveOnly,
		Skip:       query.Skip,
		Limit:      query.Limit,
	})
	if err != nil {
		return domain.Page[domain.Product]{}, wrapCatalogErr("list products", err)
	}
	return page, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return domain.Category{}, fmt.Errorf("%w: category name is required", ErrCatalogInvalidInput)
	}
	now := s.clock()
	category.ID = s.newID("cat_")
	category.Name = strings.TrimSpace(category.Name)
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	if err := s.categories.Insert(ctx, category); err != nil {
		return domain.Category{}, wrapCatalogErr("create category", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	existing, err := s.categories.FindByID(ctx, category.ID)
	if err != nil {
		return domain.Category{}, wrapCatalogErr("find category", err)
	}
	if strings.TrimSpace(category.Name) == "" {
		return domain.Category{}, fmt.Errorf("%w: category name is required", ErrCatalogInvalidInput)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Slug == "" {
		category.Slug = existing.Slug
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = s.clock()
	if err := s.categories.Update(ctx, category); err != nil {
		return domain.Category{}, wrapCatalogErr("update category", err)
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return wrapCatalogErr("delete category", err)
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Category], error) {
	page, err := s.categories.List(ctx, opts)
	if err != nil {
		return domain.Page[domain.Category]{}, wrapCatalogErr("list categories", err)
	}
	return page, nil
}
