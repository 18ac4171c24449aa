package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domain "github.com/brightfold/api/internal/domain"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

const (
	projectCollection  = "projects"
	productCollection  = "products"
	categoryCollection = "categories"
)

// ProjectRepository stores portfolio projects.
type ProjectRepository struct {
	base *baseRepository[domain.Project]
}

// NewProjectRepository constructs a MongoDB-backed project repository.
func NewProjectRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*ProjectRepository, error) {
	base, err := newBaseRepository[domain.Project](provider, projectCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &ProjectRepository{base: base}, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, project domain.Project) error {
	if r == nil || r.base == nil {
		return errors.New("project repository not initialised")
	}
	return r.base.insert(ctx, project)
}

func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) error {
	if r == nil || r.base == nil {
		return errors.New("project repository not initialised")
	}
	return r.base.replace(ctx, project.ID, project)
}

func (r *ProjectRepository) Delete(ctx context.Context, projectID string) error {
	if r == nil || r.base == nil {
		return errors.New("project repository not initialised")
	}
	return r.base.delete(ctx, projectID)
}

func (r *ProjectRepository) FindByID(ctx context.Context, projectID string) (domain.Project, error) {
	if r == nil || r.base == nil {
		return domain.Project{}, errors.New("project repository not initialised")
	}
	return r.base.get(ctx, projectID)
}

func (r *ProjectRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Project], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Project]{}, errors.New("project repository not initialised")
	}
	return r.base.list(ctx, activeFilter(opts), bson.D{{Key: "createdAt", Value: -1}}, opts.Skip, opts.Limit)
}

// ProductRepository stores sellable products.
type ProductRepository struct {
	base *baseRepository[domain.Product]
}

// NewProductRepository constructs a MongoDB-backed product repository.
func NewProductRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*ProductRepository, error) {
	base, err := newBaseRepository[domain.Product](provider, productCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &ProductRepository{base: base}, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product domain.Product) error {
	if r == nil || r.base == nil {
		return errors.New("product repository not initialised")
	}
	return r.base.insert(ctx, product)
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	if r == nil || r.base == nil {
		return errors.New("product repository not initialised")
	}
	return r.base.replace(ctx, product.ID, product)
}

func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	if r == nil || r.base == nil {
		return errors.New("product repository not initialised")
	}
	return r.base.delete(ctx, productID)
}

func (r *ProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if r == nil || r.base == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	return r.base.get(ctx, productID)
}

func (r *ProductRepository) List(ctx context.Context, filter repositories.ProductListFilter) (domain.Page[domain.Product], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Product]{}, errors.New("product repository not initialised")
	}

	query := bson.M{}
	if filter.ActiveOnly {
		query["active"] = true
	}
	if categoryID := strings.TrimSpace(filter.CategoryID); categoryID != "" {
		query["categoryId"] = categoryID
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query["name"] = primitive.Regex{Pattern: regexEscape(search), Options: "i"}
	}
	return r.base.list(ctx, query, bson.D{{Key: "createdAt", Value: -1}}, filter.Skip, filter.Limit)
}

// CategoryRepository stores product categories. A unique index on name turns
// duplicate inserts into conflicts.
type CategoryRepository struct {
	base *baseRepository[domain.Category]
}

// NewCategoryRepository constructs a MongoDB-backed category repository.
func NewCategoryRepository(provider *pmongo.Provider, queryTimeout time.Duration) (*CategoryRepository, error) {
	base, err := newBaseRepository[domain.Category](provider, categoryCollection, queryTimeout)
	if err != nil {
		return nil, err
	}
	return &CategoryRepository{base: base}, nil
}

func (r *CategoryRepository) Insert(ctx context.Context, category domain.Category) error {
	if r == nil || r.base == nil {
		return errors.New("category repository not initialised")
	}
	return r.base.insert(ctx, category)
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	if r == nil || r.base == nil {
		return errors.New("category repository not initialised")
	}
	return r.base.replace(ctx, category.ID, category)
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID string) error {
	if r == nil || r.base == nil {
		return errors.New("category repository not initialised")
	}
	return r.base.delete(ctx, categoryID)
}

func (r *CategoryRepository) FindByID(ctx context.Context, categoryID string) (domain.Category, error) {
	if r == nil || r.base == nil {
		return domain.Category{}, errors.New("category repository not initialised")
	}
	return r.base.get(ctx, categoryID)
}

func (r *CategoryRepository) List(ctx context.Context, opts repositories.ListOptions) (domain.Page[domain.Category], error) {
	if r == nil || r.base == nil {
		return domain.Page[domain.Category]{}, errors.New("category repository not initialised")
	}
	return r.base.list(ctx, bson.M{}, bson.D{{Key: "name", Value: 1}}, opts.Skip, opts.Limit)
}
