package db

import (
	"context"
	stdsql "database/sql"
	"strings"

	"entgo.io/ent/dialect/sql"

	"github.com/eslsoft/islamic-sources/internal/core"
)

var categoryColumns = []string{"id", "name", "description", "created_at"}

// CategoryRepository resolves and stores course categories.
type CategoryRepository struct {
	store
}

// NewCategoryRepository constructs a category repository over the shared driver.
func NewCategoryRepository(drv *sql.Driver) *CategoryRepository {
	return &CategoryRepository{store: newStore(drv)}
}

var _ core.CategoryRepository = (*CategoryRepository)(nil)

// ListCategories returns every category ordered by name.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	b := r.builder()
	sel := b.Select(categoryColumns...).From(b.Table(tableCategories)).OrderBy(sql.Asc("name"))

	var categories []core.Category
	err := queryRows(ctx, r.drv, sel, func(rows *sql.Rows) error {
		c, err := scanCategory(rows)
		if err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	})
	if err != nil {
		return nil, core.WrapPersistence("list categories", err)
	}
	return categories, nil
}

// CreateCategory inserts a category row.
func (r *CategoryRepository) CreateCategory(ctx context.Context, category core.Category) (*core.Category, error) {
	insert := r.builder().Insert(tableCategories).
		Columns(categoryColumns...).
		Values(category.ID, category.Name, nullable(category.Description), category.CreatedAt)
	if _, err := execStmt(ctx, r.drv, insert); err != nil {
		return nil, core.WrapPersistence("create category", err)
	}
	return &category, nil
}

// FindCategoryByName looks a category up by case-insensitive name.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	b := r.builder()
	sel := b.Select(categoryColumns...).
		From(b.Table(tableCategories)).
		Where(sql.EqualFold("name", strings.TrimSpace(name))).
		Limit(1)

	var found *core.Category
	err := queryRows(ctx, r.drv, sel, func(rows *sql.Rows) error {
		c, err := scanCategory(rows)
		if err != nil {
			return err
		}
		found = &c
		return nil
	})
	if err != nil {
		return nil, core.WrapPersistence("find category", err)
	}
	if found == nil {
		return nil, core.ErrNotFound
	}
	return found, nil
}

func scanCategory(rows *sql.Rows) (core.Category, error) {
	var (
		c    core.Category
		desc stdsql.NullString
	)
	if err := rows.Scan(&c.ID, &c.Name, &desc, &c.CreatedAt); err != nil {
		return core.Category{}, err
	}
	c.Description = stringPtr(desc)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
