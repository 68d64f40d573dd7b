package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// categoryRepository 分类仓储实现
type categoryRepository struct {
	crudRepository[catalog.Category, CategoryModel]
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) catalog.CategoryRepository {
	return &categoryRepository{crudRepository[catalog.Category, CategoryModel]{
		db:        db,
		label:     "分类",
		toModel:   toCategoryModel,
		toEntity:  toCategoryEntity,
		backfill:  func(e *catalog.Category, m *CategoryModel) { e.ID = m.ID },
		notFound:  catalog.ErrCategoryNotFound,
		duplicate: catalog.ErrCategoryDuplicate,
	}}
}

// IDsByName 按规范化名称查询
func (r *categoryRepository) IDsByName(ctx context.Context, name string) ([]uint, error) {
	return r.pluckIDs(ctx, "name_key = ?", integrity.NormalizeKey(name))
}

// ListByBook 图书的分类（经book_categories）
func (r *categoryRepository) ListByBook(ctx context.Context, bookID uint) ([]*catalog.Category, error) {
	links := r.getDB(ctx).Model(&BookCategoryModel{}).Select("category_id").Where("book_id = ?", bookID)
	return r.findWhere(ctx, "id IN (?)", links)
}

func toCategoryModel(c *catalog.Category) *CategoryModel {
	return &CategoryModel{
		ID:      c.ID,
		Name:    c.Name,
		NameKey: integrity.NormalizeKey(c.Name),
	}
}

func toCategoryEntity(m *CategoryModel) *catalog.Category {
	return &catalog.Category{
		ID:   m.ID,
		Name: m.Name,
	}
}
