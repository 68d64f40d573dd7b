package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// authorRepository 作者仓储实现
// 自然键(名, 姓)的唯一索引建在(first_name_key, last_name_key)上
type authorRepository struct {
	crudRepository[catalog.Author, AuthorModel]
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) catalog.AuthorRepository {
	return &authorRepository{crudRepository[catalog.Author, AuthorModel]{
		db:        db,
		label:     "作者",
		toModel:   toAuthorModel,
		toEntity:  toAuthorEntity,
		backfill:  func(e *catalog.Author, m *AuthorModel) { e.ID = m.ID },
		notFound:  catalog.ErrAuthorNotFound,
		duplicate: catalog.ErrAuthorDuplicate,
	}}
}

// IDsByName 按规范化(名, 姓)查询
func (r *authorRepository) IDsByName(ctx context.Context, firstName, lastName string) ([]uint, error) {
	return r.pluckIDs(ctx, "first_name_key = ? AND last_name_key = ?",
		integrity.NormalizeKey(firstName), integrity.NormalizeKey(lastName))
}

// IDsByCountry 引用该国家的作者ID
func (r *authorRepository) IDsByCountry(ctx context.Context, countryID uint) ([]uint, error) {
	return r.pluckIDs(ctx, "country_id = ?", countryID)
}

// ListByCountry 国家下的作者
func (r *authorRepository) ListByCountry(ctx context.Context, countryID uint) ([]*catalog.Author, error) {
	return r.findWhere(ctx, "country_id = ?", countryID)
}

// ListByBook 图书的作者（经book_authors）
func (r *authorRepository) ListByBook(ctx context.Context, bookID uint) ([]*catalog.Author, error) {
	links := r.getDB(ctx).Model(&BookAuthorModel{}).Select("author_id").Where("book_id = ?", bookID)
	return r.findWhere(ctx, "id IN (?)", links)
}

func toAuthorModel(a *catalog.Author) *AuthorModel {
	return &AuthorModel{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		FirstNameKey: integrity.NormalizeKey(a.FirstName),
		LastNameKey:  integrity.NormalizeKey(a.LastName),
		CountryID:    a.CountryID,
	}
}

func toAuthorEntity(m *AuthorModel) *catalog.Author {
	return &catalog.Author{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CountryID: m.CountryID,
	}
}
