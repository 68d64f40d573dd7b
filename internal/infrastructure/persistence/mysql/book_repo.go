package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 图书行与book_authors、book_categories关联行在同一事务(Savepoint)内写入
// 2. 读取时批量加载关联ID，避免N+1查询
// 3. ISBN唯一索引建在规范化的isbn_key上
type bookRepository struct {
	crudRepository[catalog.Book, BookModel]
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) catalog.BookRepository {
	return &bookRepository{crudRepository[catalog.Book, BookModel]{
		db:        db,
		label:     "图书",
		toModel:   toBookModel,
		toEntity:  toBookEntity,
		backfill:  func(e *catalog.Book, m *BookModel) { e.ID = m.ID },
		notFound:  catalog.ErrBookNotFound,
		duplicate: catalog.ErrISBNDuplicate,
	}}
}

// Create 创建图书及其关联行
func (r *bookRepository) Create(ctx context.Context, b *catalog.Book) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		model := toBookModel(b)
		if err := tx.Create(model).Error; err != nil {
			return r.writeError(err, "创建")
		}
		if err := insertLinks(tx, model.ID, b.AuthorIDs, b.CategoryIDs); err != nil {
			return err
		}
		// 关联行写入成功后才回填ID，失败时候选值保持未分配状态
		b.ID = model.ID
		return nil
	})
}

// Update 更新图书，并整体替换作者、分类关联
func (r *bookRepository) Update(ctx context.Context, b *catalog.Book) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		model := toBookModel(b)
		if err := tx.Model(model).Select("*").Omit("id", "created_at").Updates(model).Error; err != nil {
			return r.writeError(err, "更新")
		}
		if err := deleteLinks(tx, b.ID); err != nil {
			return err
		}
		return insertLinks(tx, b.ID, b.AuthorIDs, b.CategoryIDs)
	})
}

// FindByID 根据ID查找（含关联ID）
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*catalog.Book, error) {
	b, err := r.crudRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return b, r.loadLinks(ctx, b)
}

// FindByISBN 根据ISBN查找（规范化比较）
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn_key = ?", integrity.NormalizeKey(isbn)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	b := toBookEntity(&model)
	return b, r.loadLinks(ctx, b)
}

// List 查询全部（含关联ID）
func (r *bookRepository) List(ctx context.Context) ([]*catalog.Book, error) {
	books, err := r.crudRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	return books, r.loadLinks(ctx, books...)
}

// IDsByISBN 按规范化ISBN查询
func (r *bookRepository) IDsByISBN(ctx context.Context, isbn string) ([]uint, error) {
	return r.pluckIDs(ctx, "isbn_key = ?", integrity.NormalizeKey(isbn))
}

// IDsByAuthor 作者写过的图书ID
func (r *bookRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&BookAuthorModel{}).
		Where("author_id = ?", authorID).
		Order("book_id").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询作者图书失败")
	}
	return ids, nil
}

// IDsByCategory 分类下的图书ID
func (r *bookRepository) IDsByCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&BookCategoryModel{}).
		Where("category_id = ?", categoryID).
		Order("book_id").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类图书失败")
	}
	return ids, nil
}

// ListByAuthor 作者写过的图书
func (r *bookRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*catalog.Book, error) {
	links := r.getDB(ctx).Model(&BookAuthorModel{}).Select("book_id").Where("author_id = ?", authorID)
	books, err := r.findWhere(ctx, "id IN (?)", links)
	if err != nil {
		return nil, err
	}
	return books, r.loadLinks(ctx, books...)
}

// ListByCategory 分类下的图书
func (r *bookRepository) ListByCategory(ctx context.Context, categoryID uint) ([]*catalog.Book, error) {
	links := r.getDB(ctx).Model(&BookCategoryModel{}).Select("book_id").Where("category_id = ?", categoryID)
	books, err := r.findWhere(ctx, "id IN (?)", links)
	if err != nil {
		return nil, err
	}
	return books, r.loadLinks(ctx, books...)
}

// DeleteAuthorLinks 删除图书的全部作者关联
func (r *bookRepository) DeleteAuthorLinks(ctx context.Context, bookID uint) error {
	if err := r.getDB(ctx).Where("book_id = ?", bookID).Delete(&BookAuthorModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书作者关联失败")
	}
	return nil
}

// DeleteCategoryLinks 删除图书的全部分类关联
func (r *bookRepository) DeleteCategoryLinks(ctx context.Context, bookID uint) error {
	if err := r.getDB(ctx).Where("book_id = ?", bookID).Delete(&BookCategoryModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书分类关联失败")
	}
	return nil
}

// =========================================
// 关联行
// =========================================

// loadLinks 批量加载图书的作者、分类ID（升序）
func (r *bookRepository) loadLinks(ctx context.Context, books ...*catalog.Book) error {
	if len(books) == 0 {
		return nil
	}

	byID := make(map[uint]*catalog.Book, len(books))
	ids := make([]uint, 0, len(books))
	for _, b := range books {
		b.AuthorIDs, b.CategoryIDs = []uint{}, []uint{}
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	db := r.getDB(ctx)

	var authors []BookAuthorModel
	if err := db.Where("book_id IN ?", ids).Order("book_id, author_id").Find(&authors).Error; err != nil {
		return apperrors.Wrap(err, "查询图书作者关联失败")
	}
	for _, l := range authors {
		byID[l.BookID].AuthorIDs = append(byID[l.BookID].AuthorIDs, l.AuthorID)
	}

	var categories []BookCategoryModel
	if err := db.Where("book_id IN ?", ids).Order("book_id, category_id").Find(&categories).Error; err != nil {
		return apperrors.Wrap(err, "查询图书分类关联失败")
	}
	for _, l := range categories {
		byID[l.BookID].CategoryIDs = append(byID[l.BookID].CategoryIDs, l.CategoryID)
	}

	return nil
}

// insertLinks 写入关联行（重复的关联行直接忽略）
func insertLinks(tx *gorm.DB, bookID uint, authorIDs, categoryIDs []uint) error {
	if len(authorIDs) > 0 {
		rows := make([]BookAuthorModel, len(authorIDs))
		for i, id := range authorIDs {
			rows[i] = BookAuthorModel{BookID: bookID, AuthorID: id}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return apperrors.Wrap(err, "写入图书作者关联失败")
		}
	}

	if len(categoryIDs) > 0 {
		rows := make([]BookCategoryModel, len(categoryIDs))
		for i, id := range categoryIDs {
			rows[i] = BookCategoryModel{BookID: bookID, CategoryID: id}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return apperrors.Wrap(err, "写入图书分类关联失败")
		}
	}

	return nil
}

func deleteLinks(tx *gorm.DB, bookID uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&BookAuthorModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书作者关联失败")
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&BookCategoryModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书分类关联失败")
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型（关联ID单独写入）
func toBookModel(b *catalog.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		ISBN:          b.ISBN,
		ISBNKey:       integrity.NormalizeKey(b.ISBN),
		Title:         b.Title,
		DatePublished: b.DatePublished,
	}
}

// toBookEntity GORM模型 → 领域实体（关联ID由loadLinks填充）
func toBookEntity(m *BookModel) *catalog.Book {
	return &catalog.Book{
		ID:            m.ID,
		ISBN:          m.ISBN,
		Title:         m.Title,
		DatePublished: m.DatePublished,
	}
}
