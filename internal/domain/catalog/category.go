package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// CategoryService 分类
type CategoryService struct {
	*Facade[Category]
	categories CategoryRepository
	books      BookRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categories CategoryRepository, books BookRepository, tx TxManager, logger *slog.Logger) *CategoryService {
	s := &CategoryService{categories: categories, books: books}
	s.Facade = NewFacade[Category](categories, tx, Rules[Category]{
		Kind:       integrity.KindCategory,
		IDOf:       func(c *Category) uint { return c.ID },
		SetID:      func(c *Category, id uint) { c.ID = id },
		Normalize:  normalizeCategory,
		Duplicates: s.duplicates,
		Dependents: s.dependents,
	}, logger)
	return s
}

// NameExists 名称(规范化后)是否已存在
func (s *CategoryService) NameExists(ctx context.Context, name string) (bool, error) {
	ids, err := s.categories.IDsByName(ctx, name)
	return len(ids) > 0, err
}

// BooksOf 分类下的图书
func (s *CategoryService) BooksOf(ctx context.Context, categoryID uint) ([]*Book, error) {
	if err := requireExists(ctx, s.categories, integrity.KindCategory, categoryID); err != nil {
		return nil, err
	}
	return s.books.ListByCategory(ctx, categoryID)
}

// CategoriesOfBook 图书的分类
func (s *CategoryService) CategoriesOfBook(ctx context.Context, bookID uint) ([]*Category, error) {
	if err := requireExists(ctx, s.books, integrity.KindBook, bookID); err != nil {
		return nil, err
	}
	return s.categories.ListByBook(ctx, bookID)
}

func (s *CategoryService) duplicates(ctx context.Context, c *Category) ([]integrity.Duplicate, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, nil
	}
	ids, err := s.categories.IDsByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	return []integrity.Duplicate{{Field: "name", Key: strings.TrimSpace(c.Name), MatchIDs: ids}}, nil
}

func (s *CategoryService) dependents(ctx context.Context, id uint) ([]integrity.Dependents, error) {
	ids, err := s.books.IDsByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return []integrity.Dependents{{
		Relation: integrity.Relation{Parent: integrity.KindCategory, Child: integrity.KindBook},
		ChildIDs: ids,
	}}, nil
}
