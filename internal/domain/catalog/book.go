package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// BookService 图书
// 设计说明：
// 1. 图书行与book_authors/book_categories关联行在同一事务内写入
// 2. 至少一个作者、一个分类（字段约束min=1）
// 3. 删除时书评、关联行均为级联删除
type BookService struct {
	*Facade[Book]
	books      BookRepository
	authors    AuthorRepository
	categories CategoryRepository
	reviews    ReviewRepository
}

// NewBookService 创建图书服务
func NewBookService(
	books BookRepository,
	authors AuthorRepository,
	categories CategoryRepository,
	reviews ReviewRepository,
	tx TxManager,
	logger *slog.Logger,
) *BookService {
	s := &BookService{books: books, authors: authors, categories: categories, reviews: reviews}
	s.Facade = NewFacade[Book](books, tx, Rules[Book]{
		Kind:       integrity.KindBook,
		IDOf:       func(b *Book) uint { return b.ID },
		SetID:      func(b *Book, id uint) { b.ID = id },
		Normalize:  normalizeBook,
		Parents:    s.parents,
		Duplicates: s.duplicates,
		Dependents: s.dependents,
		Cascade:    s.cascade,
	}, logger)
	return s
}

// GetByISBN 根据ISBN查询（规范化比较）
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.books.FindByISBN(ctx, isbn)
}

// ISBNExists ISBN(规范化后)是否已存在
func (s *BookService) ISBNExists(ctx context.Context, isbn string) (bool, error) {
	ids, err := s.books.IDsByISBN(ctx, isbn)
	return len(ids) > 0, err
}

// Rating 图书平均评分，没有书评时为0
func (s *BookService) Rating(ctx context.Context, bookID uint) (float64, error) {
	if err := requireExists(ctx, s.books, integrity.KindBook, bookID); err != nil {
		return 0, err
	}
	return s.reviews.AverageRating(ctx, bookID)
}

func (s *BookService) parents(ctx context.Context, b *Book) ([]integrity.Presence, error) {
	authorIDs, err := s.authors.ExistingIDs(ctx, b.AuthorIDs)
	if err != nil {
		return nil, err
	}
	categoryIDs, err := s.categories.ExistingIDs(ctx, b.CategoryIDs)
	if err != nil {
		return nil, err
	}

	out := presences(integrity.KindAuthor, "author_ids", b.AuthorIDs, authorIDs)
	return append(out, presences(integrity.KindCategory, "category_ids", b.CategoryIDs, categoryIDs)...), nil
}

func (s *BookService) duplicates(ctx context.Context, b *Book) ([]integrity.Duplicate, error) {
	if strings.TrimSpace(b.ISBN) == "" {
		return nil, nil
	}
	ids, err := s.books.IDsByISBN(ctx, b.ISBN)
	if err != nil {
		return nil, err
	}
	return []integrity.Duplicate{{Field: "isbn", Key: strings.TrimSpace(b.ISBN), MatchIDs: ids}}, nil
}

func (s *BookService) dependents(ctx context.Context, id uint) ([]integrity.Dependents, error) {
	reviewIDs, err := s.reviews.IDsByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 关联行没有独立ID，以另一端的ID标识
	return []integrity.Dependents{
		{Relation: integrity.Relation{Parent: integrity.KindBook, Child: integrity.KindReview}, ChildIDs: reviewIDs},
		{Relation: integrity.Relation{Parent: integrity.KindBook, Child: integrity.KindBookAuthor}, ChildIDs: book.AuthorIDs},
		{Relation: integrity.Relation{Parent: integrity.KindBook, Child: integrity.KindBookCategory}, ChildIDs: book.CategoryIDs},
	}, nil
}

func (s *BookService) cascade(ctx context.Context, c integrity.CascadeStep) error {
	switch c.Relation.Child {
	case integrity.KindReview:
		return s.reviews.DeleteByIDs(ctx, c.ChildIDs)
	case integrity.KindBookAuthor:
		return s.books.DeleteAuthorLinks(ctx, c.ParentID)
	case integrity.KindBookCategory:
		return s.books.DeleteCategoryLinks(ctx, c.ParentID)
	default:
		return nil
	}
}
