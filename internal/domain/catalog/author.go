package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// AuthorService 作者
// 自然键：(名, 姓)；父实体：国家；受保护的子行：写过的图书
type AuthorService struct {
	*Facade[Author]
	authors   AuthorRepository
	countries CountryRepository
	books     BookRepository
}

// NewAuthorService 创建作者服务
func NewAuthorService(authors AuthorRepository, countries CountryRepository, books BookRepository, tx TxManager, logger *slog.Logger) *AuthorService {
	s := &AuthorService{authors: authors, countries: countries, books: books}
	s.Facade = NewFacade[Author](authors, tx, Rules[Author]{
		Kind:       integrity.KindAuthor,
		IDOf:       func(a *Author) uint { return a.ID },
		SetID:      func(a *Author, id uint) { a.ID = id },
		Normalize:  normalizeAuthor,
		Parents:    s.parents,
		Duplicates: s.duplicates,
		Dependents: s.dependents,
	}, logger)
	return s
}

// NameExists (名, 姓)规范化后是否已存在
func (s *AuthorService) NameExists(ctx context.Context, firstName, lastName string) (bool, error) {
	ids, err := s.authors.IDsByName(ctx, firstName, lastName)
	return len(ids) > 0, err
}

// BooksOf 作者写过的图书
func (s *AuthorService) BooksOf(ctx context.Context, authorID uint) ([]*Book, error) {
	if err := requireExists(ctx, s.authors, integrity.KindAuthor, authorID); err != nil {
		return nil, err
	}
	return s.books.ListByAuthor(ctx, authorID)
}

// AuthorsOfBook 图书的作者
func (s *AuthorService) AuthorsOfBook(ctx context.Context, bookID uint) ([]*Author, error) {
	if err := requireExists(ctx, s.books, integrity.KindBook, bookID); err != nil {
		return nil, err
	}
	return s.authors.ListByBook(ctx, bookID)
}

func (s *AuthorService) parents(ctx context.Context, a *Author) ([]integrity.Presence, error) {
	if a.CountryID == 0 {
		return nil, nil
	}
	ok, err := s.countries.Exists(ctx, a.CountryID)
	if err != nil {
		return nil, err
	}
	return []integrity.Presence{{
		Kind:   integrity.KindCountry,
		ID:     a.CountryID,
		Field:  "country_id",
		Exists: ok,
	}}, nil
}

func (s *AuthorService) duplicates(ctx context.Context, a *Author) ([]integrity.Duplicate, error) {
	if strings.TrimSpace(a.FirstName) == "" || strings.TrimSpace(a.LastName) == "" {
		return nil, nil
	}
	ids, err := s.authors.IDsByName(ctx, a.FirstName, a.LastName)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName)
	return []integrity.Duplicate{{Field: "first_name", Key: key, MatchIDs: ids}}, nil
}

func (s *AuthorService) dependents(ctx context.Context, id uint) ([]integrity.Dependents, error) {
	ids, err := s.books.IDsByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	return []integrity.Dependents{{
		Relation: integrity.Relation{Parent: integrity.KindAuthor, Child: integrity.KindBook},
		ChildIDs: ids,
	}}, nil
}
