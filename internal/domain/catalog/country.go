package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// CountryService 国家
type CountryService struct {
	*Facade[Country]
	countries CountryRepository
	authors   AuthorRepository
}

// NewCountryService 创建国家服务
func NewCountryService(countries CountryRepository, authors AuthorRepository, tx TxManager, logger *slog.Logger) *CountryService {
	s := &CountryService{countries: countries, authors: authors}
	s.Facade = NewFacade[Country](countries, tx, Rules[Country]{
		Kind:       integrity.KindCountry,
		IDOf:       func(c *Country) uint { return c.ID },
		SetID:      func(c *Country, id uint) { c.ID = id },
		Normalize:  normalizeCountry,
		Duplicates: s.duplicates,
		Dependents: s.dependents,
	}, logger)
	return s
}

// NameExists 名称(规范化后)是否已存在
func (s *CountryService) NameExists(ctx context.Context, name string) (bool, error) {
	ids, err := s.countries.IDsByName(ctx, name)
	return len(ids) > 0, err
}

// AuthorsOf 国家下的作者
func (s *CountryService) AuthorsOf(ctx context.Context, countryID uint) ([]*Author, error) {
	if err := requireExists(ctx, s.countries, integrity.KindCountry, countryID); err != nil {
		return nil, err
	}
	return s.authors.ListByCountry(ctx, countryID)
}

// CountryOfAuthor 作者所属国家
func (s *CountryService) CountryOfAuthor(ctx context.Context, authorID uint) (*Country, error) {
	author, err := s.authors.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.countries.FindByID(ctx, author.CountryID)
}

func (s *CountryService) duplicates(ctx context.Context, c *Country) ([]integrity.Duplicate, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, nil
	}
	ids, err := s.countries.IDsByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	return []integrity.Duplicate{{Field: "name", Key: strings.TrimSpace(c.Name), MatchIDs: ids}}, nil
}

func (s *CountryService) dependents(ctx context.Context, id uint) ([]integrity.Dependents, error) {
	ids, err := s.authors.IDsByCountry(ctx, id)
	if err != nil {
		return nil, err
	}
	return []integrity.Dependents{{
		Relation: integrity.Relation{Parent: integrity.KindCountry, Child: integrity.KindAuthor},
		ChildIDs: ids,
	}}, nil
}
