package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// countryRepository 国家仓储实现
type countryRepository struct {
	crudRepository[catalog.Country, CountryModel]
}

// NewCountryRepository 创建国家仓储
func NewCountryRepository(db *gorm.DB) catalog.CountryRepository {
	return &countryRepository{crudRepository[catalog.Country, CountryModel]{
		db:        db,
		label:     "国家",
		toModel:   toCountryModel,
		toEntity:  toCountryEntity,
		backfill:  func(e *catalog.Country, m *CountryModel) { e.ID = m.ID },
		notFound:  catalog.ErrCountryNotFound,
		duplicate: catalog.ErrCountryDuplicate,
	}}
}

// IDsByName 按规范化名称查询
func (r *countryRepository) IDsByName(ctx context.Context, name string) ([]uint, error) {
	return r.pluckIDs(ctx, "name_key = ?", integrity.NormalizeKey(name))
}

func toCountryModel(c *catalog.Country) *CountryModel {
	return &CountryModel{
		ID:      c.ID,
		Name:    c.Name,
		NameKey: integrity.NormalizeKey(c.Name),
	}
}

func toCountryEntity(m *CountryModel) *catalog.Country {
	return &catalog.Country{
		ID:   m.ID,
		Name: m.Name,
	}
}
