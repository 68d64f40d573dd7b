package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// newTestDB 每个测试独立的SQLite内存库
// 只有一个连接：事务外的查询如果混进事务内，会直接死锁暴露出来
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(&config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCountryRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCountryRepository(newTestDB(t))

	c := &catalog.Country{Name: "France"}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	ok, err := repo.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	c.Name = "République française"
	require.NoError(t, repo.Update(ctx, c))
	got, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "République française", got.Name)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, catalog.ErrCountryNotFound)

	// 再次删除
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), catalog.ErrCountryNotFound)
}

func TestCountryRepository_UniqueIndexIsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewCountryRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &catalog.Country{Name: "France"}))

	// 绕过规则引擎直接写入：唯一索引兜底
	err := repo.Create(ctx, &catalog.Country{Name: "  france "})
	assert.ErrorIs(t, err, catalog.ErrCountryDuplicate)
	assert.Equal(t, apperrors.OutcomeDuplicate, apperrors.OutcomeOf(err))

	ids, err := repo.IDsByName(ctx, "FRANCE")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestAuthorRepository_CompositeNameKey(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	countries := NewCountryRepository(db)
	authors := NewAuthorRepository(db)

	france := &catalog.Country{Name: "France"}
	require.NoError(t, countries.Create(ctx, france))

	require.NoError(t, authors.Create(ctx, &catalog.Author{FirstName: "Victor", LastName: "Hugo", CountryID: france.ID}))
	// 同名不同姓不冲突
	require.NoError(t, authors.Create(ctx, &catalog.Author{FirstName: "Victor", LastName: "Segalen", CountryID: france.ID}))

	err := authors.Create(ctx, &catalog.Author{FirstName: "VICTOR", LastName: " hugo", CountryID: france.ID})
	assert.ErrorIs(t, err, catalog.ErrAuthorDuplicate)

	ids, err := authors.IDsByCountry(ctx, france.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	list, err := authors.ListByCountry(ctx, france.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Hugo", list[0].LastName)
}

func TestBookRepository_Links(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	countries := NewCountryRepository(db)
	authors := NewAuthorRepository(db)
	categories := NewCategoryRepository(db)
	books := NewBookRepository(db)

	france := &catalog.Country{Name: "France"}
	require.NoError(t, countries.Create(ctx, france))
	hugo := &catalog.Author{FirstName: "Victor", LastName: "Hugo", CountryID: france.ID}
	dumas := &catalog.Author{FirstName: "Alexandre", LastName: "Dumas", CountryID: france.ID}
	require.NoError(t, authors.Create(ctx, hugo))
	require.NoError(t, authors.Create(ctx, dumas))
	novel := &catalog.Category{Name: "Novel"}
	history := &catalog.Category{Name: "History"}
	require.NoError(t, categories.Create(ctx, novel))
	require.NoError(t, categories.Create(ctx, history))

	b := &catalog.Book{
		ISBN:        "ABC123",
		Title:       "Les Misérables",
		AuthorIDs:   []uint{hugo.ID},
		CategoryIDs: []uint{novel.ID, history.ID},
	}
	require.NoError(t, books.Create(ctx, b))

	got, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{hugo.ID}, got.AuthorIDs)
	assert.Equal(t, []uint{novel.ID, history.ID}, got.CategoryIDs)

	byISBN, err := books.FindByISBN(ctx, " abc123 ")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byISBN.ID)

	// 更新整体替换关联
	b.AuthorIDs = []uint{hugo.ID, dumas.ID}
	b.CategoryIDs = []uint{history.ID}
	require.NoError(t, books.Update(ctx, b))

	got, err = books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{hugo.ID, dumas.ID}, got.AuthorIDs)
	assert.Equal(t, []uint{history.ID}, got.CategoryIDs)

	ids, err := books.IDsByAuthor(ctx, dumas.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)

	ids, err = books.IDsByCategory(ctx, novel.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	byAuthor, err := books.ListByAuthor(ctx, hugo.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, []uint{history.ID}, byAuthor[0].CategoryIDs)

	authorsOfBook, err := authors.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, authorsOfBook, 2)

	categoriesOfBook, err := categories.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, categoriesOfBook, 1)
	assert.Equal(t, "History", categoriesOfBook[0].Name)

	require.NoError(t, books.DeleteAuthorLinks(ctx, b.ID))
	require.NoError(t, books.DeleteCategoryLinks(ctx, b.ID))
	got, err = books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AuthorIDs)
	assert.Empty(t, got.CategoryIDs)
}

func TestBookRepository_DuplicateISBNRollsBackLinks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	books := NewBookRepository(db)

	require.NoError(t, books.Create(ctx, &catalog.Book{ISBN: "X1", Title: "A", AuthorIDs: []uint{1}, CategoryIDs: []uint{1}}))

	err := books.Create(ctx, &catalog.Book{ISBN: "x1", Title: "B", AuthorIDs: []uint{2}, CategoryIDs: []uint{2}})
	assert.ErrorIs(t, err, catalog.ErrISBNDuplicate)

	var links int64
	require.NoError(t, db.Model(&BookAuthorModel{}).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestBookRepository_FailedLinksKeepIDUnassigned(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	books := NewBookRepository(db)

	// 让关联行写入失败
	errLinks := errors.New("book_authors unavailable")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_links", func(tx *gorm.DB) {
		if tx.Statement.Table == "book_authors" {
			_ = tx.AddError(errLinks)
		}
	}))

	b := &catalog.Book{ISBN: "X1", Title: "A", AuthorIDs: []uint{1}, CategoryIDs: []uint{1}}
	err := books.Create(ctx, b)
	assert.ErrorIs(t, err, errLinks)
	assert.Zero(t, b.ID)

	var n int64
	require.NoError(t, db.Model(&BookModel{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestReviewRepository_AverageRating(t *testing.T) {
	ctx := context.Background()
	reviews := NewReviewRepository(newTestDB(t))

	avg, err := reviews.AverageRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), avg)

	for _, rating := range []int{5, 4} {
		require.NoError(t, reviews.Create(ctx, &catalog.Review{
			Headline: "headline", ReviewText: "text", Rating: rating, BookID: 1, ReviewerID: 1,
		}))
	}
	require.NoError(t, reviews.Create(ctx, &catalog.Review{
		Headline: "other", ReviewText: "text", Rating: 1, BookID: 2, ReviewerID: 1,
	}))

	avg, err = reviews.AverageRating(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)

	ids, err := reviews.IDsByReviewer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	require.NoError(t, reviews.DeleteByIDs(ctx, ids[:2]))
	left, err := reviews.List(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestTxManager_Rollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	txm := NewTxManager(db)
	countries := NewCountryRepository(db)

	boom := errors.New("boom")
	err := txm.Transaction(ctx, func(ctx context.Context) error {
		if err := countries.Create(ctx, &catalog.Country{Name: "France"}); err != nil {
			return err
		}
		// 嵌套事务(Savepoint)
		return txm.Transaction(ctx, func(ctx context.Context) error {
			if err := countries.Create(ctx, &catalog.Country{Name: "Spain"}); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	list, err := countries.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDuplicateError(errors.New("Error 1062: Duplicate entry 'FRANCE' for key 'uk_countries_name'")))
	assert.True(t, isDuplicateError(errors.New("UNIQUE constraint failed: countries.name_key")))
	assert.False(t, isDuplicateError(errors.New("connection refused")))
}
