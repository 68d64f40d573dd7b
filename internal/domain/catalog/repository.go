package catalog

import (
	"context"
)

// Store 单实体表的存储协作者(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法必须参与ctx中携带的事务(见TxManager)
// 3. FindByID/Delete在行不存在时返回对应的NotFound错误
// 4. Create/Update遇到唯一索引冲突时返回对应的Duplicate错误
type Store[T any] interface {
	// List 查询全部记录(按ID升序)
	List(ctx context.Context) ([]*T, error)

	// FindByID 根据ID查找
	FindByID(ctx context.Context, id uint) (*T, error)

	// Exists 判断ID是否存在
	Exists(ctx context.Context, id uint) (bool, error)

	// ExistingIDs 返回ids中实际存在的ID
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)

	// Create 创建并回填ID
	Create(ctx context.Context, entity *T) error

	// Update 按实体ID更新全部字段
	Update(ctx context.Context, entity *T) error

	// Delete 按ID删除(物理删除)
	Delete(ctx context.Context, id uint) error
}

// CountryRepository 国家仓储
type CountryRepository interface {
	Store[Country]

	// IDsByName 按规范化名称查询匹配的国家ID
	IDsByName(ctx context.Context, name string) ([]uint, error)
}

// AuthorRepository 作者仓储
type AuthorRepository interface {
	Store[Author]

	// IDsByName 按规范化(名,姓)查询匹配的作者ID
	IDsByName(ctx context.Context, firstName, lastName string) ([]uint, error)

	// IDsByCountry 查询引用该国家的作者ID
	IDsByCountry(ctx context.Context, countryID uint) ([]uint, error)

	// ListByCountry 查询国家下的作者
	ListByCountry(ctx context.Context, countryID uint) ([]*Author, error)

	// ListByBook 查询图书的作者(经book_authors)
	ListByBook(ctx context.Context, bookID uint) ([]*Author, error)
}

// CategoryRepository 分类仓储
type CategoryRepository interface {
	Store[Category]

	// IDsByName 按规范化名称查询匹配的分类ID
	IDsByName(ctx context.Context, name string) ([]uint, error)

	// ListByBook 查询图书的分类(经book_categories)
	ListByBook(ctx context.Context, bookID uint) ([]*Category, error)
}

// BookRepository 图书仓储
// Create/Update同时写入book_authors、book_categories关联行
type BookRepository interface {
	Store[Book]

	// IDsByISBN 按规范化ISBN查询匹配的图书ID
	IDsByISBN(ctx context.Context, isbn string) ([]uint, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// IDsByAuthor 查询作者写过的图书ID
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)

	// IDsByCategory 查询分类下的图书ID
	IDsByCategory(ctx context.Context, categoryID uint) ([]uint, error)

	// ListByAuthor 查询作者写过的图书
	ListByAuthor(ctx context.Context, authorID uint) ([]*Book, error)

	// ListByCategory 查询分类下的图书
	ListByCategory(ctx context.Context, categoryID uint) ([]*Book, error)

	// DeleteAuthorLinks 删除图书的全部作者关联行
	DeleteAuthorLinks(ctx context.Context, bookID uint) error

	// DeleteCategoryLinks 删除图书的全部分类关联行
	DeleteCategoryLinks(ctx context.Context, bookID uint) error
}

// ReviewerRepository 评论者仓储
type ReviewerRepository interface {
	Store[Reviewer]

	// IDsByName 按规范化(名,姓)查询匹配的评论者ID
	IDsByName(ctx context.Context, firstName, lastName string) ([]uint, error)
}

// ReviewRepository 书评仓储
type ReviewRepository interface {
	Store[Review]

	// IDsByBook 查询图书的书评ID
	IDsByBook(ctx context.Context, bookID uint) ([]uint, error)

	// IDsByReviewer 查询评论者的书评ID
	IDsByReviewer(ctx context.Context, reviewerID uint) ([]uint, error)

	// ListByBook 查询图书的书评
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// ListByReviewer 查询评论者的书评
	ListByReviewer(ctx context.Context, reviewerID uint) ([]*Review, error)

	// DeleteByIDs 批量删除书评
	DeleteByIDs(ctx context.Context, ids []uint) error

	// AverageRating 图书平均评分(无书评时为0)
	AverageRating(ctx context.Context, bookID uint) (float64, error)
}

// TxManager 事务边界
// fn内通过ctx访问的所有Store操作都在同一事务中执行;
// fn返回error时ROLLBACK,返回nil时COMMIT。
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
