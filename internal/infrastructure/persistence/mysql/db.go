package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，按配置选择MySQL/Postgres/SQLite方言
// 2. TranslateError把各方言的唯一索引冲突统一翻译成gorm.ErrDuplicatedKey
// 3. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 4. 开发环境开启SQL日志，其余环境关闭
// 5. 按配置自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 选择方言
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	slog.Info("数据库连接成功", "driver", cfg.Database.Driver)

	// 6. 自动迁移表结构
	// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CountryModel{},
		&AuthorModel{},
		&CategoryModel{},
		&BookModel{},
		&BookAuthorModel{},
		&BookCategoryModel{},
		&ReviewerModel{},
		&ReviewModel{},
	)
}

// =========================================
// GORM数据模型
// =========================================
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/catalog/entity.go是领域实体，不依赖GORM
// 3. *Key列保存规范化自然键（去空白+大写），唯一索引建在Key列上，
//    并发创建同名记录由数据库串行化
// 4. 物理删除（没有DeletedAt），被删除的自然键可以立即复用

// CountryModel GORM国家模型
type CountryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;comment:国家名称"`
	NameKey   string    `gorm:"uniqueIndex:uk_countries_name;size:255;not null;comment:规范化名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CountryModel) TableName() string {
	return "countries"
}

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"size:100;not null;comment:名"`
	LastName     string    `gorm:"size:200;not null;comment:姓"`
	FirstNameKey string    `gorm:"uniqueIndex:uk_authors_name,priority:1;size:100;not null"`
	LastNameKey  string    `gorm:"uniqueIndex:uk_authors_name,priority:2;size:200;not null"`
	CountryID    uint      `gorm:"index;not null;comment:国家ID"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;comment:分类名称"`
	NameKey   string    `gorm:"uniqueIndex:uk_categories_name;size:255;not null;comment:规范化名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
type BookModel struct {
	ID            uint       `gorm:"primaryKey"`
	ISBN          string     `gorm:"size:10;not null;comment:ISBN号"`
	ISBNKey       string     `gorm:"uniqueIndex:uk_books_isbn;size:10;not null;comment:规范化ISBN"`
	Title         string     `gorm:"size:100;not null;comment:书名"`
	DatePublished *time.Time `gorm:"comment:出版日期"`
	CreatedAt     time.Time  `gorm:"comment:创建时间"`
	UpdatedAt     time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookAuthorModel 图书-作者关联（复合主键，无独立ID）
type BookAuthorModel struct {
	BookID   uint `gorm:"primaryKey;autoIncrement:false"`
	AuthorID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName 指定表名
func (BookAuthorModel) TableName() string {
	return "book_authors"
}

// BookCategoryModel 图书-分类关联（复合主键，无独立ID）
type BookCategoryModel struct {
	BookID     uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName 指定表名
func (BookCategoryModel) TableName() string {
	return "book_categories"
}

// ReviewerModel GORM评论者模型
type ReviewerModel struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"size:100;not null;comment:名"`
	LastName     string    `gorm:"size:200;not null;comment:姓"`
	FirstNameKey string    `gorm:"uniqueIndex:uk_reviewers_name,priority:1;size:100;not null"`
	LastNameKey  string    `gorm:"uniqueIndex:uk_reviewers_name,priority:2;size:200;not null"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewerModel) TableName() string {
	return "reviewers"
}

// ReviewModel GORM书评模型
type ReviewModel struct {
	ID         uint      `gorm:"primaryKey"`
	Headline   string    `gorm:"size:200;not null;comment:标题"`
	ReviewText string    `gorm:"type:text;not null;comment:正文"`
	Rating     int       `gorm:"not null;comment:评分(1-5)"`
	BookID     uint      `gorm:"index;not null;comment:图书ID"`
	ReviewerID uint      `gorm:"index;not null;comment:评论者ID"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
