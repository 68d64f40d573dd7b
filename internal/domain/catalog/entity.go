package catalog

import (
	"time"
)

// 目录实体
// 设计说明:
// 1. ID由存储分配，创建后不可变
// 2. 字段约束以validate tag声明，由integrity.ValidateFields在写入前统一解释
// 3. 实体不依赖GORM，infrastructure层负责与数据模型互转

// Country 国家
type Country struct {
	ID   uint   `json:"id"`
	Name string `json:"name" validate:"notblank,max=255"`
}

// Author 作者
type Author struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"notblank,max=200"`
	CountryID uint   `json:"country_id" validate:"required"`
}

// FullName 作者全名
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Category 分类
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name" validate:"notblank,max=255"`
}

// Book 图书
// AuthorIDs、CategoryIDs描述多对多关联（至少各一个），
// 与图书行在同一事务内写入。
type Book struct {
	ID            uint       `json:"id"`
	ISBN          string     `json:"isbn" validate:"notblank,min=3,max=10"`
	Title         string     `json:"title" validate:"notblank,max=100"`
	DatePublished *time.Time `json:"date_published"`
	AuthorIDs     []uint     `json:"author_ids" validate:"min=1,unique,dive,gt=0"`
	CategoryIDs   []uint     `json:"category_ids" validate:"min=1,unique,dive,gt=0"`
}

// Reviewer 评论者
type Reviewer struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"notblank,max=200"`
}

// FullName 评论者全名
func (r *Reviewer) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Review 书评
type Review struct {
	ID         uint   `json:"id"`
	Headline   string `json:"headline" validate:"notblank,min=10,max=200"`
	ReviewText string `json:"review_text" validate:"notblank,min=50,max=2000"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	BookID     uint   `json:"book_id" validate:"required"`
	ReviewerID uint   `json:"reviewer_id" validate:"required"`
}

// BookAuthor 图书-作者关联行（无独立ID）
type BookAuthor struct {
	BookID   uint
	AuthorID uint
}

// BookCategory 图书-分类关联行（无独立ID）
type BookCategory struct {
	BookID     uint
	CategoryID uint
}
