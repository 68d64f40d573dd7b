package dto

import (
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// DateLayout 出版日期格式
const DateLayout = "2006-01-02"

// BookRequest HTTP图书创建/更新请求
// 字段约束由规则引擎统一校验（一次返回全部失败原因），这里只负责JSON与日期格式。
// 更新时id必须与路径中的id一致。
type BookRequest struct {
	ID            uint    `json:"id" example:"1"`
	ISBN          string  `json:"isbn" example:"ABC123"`
	Title         string  `json:"title" example:"Les Misérables"`
	DatePublished *string `json:"date_published" example:"1862-04-03"`
	AuthorIDs     []uint  `json:"author_ids" example:"1"`
	CategoryIDs   []uint  `json:"category_ids" example:"1"`
}

// ToEntity 转换为领域实体
func (r *BookRequest) ToEntity() (*catalog.Book, error) {
	b := &catalog.Book{
		ID:          r.ID,
		ISBN:        r.ISBN,
		Title:       r.Title,
		AuthorIDs:   r.AuthorIDs,
		CategoryIDs: r.CategoryIDs,
	}

	if r.DatePublished != nil && *r.DatePublished != "" {
		t, err := time.Parse(DateLayout, *r.DatePublished)
		if err != nil {
			return nil, apperrors.ErrBindError.WithFields(apperrors.FieldError{
				Field:   "date_published",
				Message: "日期格式应为YYYY-MM-DD",
			})
		}
		b.DatePublished = &t
	}
	return b, nil
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID            uint    `json:"id" example:"1"`
	ISBN          string  `json:"isbn" example:"ABC123"`
	Title         string  `json:"title" example:"Les Misérables"`
	DatePublished *string `json:"date_published" example:"1862-04-03"`
	AuthorIDs     []uint  `json:"author_ids"`
	CategoryIDs   []uint  `json:"category_ids"`
}

// NewBookResponse 领域实体 → 响应
func NewBookResponse(b *catalog.Book) *BookResponse {
	resp := &BookResponse{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		AuthorIDs:   b.AuthorIDs,
		CategoryIDs: b.CategoryIDs,
	}
	if resp.AuthorIDs == nil {
		resp.AuthorIDs = []uint{}
	}
	if resp.CategoryIDs == nil {
		resp.CategoryIDs = []uint{}
	}
	if b.DatePublished != nil {
		s := b.DatePublished.Format(DateLayout)
		resp.DatePublished = &s
	}
	return resp
}

// RatingResponse 图书平均评分
type RatingResponse struct {
	BookID uint    `json:"book_id" example:"1"`
	Rating float64 `json:"rating" example:"4.5"` // 没有书评时为0
}

// CreatedResponse 创建成功返回的ID
type CreatedResponse struct {
	ID uint `json:"id" example:"1"`
}
