package dto

import (
	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
)

// 国家、作者、分类、评论者、书评的请求/响应
// 请求体与领域实体字段一一对应，id仅在更新时使用。

// CountryRequest 国家
type CountryRequest struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"France"`
}

func (r *CountryRequest) ToEntity() (*catalog.Country, error) {
	return &catalog.Country{ID: r.ID, Name: r.Name}, nil
}

type CountryResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"France"`
}

func NewCountryResponse(c *catalog.Country) *CountryResponse {
	return &CountryResponse{ID: c.ID, Name: c.Name}
}

// AuthorRequest 作者
type AuthorRequest struct {
	ID        uint   `json:"id" example:"1"`
	FirstName string `json:"first_name" example:"Victor"`
	LastName  string `json:"last_name" example:"Hugo"`
	CountryID uint   `json:"country_id" example:"1"`
}

func (r *AuthorRequest) ToEntity() (*catalog.Author, error) {
	return &catalog.Author{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, CountryID: r.CountryID}, nil
}

type AuthorResponse struct {
	ID        uint   `json:"id" example:"1"`
	FirstName string `json:"first_name" example:"Victor"`
	LastName  string `json:"last_name" example:"Hugo"`
	FullName  string `json:"full_name" example:"Victor Hugo"`
	CountryID uint   `json:"country_id" example:"1"`
}

func NewAuthorResponse(a *catalog.Author) *AuthorResponse {
	return &AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		CountryID: a.CountryID,
	}
}

// CategoryRequest 分类
type CategoryRequest struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Novel"`
}

func (r *CategoryRequest) ToEntity() (*catalog.Category, error) {
	return &catalog.Category{ID: r.ID, Name: r.Name}, nil
}

type CategoryResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Novel"`
}

func NewCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, Name: c.Name}
}

// ReviewerRequest 评论者
type ReviewerRequest struct {
	ID        uint   `json:"id" example:"1"`
	FirstName string `json:"first_name" example:"Jane"`
	LastName  string `json:"last_name" example:"Doe"`
}

func (r *ReviewerRequest) ToEntity() (*catalog.Reviewer, error) {
	return &catalog.Reviewer{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName}, nil
}

type ReviewerResponse struct {
	ID        uint   `json:"id" example:"1"`
	FirstName string `json:"first_name" example:"Jane"`
	LastName  string `json:"last_name" example:"Doe"`
	FullName  string `json:"full_name" example:"Jane Doe"`
}

func NewReviewerResponse(r *catalog.Reviewer) *ReviewerResponse {
	return &ReviewerResponse{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, FullName: r.FullName()}
}

// ReviewRequest 书评
type ReviewRequest struct {
	ID         uint   `json:"id" example:"1"`
	Headline   string `json:"headline" example:"A monumental novel"`
	ReviewText string `json:"review_text" example:"Hugo paints Paris with extraordinary depth and compassion."`
	Rating     int    `json:"rating" example:"5"`
	BookID     uint   `json:"book_id" example:"1"`
	ReviewerID uint   `json:"reviewer_id" example:"1"`
}

func (r *ReviewRequest) ToEntity() (*catalog.Review, error) {
	return &catalog.Review{
		ID:         r.ID,
		Headline:   r.Headline,
		ReviewText: r.ReviewText,
		Rating:     r.Rating,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
	}, nil
}

type ReviewResponse struct {
	ID         uint   `json:"id" example:"1"`
	Headline   string `json:"headline" example:"A monumental novel"`
	ReviewText string `json:"review_text"`
	Rating     int    `json:"rating" example:"5"`
	BookID     uint   `json:"book_id" example:"1"`
	ReviewerID uint   `json:"reviewer_id" example:"1"`
}

func NewReviewResponse(r *catalog.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		Headline:   r.Headline,
		ReviewText: r.ReviewText,
		Rating:     r.Rating,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
	}
}

// Map 批量转换
func Map[E any, R any](items []*E, fn func(*E) *R) []*R {
	out := make([]*R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
