package mysql

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// reviewRepository 书评仓储实现
type reviewRepository struct {
	crudRepository[catalog.Review, ReviewModel]
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) catalog.ReviewRepository {
	return &reviewRepository{crudRepository[catalog.Review, ReviewModel]{
		db:        db,
		label:     "书评",
		toModel:   toReviewModel,
		toEntity:  toReviewEntity,
		backfill:  func(e *catalog.Review, m *ReviewModel) { e.ID = m.ID },
		notFound:  catalog.ErrReviewNotFound,
		duplicate: apperrors.ErrDuplicateEntry,
	}}
}

// IDsByBook 图书的书评ID
func (r *reviewRepository) IDsByBook(ctx context.Context, bookID uint) ([]uint, error) {
	return r.pluckIDs(ctx, "book_id = ?", bookID)
}

// IDsByReviewer 评论者的书评ID
func (r *reviewRepository) IDsByReviewer(ctx context.Context, reviewerID uint) ([]uint, error) {
	return r.pluckIDs(ctx, "reviewer_id = ?", reviewerID)
}

// ListByBook 图书的书评
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*catalog.Review, error) {
	return r.findWhere(ctx, "book_id = ?", bookID)
}

// ListByReviewer 评论者的书评
func (r *reviewRepository) ListByReviewer(ctx context.Context, reviewerID uint) ([]*catalog.Review, error) {
	return r.findWhere(ctx, "reviewer_id = ?", reviewerID)
}

// DeleteByIDs 批量删除
func (r *reviewRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.getDB(ctx).Where("id IN ?", ids).Delete(&ReviewModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除书评失败")
	}
	return nil
}

// AverageRating 平均评分，没有书评时为0
func (r *reviewRepository) AverageRating(ctx context.Context, bookID uint) (float64, error) {
	var avg sql.NullFloat64
	err := r.getDB(ctx).Model(&ReviewModel{}).
		Select("AVG(rating)").
		Where("book_id = ?", bookID).
		Row().Scan(&avg)
	if err != nil {
		return 0, apperrors.Wrap(err, "查询平均评分失败")
	}
	return avg.Float64, nil
}

func toReviewModel(r *catalog.Review) *ReviewModel {
	return &ReviewModel{
		ID:         r.ID,
		Headline:   r.Headline,
		ReviewText: r.ReviewText,
		Rating:     r.Rating,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
	}
}

func toReviewEntity(m *ReviewModel) *catalog.Review {
	return &catalog.Review{
		ID:         m.ID,
		Headline:   m.Headline,
		ReviewText: m.ReviewText,
		Rating:     m.Rating,
		BookID:     m.BookID,
		ReviewerID: m.ReviewerID,
	}
}
