package catalog

import (
	"context"
	"log/slog"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// ReviewService 书评
// 无自然键、无子行；父实体：图书、评论者
type ReviewService struct {
	*Facade[Review]
	reviews   ReviewRepository
	books     BookRepository
	reviewers ReviewerRepository
}

// NewReviewService 创建书评服务
func NewReviewService(reviews ReviewRepository, books BookRepository, reviewers ReviewerRepository, tx TxManager, logger *slog.Logger) *ReviewService {
	s := &ReviewService{reviews: reviews, books: books, reviewers: reviewers}
	s.Facade = NewFacade[Review](reviews, tx, Rules[Review]{
		Kind:      integrity.KindReview,
		IDOf:      func(r *Review) uint { return r.ID },
		SetID:     func(r *Review, id uint) { r.ID = id },
		Normalize: normalizeReview,
		Parents:   s.parents,
	}, logger)
	return s
}

// ReviewsOfBook 图书的书评
func (s *ReviewService) ReviewsOfBook(ctx context.Context, bookID uint) ([]*Review, error) {
	if err := requireExists(ctx, s.books, integrity.KindBook, bookID); err != nil {
		return nil, err
	}
	return s.reviews.ListByBook(ctx, bookID)
}

// BookOfReview 书评所属图书
func (s *ReviewService) BookOfReview(ctx context.Context, reviewID uint) (*Book, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return s.books.FindByID(ctx, review.BookID)
}

// parents 图书与评论者的存在性（评论者通过评论者仓储校验）
func (s *ReviewService) parents(ctx context.Context, r *Review) ([]integrity.Presence, error) {
	var out []integrity.Presence

	if r.BookID != 0 {
		ok, err := s.books.Exists(ctx, r.BookID)
		if err != nil {
			return nil, err
		}
		out = append(out, integrity.Presence{Kind: integrity.KindBook, ID: r.BookID, Field: "book_id", Exists: ok})
	}

	if r.ReviewerID != 0 {
		ok, err := s.reviewers.Exists(ctx, r.ReviewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, integrity.Presence{Kind: integrity.KindReviewer, ID: r.ReviewerID, Field: "reviewer_id", Exists: ok})
	}

	return out, nil
}
