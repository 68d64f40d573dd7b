package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// ReviewerService 评论者
// 删除评论者时其全部书评级联删除
type ReviewerService struct {
	*Facade[Reviewer]
	reviewers ReviewerRepository
	reviews   ReviewRepository
}

// NewReviewerService 创建评论者服务
func NewReviewerService(reviewers ReviewerRepository, reviews ReviewRepository, tx TxManager, logger *slog.Logger) *ReviewerService {
	s := &ReviewerService{reviewers: reviewers, reviews: reviews}
	s.Facade = NewFacade[Reviewer](reviewers, tx, Rules[Reviewer]{
		Kind:       integrity.KindReviewer,
		IDOf:       func(r *Reviewer) uint { return r.ID },
		SetID:      func(r *Reviewer, id uint) { r.ID = id },
		Normalize:  normalizeReviewer,
		Duplicates: s.duplicates,
		Dependents: s.dependents,
		Cascade: func(ctx context.Context, c integrity.CascadeStep) error {
			return reviews.DeleteByIDs(ctx, c.ChildIDs)
		},
	}, logger)
	return s
}

// NameExists (名, 姓)规范化后是否已存在
func (s *ReviewerService) NameExists(ctx context.Context, firstName, lastName string) (bool, error) {
	ids, err := s.reviewers.IDsByName(ctx, firstName, lastName)
	return len(ids) > 0, err
}

// ReviewsOf 评论者写的书评
func (s *ReviewerService) ReviewsOf(ctx context.Context, reviewerID uint) ([]*Review, error) {
	if err := requireExists(ctx, s.reviewers, integrity.KindReviewer, reviewerID); err != nil {
		return nil, err
	}
	return s.reviews.ListByReviewer(ctx, reviewerID)
}

// ReviewerOfReview 书评的评论者
func (s *ReviewerService) ReviewerOfReview(ctx context.Context, reviewID uint) (*Reviewer, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return s.reviewers.FindByID(ctx, review.ReviewerID)
}

func (s *ReviewerService) duplicates(ctx context.Context, r *Reviewer) ([]integrity.Duplicate, error) {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return nil, nil
	}
	ids, err := s.reviewers.IDsByName(ctx, r.FirstName, r.LastName)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)
	return []integrity.Duplicate{{Field: "first_name", Key: key, MatchIDs: ids}}, nil
}

func (s *ReviewerService) dependents(ctx context.Context, id uint) ([]integrity.Dependents, error) {
	ids, err := s.reviews.IDsByReviewer(ctx, id)
	if err != nil {
		return nil, err
	}
	return []integrity.Dependents{{
		Relation: integrity.Relation{Parent: integrity.KindReviewer, Child: integrity.KindReview},
		ChildIDs: ids,
	}}, nil
}
