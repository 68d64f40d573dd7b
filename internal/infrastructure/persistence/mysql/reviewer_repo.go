package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
)

// reviewerRepository 评论者仓储实现
type reviewerRepository struct {
	crudRepository[catalog.Reviewer, ReviewerModel]
}

// NewReviewerRepository 创建评论者仓储
func NewReviewerRepository(db *gorm.DB) catalog.ReviewerRepository {
	return &reviewerRepository{crudRepository[catalog.Reviewer, ReviewerModel]{
		db:        db,
		label:     "评论者",
		toModel:   toReviewerModel,
		toEntity:  toReviewerEntity,
		backfill:  func(e *catalog.Reviewer, m *ReviewerModel) { e.ID = m.ID },
		notFound:  catalog.ErrReviewerNotFound,
		duplicate: catalog.ErrReviewerDuplicate,
	}}
}

// IDsByName 按规范化(名, 姓)查询
func (r *reviewerRepository) IDsByName(ctx context.Context, firstName, lastName string) ([]uint, error) {
	return r.pluckIDs(ctx, "first_name_key = ? AND last_name_key = ?",
		integrity.NormalizeKey(firstName), integrity.NormalizeKey(lastName))
}

func toReviewerModel(r *catalog.Reviewer) *ReviewerModel {
	return &ReviewerModel{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		FirstNameKey: integrity.NormalizeKey(r.FirstName),
		LastNameKey:  integrity.NormalizeKey(r.LastName),
	}
}

func toReviewerEntity(m *ReviewerModel) *catalog.Reviewer {
	return &catalog.Reviewer{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
	}
}
