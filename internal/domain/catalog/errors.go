package catalog

import (
	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 目录领域错误
var (
	ErrCountryNotFound  = apperrors.New(apperrors.ErrCodeCountryNotFound, "国家不存在")
	ErrAuthorNotFound   = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
	ErrBookNotFound     = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrReviewerNotFound = apperrors.New(apperrors.ErrCodeReviewerNotFound, "评论者不存在")
	ErrReviewNotFound   = apperrors.New(apperrors.ErrCodeReviewNotFound, "书评不存在")

	ErrCountryDuplicate  = apperrors.New(apperrors.ErrCodeDuplicateEntry, "国家名称已存在")
	ErrAuthorDuplicate   = apperrors.New(apperrors.ErrCodeDuplicateEntry, "作者姓名已存在")
	ErrCategoryDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在")
	ErrISBNDuplicate     = apperrors.New(apperrors.ErrCodeDuplicateEntry, "ISBN已存在")
	ErrReviewerDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "评论者姓名已存在")
)

// NotFoundError 实体种类对应的NotFound错误
func NotFoundError(kind integrity.Kind) *apperrors.AppError {
	switch kind {
	case integrity.KindCountry:
		return ErrCountryNotFound
	case integrity.KindAuthor:
		return ErrAuthorNotFound
	case integrity.KindCategory:
		return ErrCategoryNotFound
	case integrity.KindBook:
		return ErrBookNotFound
	case integrity.KindReviewer:
		return ErrReviewerNotFound
	case integrity.KindReview:
		return ErrReviewNotFound
	default:
		return apperrors.ErrNotFound
	}
}

// DuplicateError 实体种类对应的Duplicate错误
func DuplicateError(kind integrity.Kind) *apperrors.AppError {
	switch kind {
	case integrity.KindCountry:
		return ErrCountryDuplicate
	case integrity.KindAuthor:
		return ErrAuthorDuplicate
	case integrity.KindCategory:
		return ErrCategoryDuplicate
	case integrity.KindBook:
		return ErrISBNDuplicate
	case integrity.KindReviewer:
		return ErrReviewerDuplicate
	default:
		return apperrors.ErrDuplicateEntry
	}
}

// rejection 把规则引擎的拒绝判定转换成AppError
// 错误码取自第一条(最根本的)原因，Fields携带全部原因。
func rejection(d integrity.Decision) error {
	primary, ok := d.Primary()
	if !ok {
		return nil
	}

	fields := make([]apperrors.FieldError, 0, len(d.Reasons))
	for _, r := range d.Reasons {
		fields = append(fields, apperrors.FieldError{Field: r.Field, Message: r.Message})
	}

	return errorFor(primary).WithMessage(primary.Message).WithFields(fields...)
}

func errorFor(r integrity.Reason) *apperrors.AppError {
	switch r.Verdict {
	case integrity.RejectedInvalid:
		if r.Field == "id" {
			return apperrors.ErrIDMismatch
		}
		return apperrors.ErrInvalidParams
	case integrity.RejectedNotFound:
		return NotFoundError(r.Entity)
	case integrity.RejectedDuplicate:
		return DuplicateError(r.Entity)
	case integrity.RejectedConflict:
		return apperrors.ErrConflict
	default:
		return apperrors.ErrInternal
	}
}
