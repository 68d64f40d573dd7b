package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// crudRepository 单表CRUD的通用实现
// E为领域实体，M为GORM模型；各实体仓储嵌入它，再补充自然键查询与关联遍历。
type crudRepository[E any, M any] struct {
	db *gorm.DB

	label     string // 错误提示中的实体名
	toModel   func(*E) *M
	toEntity  func(*M) *E
	backfill  func(e *E, m *M) // 创建后回填ID
	notFound  error
	duplicate error
}

// getDB 参与ctx中的事务
func (r *crudRepository[E, M]) getDB(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db)
}

// List 查询全部（ID升序）
func (r *crudRepository[E, M]) List(ctx context.Context) ([]*E, error) {
	var models []M
	if err := r.getDB(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrapf(err, "查询%s列表失败", r.label)
	}
	return r.entities(models), nil
}

// FindByID 根据ID查找
func (r *crudRepository[E, M]) FindByID(ctx context.Context, id uint) (*E, error) {
	var model M
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound
		}
		return nil, apperrors.Wrapf(err, "查询%s失败", r.label)
	}
	return r.toEntity(&model), nil
}

// Exists 判断ID是否存在
func (r *crudRepository[E, M]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(new(M)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Wrapf(err, "查询%s失败", r.label)
	}
	return count > 0, nil
}

// ExistingIDs 返回ids中实际存在的ID
func (r *crudRepository[E, M]) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.getDB(ctx).Model(new(M)).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, apperrors.Wrapf(err, "查询%s失败", r.label)
	}
	return found, nil
}

// Create 创建并回填ID
func (r *crudRepository[E, M]) Create(ctx context.Context, e *E) error {
	model := r.toModel(e)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return r.writeError(err, "创建")
	}
	r.backfill(e, model)
	return nil
}

// Update 更新全部字段
// 不使用Save：Save在主键不存在时会退化为INSERT
func (r *crudRepository[E, M]) Update(ctx context.Context, e *E) error {
	model := r.toModel(e)
	err := r.getDB(ctx).Model(model).Select("*").Omit("id", "created_at").Updates(model).Error
	if err != nil {
		return r.writeError(err, "更新")
	}
	return nil
}

// Delete 物理删除
func (r *crudRepository[E, M]) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(new(M), id)
	if result.Error != nil {
		return apperrors.Wrapf(result.Error, "删除%s失败", r.label)
	}
	if result.RowsAffected == 0 {
		return r.notFound
	}
	return nil
}

// =========================================
// 辅助函数
// =========================================

// writeError 唯一索引冲突 → Duplicate，其余 → 数据库错误
func (r *crudRepository[E, M]) writeError(err error, action string) error {
	if isDuplicateError(err) {
		return r.duplicate
	}
	return apperrors.Wrapf(err, "%s%s失败", action, r.label)
}

// findWhere 按条件查询实体列表（ID升序）
func (r *crudRepository[E, M]) findWhere(ctx context.Context, query any, args ...any) ([]*E, error) {
	var models []M
	if err := r.getDB(ctx).Where(query, args...).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrapf(err, "查询%s列表失败", r.label)
	}
	return r.entities(models), nil
}

// pluckIDs 按条件查询ID列表（升序）
func (r *crudRepository[E, M]) pluckIDs(ctx context.Context, query any, args ...any) ([]uint, error) {
	var ids []uint
	if err := r.getDB(ctx).Model(new(M)).Where(query, args...).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrapf(err, "查询%s失败", r.label)
	}
	return ids, nil
}

func (r *crudRepository[E, M]) entities(models []M) []*E {
	out := make([]*E, len(models))
	for i := range models {
		out[i] = r.toEntity(&models[i])
	}
	return out
}
