package catalog

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/bookcatalog/internal/domain/integrity"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "bookcatalog/catalog"

// Rules 某一实体族的规则集
// Facade负责事务与流程，Rules负责"收集哪些事实"和"级联时删什么"。
type Rules[T any] struct {
	Kind  integrity.Kind
	IDOf  func(*T) uint
	SetID func(*T, uint)

	// Normalize 写入前整理候选值（可选）
	Normalize func(*T)

	// Parents 候选值引用的父实体存在性（可选）
	Parents func(ctx context.Context, candidate *T) ([]integrity.Presence, error)

	// Duplicates 候选值自然键的匹配行（可选）
	Duplicates func(ctx context.Context, candidate *T) ([]integrity.Duplicate, error)

	// Dependents 引用目标的子行（可选）
	Dependents func(ctx context.Context, id uint) ([]integrity.Dependents, error)

	// Cascade 删除一组级联子行（Dependents返回Cascade关系时必填）
	Cascade func(ctx context.Context, c integrity.CascadeStep) error
}

// Facade 单实体族的读写入口
// 所有变更都在一个事务内完成"收集事实 → 规则判定 → 写入"，
// 规则拒绝同样返回error，从而触发回滚。
type Facade[T any] struct {
	store    Store[T]
	tx       TxManager
	rules    Rules[T]
	policies integrity.PolicyTable
	logger   *slog.Logger
}

// NewFacade 创建Facade
func NewFacade[T any](store Store[T], tx TxManager, rules Rules[T], logger *slog.Logger) *Facade[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade[T]{
		store:    store,
		tx:       tx,
		rules:    rules,
		policies: integrity.DefaultPolicies(),
		logger:   logger.With("entity", string(rules.Kind)),
	}
}

// List 查询全部
func (f *Facade[T]) List(ctx context.Context) ([]*T, error) {
	return f.store.List(ctx)
}

// Get 根据ID查询
func (f *Facade[T]) Get(ctx context.Context, id uint) (*T, error) {
	return f.store.FindByID(ctx, id)
}

// Exists 判断ID是否存在
func (f *Facade[T]) Exists(ctx context.Context, id uint) (bool, error) {
	return f.store.Exists(ctx, id)
}

// Create 创建
// 流程：
// 1. 整理候选值，清空ID（ID由存储分配）
// 2. 事务内收集字段/父实体/重复事实
// 3. 规则判定，拒绝则回滚
// 4. 写入并返回新ID
func (f *Facade[T]) Create(ctx context.Context, candidate *T) (id uint, err error) {
	ctx, finish := f.begin(ctx, "create")
	defer func() { finish(err) }()

	f.rules.SetID(candidate, 0)
	if f.rules.Normalize != nil {
		f.rules.Normalize(candidate)
	}

	err = f.tx.Transaction(ctx, func(ctx context.Context) error {
		facts, err := f.collect(ctx, candidate)
		if err != nil {
			return err
		}

		if d := integrity.CheckCreate(f.rules.Kind, facts); !d.Allowed() {
			return rejection(d)
		}

		return f.store.Create(ctx, candidate)
	})
	if err != nil {
		return 0, f.storageFailure(err)
	}

	return f.rules.IDOf(candidate), nil
}

// Update 更新
// 候选值的ID必须等于被寻址的id，重复检测排除记录自身。
func (f *Facade[T]) Update(ctx context.Context, id uint, candidate *T) (err error) {
	ctx, finish := f.begin(ctx, "update")
	defer func() { finish(err) }()

	if f.rules.Normalize != nil {
		f.rules.Normalize(candidate)
	}

	err = f.tx.Transaction(ctx, func(ctx context.Context) error {
		exists, err := f.store.Exists(ctx, id)
		if err != nil {
			return err
		}

		facts, err := f.collect(ctx, candidate)
		if err != nil {
			return err
		}

		target := integrity.Target{ID: id, Exists: exists}
		if d := integrity.CheckUpdate(f.rules.Kind, target, f.rules.IDOf(candidate), facts); !d.Allowed() {
			return rejection(d)
		}

		return f.store.Update(ctx, candidate)
	})
	return f.storageFailure(err)
}

// Delete 删除
// Protect关系存在子行时拒绝；Cascade关系的子行在同一事务内先于目标删除。
func (f *Facade[T]) Delete(ctx context.Context, id uint) (err error) {
	ctx, finish := f.begin(ctx, "delete")
	defer func() { finish(err) }()

	var cascades []integrity.CascadeStep
	err = f.tx.Transaction(ctx, func(ctx context.Context) error {
		exists, err := f.store.Exists(ctx, id)
		if err != nil {
			return err
		}

		var deps []integrity.Dependents
		if exists && f.rules.Dependents != nil {
			if deps, err = f.rules.Dependents(ctx, id); err != nil {
				return err
			}
		}

		d := integrity.CheckDelete(f.rules.Kind, integrity.Target{ID: id, Exists: exists}, deps, f.policies)
		if !d.Allowed() {
			return rejection(d)
		}

		for _, c := range d.Cascades {
			if err := f.cascade(ctx, c); err != nil {
				return err
			}
		}
		cascades = d.Cascades

		return f.store.Delete(ctx, id)
	})
	if err != nil {
		return f.storageFailure(err)
	}

	// 提交成功后才计入级联行数
	for _, c := range cascades {
		metrics.ObserveCascade(c.Relation.String(), len(c.ChildIDs))
	}
	return nil
}

// =========================================
// 内部流程
// =========================================

// collect 在事务内收集候选值的事实快照
func (f *Facade[T]) collect(ctx context.Context, candidate *T) (integrity.Facts, error) {
	facts := integrity.Facts{Fields: integrity.ValidateFields(candidate)}

	if f.rules.Parents != nil {
		parents, err := f.rules.Parents(ctx, candidate)
		if err != nil {
			return facts, err
		}
		facts.Parents = parents
	}

	if f.rules.Duplicates != nil {
		dups, err := f.rules.Duplicates(ctx, candidate)
		if err != nil {
			return facts, err
		}
		facts.Duplicates = dups
	}

	return facts, nil
}

func (f *Facade[T]) cascade(ctx context.Context, c integrity.CascadeStep) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "cascade "+c.Relation.String())
	defer span.End()
	span.SetAttributes(
		attribute.Int64("parent_id", int64(c.ParentID)),
		attribute.Int("child_count", len(c.ChildIDs)),
	)

	if f.rules.Cascade == nil {
		return apperrors.New(apperrors.ErrCodeInternal, "未声明级联删除: "+c.Relation.String())
	}
	if err := f.rules.Cascade(ctx, c); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// begin 开始一次变更：Span + 耗时 + 结果指标 + 日志
func (f *Facade[T]) begin(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "catalog."+string(f.rules.Kind)+"."+operation)
	span.SetAttributes(
		attribute.String("entity", string(f.rules.Kind)),
		attribute.String("operation", operation),
	)
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()

		outcome := apperrors.OutcomeOf(err)
		metrics.ObserveMutation(string(f.rules.Kind), operation, outcome.String(), time.Since(start))
		span.SetAttributes(attribute.String("outcome", outcome.String()))

		switch outcome {
		case apperrors.OutcomeOK:
			span.SetStatus(codes.Ok, "")
		case apperrors.OutcomeStorageFailure:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			f.logger.ErrorContext(ctx, "目录变更失败",
				"operation", operation,
				"trace_id", tracing.ExtractTraceID(ctx),
				"error", err,
			)
		default:
			f.logger.DebugContext(ctx, "目录变更被拒绝",
				"operation", operation,
				"outcome", outcome.String(),
				"error", err,
			)
		}
	}
}

// storageFailure 非AppError一律包装为存储失败，对外隐藏底层细节
func (f *Facade[T]) storageFailure(err error) error {
	if err == nil || apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Wrap(err, "存储操作失败")
}

// =========================================
// 辅助函数
// =========================================

type existence interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// requireExists 遍历读取的锚点必须存在
func requireExists(ctx context.Context, s existence, kind integrity.Kind, id uint) error {
	ok, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFoundError(kind)
	}
	return nil
}

// presences 把一组引用ID与实际存在的ID对照成存在性事实（0值跳过，由字段约束报告）
func presences(kind integrity.Kind, field string, refs, existing []uint) []integrity.Presence {
	found := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}

	out := make([]integrity.Presence, 0, len(refs))
	for _, id := range refs {
		if id == 0 {
			continue
		}
		_, ok := found[id]
		out = append(out, integrity.Presence{Kind: kind, ID: id, Field: field, Exists: ok})
	}
	return out
}
