package integrity

import (
	"fmt"
)

// Violation 字段约束失败
type Violation struct {
	Field   string
	Message string
}

// Presence 一个被引用实体的存在性事实
type Presence struct {
	Kind   Kind
	ID     uint
	Field  string // 引用它的字段，如 country_id
	Exists bool
}

// Duplicate 自然键查询事实：与候选自然键相同的现有行
type Duplicate struct {
	Field    string
	Key      string // 用于提示的自然键原文
	MatchIDs []uint
}

// Dependents 某一关系下引用目标实体的子行
type Dependents struct {
	Relation Relation
	ChildIDs []uint
}

// Facts 调用方在事务内收集的事实快照
type Facts struct {
	Fields     []Violation
	Parents    []Presence
	Duplicates []Duplicate
}

// Target 被寻址的现有实体
type Target struct {
	ID     uint
	Exists bool
}

// =========================================
// 判定函数（纯函数，不访问存储）
// =========================================

// CheckCreate 创建判定
// 检查顺序：字段约束 → 父实体存在性 → 自然键重复
func CheckCreate(kind Kind, f Facts) Decision {
	var d Decision
	d.checkFields(kind, f.Fields)
	d.checkParents(f.Parents)
	d.checkDuplicates(kind, 0, f.Duplicates)
	return d
}

// CheckUpdate 更新判定
// 在创建判定基础上：
// 1. 请求体ID必须等于被寻址ID（字段阶段，最先报告）
// 2. 被寻址实体必须存在
// 3. 重复检测排除被更新的记录本身
func CheckUpdate(kind Kind, target Target, payloadID uint, f Facts) Decision {
	var d Decision
	if payloadID != target.ID {
		d.add(Reason{
			Verdict: RejectedInvalid,
			Entity:  kind,
			ID:      payloadID,
			Field:   "id",
			Message: fmt.Sprintf("请求体ID(%d)与目标ID(%d)不一致", payloadID, target.ID),
		})
	}
	d.checkFields(kind, f.Fields)
	if !target.Exists {
		d.add(notFound(kind, target.ID, ""))
	}
	d.checkParents(f.Parents)
	d.checkDuplicates(kind, target.ID, f.Duplicates)
	return d
}

// CheckDelete 删除判定
// 目标不存在 → NotFound；
// 子行所在关系为Protect → Conflict；
// 子行所在关系为Cascade → 记录Cascade，由调用方在同一事务内先删除子行。
func CheckDelete(kind Kind, target Target, deps []Dependents, policies PolicyTable) Decision {
	var d Decision
	if !target.Exists {
		d.add(notFound(kind, target.ID, ""))
		return d
	}

	for _, dep := range deps {
		if len(dep.ChildIDs) == 0 {
			continue
		}
		switch policies.Lookup(dep.Relation) {
		case Cascade:
			d.Cascades = append(d.Cascades, CascadeStep{
				Relation: dep.Relation,
				ParentID: target.ID,
				ChildIDs: dep.ChildIDs,
			})
		default:
			d.add(Reason{
				Verdict: RejectedConflict,
				Entity:  kind,
				ID:      target.ID,
				Message: fmt.Sprintf("%s(id=%d)仍被%d个%s引用，无法删除",
					kind.Label(), target.ID, len(dep.ChildIDs), dep.Relation.Child.Label()),
			})
		}
	}
	return d
}

// =========================================
// 阶段检查
// =========================================

func (d *Decision) checkFields(kind Kind, violations []Violation) {
	for _, v := range violations {
		d.add(Reason{
			Verdict: RejectedInvalid,
			Entity:  kind,
			Field:   v.Field,
			Message: v.Message,
		})
	}
}

func (d *Decision) checkParents(parents []Presence) {
	for _, p := range parents {
		if !p.Exists {
			d.add(notFound(p.Kind, p.ID, p.Field))
		}
	}
}

func (d *Decision) checkDuplicates(kind Kind, selfID uint, dups []Duplicate) {
	for _, dup := range dups {
		others := excluding(dup.MatchIDs, selfID)
		if len(others) == 0 {
			continue
		}
		d.add(Reason{
			Verdict: RejectedDuplicate,
			Entity:  kind,
			ID:      others[0],
			Field:   dup.Field,
			Key:     dup.Key,
			Message: fmt.Sprintf("%s %q 已存在", kind.Label(), dup.Key),
		})
	}
}

func notFound(kind Kind, id uint, field string) Reason {
	return Reason{
		Verdict: RejectedNotFound,
		Entity:  kind,
		ID:      id,
		Field:   field,
		Message: fmt.Sprintf("%s不存在: id=%d", kind.Label(), id),
	}
}

// excluding 去掉自身ID（更新时自身匹配不算重复）
func excluding(ids []uint, self uint) []uint {
	if self == 0 {
		return ids
	}
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}
