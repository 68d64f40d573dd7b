package integrity

// Verdict 规则引擎的判定类型
type Verdict int

const (
	Allowed Verdict = iota
	RejectedInvalid
	RejectedNotFound
	RejectedDuplicate
	RejectedConflict
	CascadeRequired
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case RejectedInvalid:
		return "invalid"
	case RejectedNotFound:
		return "not_found"
	case RejectedDuplicate:
		return "duplicate"
	case RejectedConflict:
		return "conflict"
	case CascadeRequired:
		return "cascade_required"
	default:
		return "unknown"
	}
}

// Reason 一条拒绝原因
type Reason struct {
	Verdict Verdict
	Entity  Kind   // 涉及的实体种类
	ID      uint   // 涉及的实体ID(可能为0)
	Field   string // 涉及的字段(可能为空)
	Key     string // 自然键(重复检测时)
	Message string
}

// CascadeStep 删除前必须先移除的子行
type CascadeStep struct {
	Relation Relation
	ParentID uint
	ChildIDs []uint
}

// Decision 规则引擎的判定结果
// Reasons 按检查阶段顺序排列：字段 → 父实体存在性 → 重复 → 依赖冲突，
// 第一条即最根本的失败原因。
type Decision struct {
	Reasons  []Reason
	Cascades []CascadeStep
}

// Allowed 没有任何拒绝原因
func (d Decision) Allowed() bool {
	return len(d.Reasons) == 0
}

// Verdict 汇总判定
func (d Decision) Verdict() Verdict {
	if len(d.Reasons) > 0 {
		return d.Reasons[0].Verdict
	}
	if len(d.Cascades) > 0 {
		return CascadeRequired
	}
	return Allowed
}

// Primary 最根本的拒绝原因
func (d Decision) Primary() (Reason, bool) {
	if len(d.Reasons) == 0 {
		return Reason{}, false
	}
	return d.Reasons[0], true
}

func (d *Decision) add(r Reason) {
	d.Reasons = append(d.Reasons, r)
}
