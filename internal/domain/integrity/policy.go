package integrity

// Kind 实体种类
type Kind string

const (
	KindCountry      Kind = "country"
	KindAuthor       Kind = "author"
	KindCategory     Kind = "category"
	KindBook         Kind = "book"
	KindReviewer     Kind = "reviewer"
	KindReview       Kind = "review"
	KindBookAuthor   Kind = "book_author"
	KindBookCategory Kind = "book_category"
)

var kindLabels = map[Kind]string{
	KindCountry:      "国家",
	KindAuthor:       "作者",
	KindCategory:     "分类",
	KindBook:         "图书",
	KindReviewer:     "评论者",
	KindReview:       "书评",
	KindBookAuthor:   "图书作者关联",
	KindBookCategory: "图书分类关联",
}

// Label 用户可读的实体名称
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// Relation 父子关系（Child行引用Parent行）
type Relation struct {
	Parent Kind
	Child  Kind
}

func (r Relation) String() string {
	return string(r.Parent) + "->" + string(r.Child)
}

// Policy 删除父实体时对子行的处理策略
type Policy int

const (
	// Protect 存在子行时拒绝删除
	Protect Policy = iota
	// Cascade 先删除子行，再删除父实体（同一事务）
	Cascade
)

func (p Policy) String() string {
	if p == Cascade {
		return "cascade"
	}
	return "protect"
}

// PolicyTable 关系 → 删除策略
type PolicyTable map[Relation]Policy

// Lookup 查询关系策略，未声明的关系按Protect处理
func (t PolicyTable) Lookup(r Relation) Policy {
	if p, ok := t[r]; ok {
		return p
	}
	return Protect
}

// DefaultPolicies 目录服务的关系策略表
//
//	国家 → 作者          Protect
//	作者 → 图书(经关联表)  Protect
//	分类 → 图书(经关联表)  Protect
//	图书 → 书评/关联行     Cascade
//	评论者 → 书评         Cascade
func DefaultPolicies() PolicyTable {
	return PolicyTable{
		{Parent: KindCountry, Child: KindAuthor}:    Protect,
		{Parent: KindAuthor, Child: KindBook}:       Protect,
		{Parent: KindCategory, Child: KindBook}:     Protect,
		{Parent: KindBook, Child: KindReview}:       Cascade,
		{Parent: KindBook, Child: KindBookAuthor}:   Cascade,
		{Parent: KindBook, Child: KindBookCategory}: Cascade,
		{Parent: KindReviewer, Child: KindReview}:   Cascade,
	}
}
