package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCreate(t *testing.T) {
	tests := []struct {
		name     string
		facts    Facts
		verdicts []Verdict
	}{
		{
			name:     "全部满足",
			facts:    Facts{Parents: []Presence{{Kind: KindCountry, ID: 1, Field: "country_id", Exists: true}}},
			verdicts: nil,
		},
		{
			name:     "父实体不存在",
			facts:    Facts{Parents: []Presence{{Kind: KindCountry, ID: 9, Field: "country_id"}}},
			verdicts: []Verdict{RejectedNotFound},
		},
		{
			name:     "自然键重复",
			facts:    Facts{Duplicates: []Duplicate{{Field: "name", Key: "France", MatchIDs: []uint{3}}}},
			verdicts: []Verdict{RejectedDuplicate},
		},
		{
			name:     "无匹配不算重复",
			facts:    Facts{Duplicates: []Duplicate{{Field: "name", Key: "France"}}},
			verdicts: nil,
		},
		{
			name: "按阶段顺序汇总",
			facts: Facts{
				Duplicates: []Duplicate{{Field: "name", Key: "Hugo", MatchIDs: []uint{2}}},
				Parents:    []Presence{{Kind: KindCountry, ID: 9, Field: "country_id"}},
				Fields:     []Violation{{Field: "first_name", Message: "不能为空"}},
			},
			verdicts: []Verdict{RejectedInvalid, RejectedNotFound, RejectedDuplicate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CheckCreate(KindAuthor, tt.facts)

			var got []Verdict
			for _, r := range d.Reasons {
				got = append(got, r.Verdict)
			}
			assert.Equal(t, tt.verdicts, got)
			assert.Equal(t, len(tt.verdicts) == 0, d.Allowed())
			assert.Empty(t, d.Cascades)
		})
	}
}

func TestCheckUpdate(t *testing.T) {
	t.Run("ID不一致最先报告", func(t *testing.T) {
		d := CheckUpdate(KindCountry, Target{ID: 1, Exists: true}, 2, Facts{
			Fields: []Violation{{Field: "name", Message: "不能为空"}},
		})
		require.Len(t, d.Reasons, 2)
		assert.Equal(t, RejectedInvalid, d.Verdict())
		assert.Equal(t, "id", d.Reasons[0].Field)
	})

	t.Run("ID不一致且目标不存在仍为Invalid", func(t *testing.T) {
		d := CheckUpdate(KindCountry, Target{ID: 1}, 2, Facts{})
		assert.Equal(t, RejectedInvalid, d.Verdict())
		assert.Equal(t, RejectedNotFound, d.Reasons[1].Verdict)
	})

	t.Run("目标不存在", func(t *testing.T) {
		d := CheckUpdate(KindCountry, Target{ID: 1}, 1, Facts{})
		assert.Equal(t, RejectedNotFound, d.Verdict())
		assert.Equal(t, KindCountry, d.Reasons[0].Entity)
	})

	t.Run("自身匹配不算重复", func(t *testing.T) {
		d := CheckUpdate(KindCountry, Target{ID: 1, Exists: true}, 1, Facts{
			Duplicates: []Duplicate{{Field: "name", Key: "France", MatchIDs: []uint{1}}},
		})
		assert.True(t, d.Allowed())
	})

	t.Run("与其他记录重复", func(t *testing.T) {
		d := CheckUpdate(KindCountry, Target{ID: 1, Exists: true}, 1, Facts{
			Duplicates: []Duplicate{{Field: "name", Key: "France", MatchIDs: []uint{1, 4}}},
		})
		require.Equal(t, RejectedDuplicate, d.Verdict())
		assert.Equal(t, uint(4), d.Reasons[0].ID)
	})
}

func TestCheckDelete(t *testing.T) {
	policies := DefaultPolicies()
	bookReview := Relation{Parent: KindBook, Child: KindReview}
	bookAuthor := Relation{Parent: KindBook, Child: KindBookAuthor}

	t.Run("目标不存在", func(t *testing.T) {
		d := CheckDelete(KindBook, Target{ID: 5}, nil, policies)
		assert.Equal(t, RejectedNotFound, d.Verdict())
	})

	t.Run("无子行直接允许", func(t *testing.T) {
		d := CheckDelete(KindCountry, Target{ID: 1, Exists: true}, []Dependents{
			{Relation: Relation{Parent: KindCountry, Child: KindAuthor}},
		}, policies)
		assert.Equal(t, Allowed, d.Verdict())
	})

	t.Run("Protect关系存在子行", func(t *testing.T) {
		d := CheckDelete(KindCountry, Target{ID: 1, Exists: true}, []Dependents{
			{Relation: Relation{Parent: KindCountry, Child: KindAuthor}, ChildIDs: []uint{7, 8}},
		}, policies)
		assert.Equal(t, RejectedConflict, d.Verdict())
		assert.Empty(t, d.Cascades)
	})

	t.Run("Cascade关系记录子行", func(t *testing.T) {
		d := CheckDelete(KindBook, Target{ID: 3, Exists: true}, []Dependents{
			{Relation: bookReview, ChildIDs: []uint{10, 11}},
			{Relation: bookAuthor, ChildIDs: []uint{1}},
		}, policies)
		assert.True(t, d.Allowed())
		assert.Equal(t, CascadeRequired, d.Verdict())
		assert.Equal(t, []CascadeStep{
			{Relation: bookReview, ParentID: 3, ChildIDs: []uint{10, 11}},
			{Relation: bookAuthor, ParentID: 3, ChildIDs: []uint{1}},
		}, d.Cascades)
	})

	t.Run("未声明的关系按Protect处理", func(t *testing.T) {
		d := CheckDelete(KindReviewer, Target{ID: 1, Exists: true}, []Dependents{
			{Relation: Relation{Parent: KindReviewer, Child: KindBook}, ChildIDs: []uint{1}},
		}, policies)
		assert.Equal(t, RejectedConflict, d.Verdict())
	})
}

func TestPolicyTable(t *testing.T) {
	p := DefaultPolicies()
	assert.Equal(t, Protect, p.Lookup(Relation{Parent: KindCountry, Child: KindAuthor}))
	assert.Equal(t, Protect, p.Lookup(Relation{Parent: KindAuthor, Child: KindBook}))
	assert.Equal(t, Protect, p.Lookup(Relation{Parent: KindCategory, Child: KindBook}))
	assert.Equal(t, Cascade, p.Lookup(Relation{Parent: KindBook, Child: KindReview}))
	assert.Equal(t, Cascade, p.Lookup(Relation{Parent: KindReviewer, Child: KindReview}))
	assert.Equal(t, "cascade", Cascade.String())
	assert.Equal(t, "book->review", Relation{Parent: KindBook, Child: KindReview}.String())
	assert.Equal(t, "作者", KindAuthor.Label())
	assert.Equal(t, "unknown", Kind("unknown").Label())
}

func TestValidateFields(t *testing.T) {
	type sample struct {
		Name    string `json:"name" validate:"notblank,max=5"`
		Rating  int    `json:"rating" validate:"min=1,max=5"`
		IDs     []uint `json:"ids" validate:"min=1,unique,dive,gt=0"`
		Country uint   `json:"country_id" validate:"required"`
	}

	assert.Empty(t, ValidateFields(&sample{Name: "ok", Rating: 3, IDs: []uint{1, 2}, Country: 1}))

	violations := ValidateFields(&sample{Name: "   ", Rating: 6, IDs: []uint{}, Country: 0})
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
		assert.NotEmpty(t, v.Message)
	}
	assert.ElementsMatch(t, []string{"name", "rating", "ids", "country_id"}, fields)

	violations = ValidateFields(&sample{Name: "ok", Rating: 1, IDs: []uint{2, 2}, Country: 1})
	require.Len(t, violations, 1)
	assert.Equal(t, "不能包含重复项", violations[0].Message)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "FRANCE", NormalizeKey("  france "))
	assert.Equal(t, NormalizeKey("Victor Hugo"), NormalizeKey("victor HUGO"))
	assert.Equal(t, "", NormalizeKey("   "))
}
