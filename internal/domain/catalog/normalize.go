package catalog

import (
	"slices"
	"strings"
)

// 写入前整理候选值
// 文本字段去除首尾空白后再做字段约束校验，
// 这样长度约束、存储的值与自然键使用同一份文本。

func normalizeCountry(c *Country) {
	c.Name = strings.TrimSpace(c.Name)
}

func normalizeAuthor(a *Author) {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
}

func normalizeCategory(c *Category) {
	c.Name = strings.TrimSpace(c.Name)
}

// normalizeBook 另外把关联ID按升序排列（与读取顺序一致）
func normalizeBook(b *Book) {
	b.ISBN = strings.TrimSpace(b.ISBN)
	b.Title = strings.TrimSpace(b.Title)
	b.AuthorIDs = slices.Clone(b.AuthorIDs)
	slices.Sort(b.AuthorIDs)
	b.CategoryIDs = slices.Clone(b.CategoryIDs)
	slices.Sort(b.CategoryIDs)
}

func normalizeReviewer(r *Reviewer) {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func normalizeReview(r *Review) {
	r.Headline = strings.TrimSpace(r.Headline)
	r.ReviewText = strings.TrimSpace(r.ReviewText)
}
