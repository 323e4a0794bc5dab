// Package pagination 实现 1 起始的页码分页计算。
package pagination

import (
	"errors"
	"math"
	"strconv"
)

// Params 一次分页查询的参数
type Params struct {
	Page    int
	PerPage int
}

// Parse 解析查询参数中的页码与每页数量，非法值回退到默认值。
// 超出 int 范围的正数按最大值处理，页码会被限制在偏移量不溢出的范围内
func Parse(page, perPage string, defaultPerPage, maxPerPage int) Params {
	p := Params{Page: 1, PerPage: defaultPerPage}
	if n, ok := positiveInt(page); ok {
		p.Page = n
	}
	if n, ok := positiveInt(perPage); ok {
		p.PerPage = n
	}
	if p.PerPage <= 0 {
		p.PerPage = 1
	}
	if maxPerPage > 0 && p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if limit := math.MaxInt / p.PerPage; p.Page > limit {
		p.Page = limit
	}
	return p
}

// positiveInt 溢出时 Atoi 返回对应符号的极值
func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, n > 0
}

// New 直接构造参数，规则与 Parse 一致
func New(page, perPage, defaultPerPage, maxPerPage int) Params {
	return Parse(strconv.Itoa(page), strconv.Itoa(perPage), defaultPerPage, maxPerPage)
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

// Result 分页元数据
type Result struct {
	Page    int
	PerPage int
	Total   int64
}

func (p Params) Result(total int64) Result {
	return Result{Page: p.Page, PerPage: p.PerPage, Total: total}
}

// Pages 总页数，无数据时为 0
func (r Result) Pages() int {
	if r.PerPage <= 0 || r.Total <= 0 {
		return 0
	}
	return int((r.Total + int64(r.PerPage) - 1) / int64(r.PerPage))
}

func (r Result) HasNext() bool {
	return r.Page < r.Pages()
}

func (r Result) HasPrev() bool {
	return r.Page > 1
}

func (r Result) NextPage() int {
	return r.Page + 1
}

func (r Result) PrevPage() int {
	return r.Page - 1
}
