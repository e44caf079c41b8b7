package pagination

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPage = 1
	DefaultSize = 50
	MaxSize     = 100
)

// Params are the page/size query parameters of a list endpoint.
type Params struct {
	Page int `form:"page" json:"page"`
	Size int `form:"size" json:"size"`
}

// SetDefaults fills zero values with DefaultPage and DefaultSize.
func (p *Params) SetDefaults() {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Size == 0 {
		p.Size = DefaultSize
	}
}

func (p Params) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Page, validation.Min(1)),
		validation.Field(&p.Size, validation.Min(1), validation.Max(MaxSize)),
	)
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

func (p Params) Limit() int {
	return p.Size
}

// Page is one page of a list result.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// NewPage builds a Page, computing Pages by ceiling division.
func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}

	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}

	return Page[T]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: pages,
	}
}
