package domain

import "strings"

const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"

	DefaultPageSize = 12
	DefaultOrderBy  = "name"
)

// SortableFields maps the API field names accepted in PageRequest.OrderBy to
// their column names.
var SortableFields = map[string]string{
	"id":        "id",
	"name":      "name",
	"cpf":       "cpf",
	"income":    "income",
	"birthDate": "birth_date",
	"children":  "children",
}

// PageRequest selects a zero-based page of a result set.
type PageRequest struct {
	Page      int
	Size      int
	OrderBy   string
	Direction string
}

// NewPageRequest builds a request sorted by the default field, ascending.
func NewPageRequest(page, size int) PageRequest {
	return PageRequest{
		Page:      page,
		Size:      size,
		OrderBy:   DefaultOrderBy,
		Direction: DirectionAsc,
	}
}

func (p PageRequest) Validate() error {
	if p.Page < 0 || p.Size <= 0 {
		return ErrInvalidPageRequest
	}
	if p.OrderBy != "" {
		if _, ok := SortableFields[p.OrderBy]; !ok {
			return ErrInvalidPageRequest
		}
	}
	switch strings.ToUpper(p.Direction) {
	case "", DirectionAsc, DirectionDesc:
	default:
		return ErrInvalidPageRequest
	}
	return nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// SortColumn returns the column to order by, falling back to the default field.
func (p PageRequest) SortColumn() string {
	if col, ok := SortableFields[p.OrderBy]; ok {
		return col
	}
	return SortableFields[DefaultOrderBy]
}

func (p PageRequest) Descending() bool {
	return strings.ToUpper(p.Direction) == DirectionDesc
}

// Page is a bounded slice of a result set plus the totals of the whole set.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	TotalPages    int
	Number        int
	Size          int
}

func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        req.Page,
		Size:          req.Size,
	}
}

// MapPage converts the items of a page and keeps its metadata unchanged.
func MapPage[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	out := make([]R, len(p.Content))
	for i, item := range p.Content {
		out[i] = fn(item)
	}
	return &Page[R]{
		Content:       out,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Number:        p.Number,
		Size:          p.Size,
	}
}

func (p *Page[T]) IsEmpty() bool {
	return len(p.Content) == 0
}
