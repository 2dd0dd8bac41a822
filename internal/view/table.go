// Package view provides listing support shared by every collection screen:
// case-insensitive multi-field search and page windowing.
package view

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

const DefaultPageSize = 8

// Filter keeps the items where any of keys, read as a JSON path on the item,
// contains term ignoring case. An empty term keeps everything.
func Filter[T any](items []T, term string, keys []string) []T {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)

	out := make([]T, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		for _, key := range keys {
			if strings.Contains(strings.ToLower(fieldString(raw, key)), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// fieldString stringifies a field; missing and falsy values read as "".
func fieldString(raw []byte, key string) string {
	res := gjson.GetBytes(raw, key)
	switch res.Type {
	case gjson.Null, gjson.False:
		return ""
	case gjson.Number:
		if res.Num == 0 {
			return ""
		}
		return res.Raw
	case gjson.String:
		return res.Str
	case gjson.JSON:
		if res.IsArray() {
			parts := make([]string, 0)
			for _, el := range res.Array() {
				parts = append(parts, el.String())
			}
			return strings.Join(parts, ",")
		}
		return res.Raw
	default:
		return res.String()
	}
}

// Page is one window over a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// TotalPages is ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the window [(page-1)*size, page*size). A page outside
// 1..TotalPages is served as page 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	if page < 1 || page > total {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	window := make([]T, 0, end-start)
	window = append(window, items[start:end]...)

	return Page[T]{
		Items:      window,
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalItems: len(items),
	}
}

// Table keeps the search term, page and page size of one listing screen.
type Table[T any] struct {
	keys     []string
	term     string
	page     int
	pageSize int
}

func NewTable[T any](keys []string, pageSize int) *Table[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Table[T]{keys: keys, page: 1, pageSize: pageSize}
}

func (t *Table[T]) Term() string  { return t.term }
func (t *Table[T]) Page() int     { return t.page }
func (t *Table[T]) PageSize() int { return t.pageSize }

// Search sets the term and returns to page 1.
func (t *Table[T]) Search(term string) {
	t.term = term
	t.page = 1
}

// SetPageSize changes the rows per page and returns to page 1.
func (t *Table[T]) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	t.pageSize = size
	t.page = 1
}

// ChangePage moves by direction when the target page exists for data.
func (t *Table[T]) ChangePage(data []T, direction int) {
	total := TotalPages(len(Filter(data, t.term, t.keys)), t.pageSize)
	next := t.page + direction
	if next >= 1 && next <= total {
		t.page = next
	}
}

// View filters data and returns the current window. When the stored page is
// beyond the filtered page count it is reset to 1.
func (t *Table[T]) View(data []T) Page[T] {
	filtered := Filter(data, t.term, t.keys)
	if t.page > TotalPages(len(filtered), t.pageSize) {
		t.page = 1
	}
	return Paginate(filtered, t.page, t.pageSize)
}
