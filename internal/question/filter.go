package question

import (
	"strings"

	"golang.org/x/text/cases"
)

// Paginate returns the half-open window [(page-1)*size, page*size) of items.
// Pages past the end, and non-positive page or size, yield an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	pages := len(items) / size
	if len(items)%size != 0 {
		pages++
	}
	if page > pages {
		return []T{}
	}
	start := (page - 1) * size
	end := start + min(size, len(items)-start)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Search keeps questions whose prompt contains term, ignoring case.
// An empty term matches everything. Relative order is preserved.
func Search(items []Question, term string) []Question {
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Question, 0, len(items))
	for _, q := range items {
		if strings.Contains(fold.String(q.Prompt), needle) {
			out = append(out, q)
		}
	}
	return out
}

// FilterByCategory keeps questions whose CategoryID equals categoryID.
func FilterByCategory(items []Question, categoryID int64) []Question {
	out := make([]Question, 0, len(items))
	for _, q := range items {
		if q.CategoryID == categoryID {
			out = append(out, q)
		}
	}
	return out
}
