package validation

import (
	"net/url"
	"strconv"

	"github.com/recipe-room/recipe-room/internal/errors"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination holds clamped list-query parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePagination reads page and per_page from query values. Missing values
// use the defaults, out-of-range values are clamped, and non-numeric values
// fail validation.
func ParsePagination(q url.Values) (Pagination, error) {
	p := Pagination{Page: DefaultPage, PerPage: DefaultPerPage}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Pagination{}, errors.ValidationFailed("page must be an integer")
		}
		p.Page = n
	}
	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Pagination{}, errors.ValidationFailed("per_page must be an integer")
		}
		p.PerPage = n
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 1
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p, nil
}

// PageInfo describes a page of results in list responses.
type PageInfo struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPageInfo derives page metadata from the pagination parameters and the
// total row count.
func NewPageInfo(p Pagination, total int) PageInfo {
	totalPages := (total + p.PerPage - 1) / p.PerPage
	return PageInfo{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1 && total > 0,
	}
}
