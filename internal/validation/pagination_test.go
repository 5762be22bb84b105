package validation

import (
	"net/url"
	"testing"

	"github.com/recipe-room/recipe-room/internal/errors"
)

func TestParsePaginationDefaults(t *testing.T) {
	p, err := ParsePagination(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Page != DefaultPage || p.PerPage != DefaultPerPage {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestParsePaginationClampsRanges(t *testing.T) {
	p, err := ParsePagination(url.Values{"page": {"-3"}, "per_page": {"500"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Page != 1 {
		t.Fatalf("page not clamped: %d", p.Page)
	}
	if p.PerPage != MaxPerPage {
		t.Fatalf("per_page not clamped: %d", p.PerPage)
	}

	p, err = ParsePagination(url.Values{"per_page": {"0"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PerPage != 1 {
		t.Fatalf("per_page floor not applied: %d", p.PerPage)
	}
}

func TestParsePaginationRejectsNonNumeric(t *testing.T) {
	_, err := ParsePagination(url.Values{"page": {"abc"}})
	if !errors.Is(err, errors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}

	_, err = ParsePagination(url.Values{"per_page": {"1.5"}})
	if !errors.Is(err, errors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestParsePaginationOffset(t *testing.T) {
	p, err := ParsePagination(url.Values{"page": {"3"}, "per_page": {"10"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Offset() != 20 {
		t.Fatalf("unexpected offset: %d", p.Offset())
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(Pagination{Page: 2, PerPage: 10}, 25)
	if info.TotalPages != 3 {
		t.Fatalf("unexpected total pages: %d", info.TotalPages)
	}
	if !info.HasNext || !info.HasPrev {
		t.Fatalf("unexpected nav flags: %+v", info)
	}

	info = NewPageInfo(Pagination{Page: 1, PerPage: 10}, 0)
	if info.TotalPages != 0 || info.HasNext || info.HasPrev {
		t.Fatalf("empty result set should have no pages: %+v", info)
	}

	info = NewPageInfo(Pagination{Page: 3, PerPage: 10}, 30)
	if info.HasNext {
		t.Fatalf("last page should not have next: %+v", info)
	}
	if !info.HasPrev {
		t.Fatalf("last page should have prev: %+v", info)
	}
}

func TestValidateCommentBounds(t *testing.T) {
	if err := ValidateComment("Looks delicious!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateComment("   "); !errors.Is(err, errors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	long := make([]byte, CommentMaxLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateComment(string(long)); !errors.Is(err, errors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestValidateRatingRange(t *testing.T) {
	for _, v := range []int{1, 3, 5} {
		if err := ValidateRating(v); err != nil {
			t.Fatalf("rating %d should be valid: %v", v, err)
		}
	}
	for _, v := range []int{0, 6, -1} {
		if err := ValidateRating(v); !errors.Is(err, errors.CodeValidationFailed) {
			t.Fatalf("rating %d should fail validation, got %v", v, err)
		}
	}
}
