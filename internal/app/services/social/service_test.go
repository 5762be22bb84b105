package social

import (
	"context"
	"strings"
	"testing"

	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/storage/memory"
	apperrors "github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/internal/validation"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, store, store, store, nil), store
}

func seedRecipe(t *testing.T, store *memory.Store) recipe.Recipe {
	t.Helper()
	r, err := store.CreateRecipe(context.Background(), recipe.Recipe{
		OwnerID:      "owner",
		Title:        "Test Dish",
		Ingredients:  []recipe.Ingredient{{Name: "salt", Quantity: "1 tsp"}},
		Procedure:    []recipe.Step{{Number: 1, Instruction: "season and serve"}},
		PeopleServed: 2,
	})
	if err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return r
}

func firstPage() validation.Pagination {
	return validation.Pagination{Page: 1, PerPage: 20}
}

func TestAddCommentSanitizesContent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)

	c, err := svc.AddComment(ctx, "bob", r.ID, `Great <b>recipe</b>!<script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if strings.Contains(c.Content, "script") || strings.Contains(c.Content, "alert") {
		t.Fatalf("script survived sanitization: %q", c.Content)
	}
	if !strings.Contains(c.Content, "<b>recipe</b>") {
		t.Fatalf("allowed formatting stripped: %q", c.Content)
	}
}

func TestAddCommentBounds(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)

	if _, err := svc.AddComment(ctx, "bob", r.ID, "   "); !apperrors.Is(err, apperrors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for blank, got %v", err)
	}
	if _, err := svc.AddComment(ctx, "bob", r.ID, strings.Repeat("x", 1001)); !apperrors.Is(err, apperrors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for oversize, got %v", err)
	}
	// a comment that is only markup sanitizes to empty and is rejected
	if _, err := svc.AddComment(ctx, "bob", r.ID, "<script>alert(1)</script>"); !apperrors.Is(err, apperrors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for markup-only, got %v", err)
	}
}

func TestCommentAuthorOnly(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)

	c, err := svc.AddComment(ctx, "bob", r.ID, "Delicious.")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	if _, err := svc.UpdateComment(ctx, "mallory", c.ID, "Terrible."); !apperrors.Is(err, apperrors.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
	if err := svc.DeleteComment(ctx, "mallory", c.ID); !apperrors.Is(err, apperrors.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}

	updated, err := svc.UpdateComment(ctx, "bob", c.ID, "Even better the next day.")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Content != "Even better the next day." {
		t.Fatalf("content = %q", updated.Content)
	}
	if err := svc.DeleteComment(ctx, "bob", c.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := svc.DeleteComment(ctx, "bob", c.ID); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListCommentsPaginates(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)

	for i := 0; i < 5; i++ {
		if _, err := svc.AddComment(ctx, "bob", r.ID, "Comment body."); err != nil {
			t.Fatalf("add comment %d: %v", i, err)
		}
	}

	page, total, err := svc.ListComments(ctx, r.ID, validation.Pagination{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("total=%d len=%d", total, len(page))
	}
}

func TestCommentRequiresLiveRecipe(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)
	if err := store.DeleteRecipe(ctx, r.ID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}

	if _, err := svc.AddComment(ctx, "bob", r.ID, "Too late."); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRatingUpsert(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)

	if _, err := svc.RateRecipe(ctx, "bob", r.ID, 0); !apperrors.Is(err, apperrors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for 0, got %v", err)
	}
	if _, err := svc.RateRecipe(ctx, "bob", r.ID, 6); !apperrors.Is(err, apperrors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for 6, got %v", err)
	}

	first, err := svc.RateRecipe(ctx, "bob", r.ID, 3)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	second, err := svc.RateRecipe(ctx, "bob", r.ID, 5)
	if err != nil {
		t.Fatalf("re-rate: %v", err)
	}
	if second.ID != first.ID || second.Value != 5 {
		t.Fatalf("re-rating did not overwrite: first=%+v second=%+v", first, second)
	}

	if _, err := svc.RateRecipe(ctx, "carol", r.ID, 4); err != nil {
		t.Fatalf("second rater: %v", err)
	}

	summary, err := svc.RatingSummary(ctx, r.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 2 || summary.Average != 4.5 {
		t.Fatalf("summary = %+v", summary)
	}

	own, err := svc.UserRating(ctx, "carol", r.ID)
	if err != nil {
		t.Fatalf("own rating: %v", err)
	}
	if own.Value != 4 {
		t.Fatalf("own rating = %+v", own)
	}
	if _, err := svc.UserRating(ctx, "dave", r.ID); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for non-rater, got %v", err)
	}

	if err := svc.DeleteRating(ctx, "carol", r.ID); err != nil {
		t.Fatalf("delete rating: %v", err)
	}
	if err := svc.DeleteRating(ctx, "carol", r.ID); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRatingSummaryEmpty(t *testing.T) {
	svc, store := newService(t)
	r := seedRecipe(t, store)

	summary, err := svc.RatingSummary(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 0 || summary.Average != 0 {
		t.Fatalf("empty summary = %+v", summary)
	}
}

func TestBookmarkIdempotent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := seedRecipe(t, store)

	first, err := svc.Bookmark(ctx, "bob", r.ID)
	if err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	second, err := svc.Bookmark(ctx, "bob", r.ID)
	if err != nil {
		t.Fatalf("re-bookmark: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-bookmark created a new row: %s vs %s", first.ID, second.ID)
	}

	list, total, err := svc.ListBookmarks(ctx, "bob", firstPage())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("total=%d len=%d", total, len(list))
	}

	if err := svc.Unbookmark(ctx, "bob", r.ID); err != nil {
		t.Fatalf("unbookmark: %v", err)
	}
	if err := svc.Unbookmark(ctx, "bob", r.ID); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
