package authz

import (
	"testing"

	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/errors"
)

func TestCanEditRecipe(t *testing.T) {
	r := recipe.Recipe{ID: "r1", OwnerID: "owner"}

	if !CanEditRecipe("owner", r, false) {
		t.Fatal("owner should be able to edit")
	}
	if !CanEditRecipe("member", r, true) {
		t.Fatal("shared-group member should be able to edit")
	}
	if CanEditRecipe("stranger", r, false) {
		t.Fatal("stranger should not be able to edit")
	}
}

func TestCanDeleteRecipeIsOwnerOnly(t *testing.T) {
	r := recipe.Recipe{ID: "r1", OwnerID: "owner"}

	if !CanDeleteRecipe("owner", r) {
		t.Fatal("owner should be able to delete")
	}
	if CanDeleteRecipe("member", r) {
		t.Fatal("group membership must not grant delete")
	}
}

func TestCommentAndRatingAuthorOnly(t *testing.T) {
	c := social.Comment{ID: "c1", UserID: "author"}
	if !CanModifyComment("author", c) || CanModifyComment("other", c) {
		t.Fatal("comment modification must be author-only")
	}

	rt := social.Rating{ID: "rt1", UserID: "author"}
	if !CanModifyRating("author", rt) || CanModifyRating("other", rt) {
		t.Fatal("rating modification must be author-only")
	}
}

func TestCheckRemoveMember(t *testing.T) {
	g := group.Group{ID: "g1", OwnerID: "owner"}

	if err := CheckRemoveMember("owner", "member", g); err != nil {
		t.Fatalf("owner removing member should pass: %v", err)
	}
	if err := CheckRemoveMember("member", "member", g); err != nil {
		t.Fatalf("self-removal should pass: %v", err)
	}
	if err := CheckRemoveMember("member", "other", g); !errors.Is(err, errors.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
	if err := CheckRemoveMember("owner", "owner", g); !errors.Is(err, errors.CodeValidationFailed) {
		t.Fatalf("owner self-removal must be rejected, got %v", err)
	}
	// a plain member targeting the owner fails authorization, not the
	// owner-cannot-leave rule
	if err := CheckRemoveMember("member", "owner", g); !errors.Is(err, errors.CodePermissionDenied) {
		t.Fatalf("member removing owner: expected PERMISSION_DENIED, got %v", err)
	}
}

func TestCheckLinkRecipe(t *testing.T) {
	if err := CheckLinkRecipe(true); err != nil {
		t.Fatalf("member should be able to link: %v", err)
	}
	if err := CheckLinkRecipe(false); !errors.Is(err, errors.CodePermissionDenied) {
		t.Fatalf("non-member must be denied, got %v", err)
	}
}
