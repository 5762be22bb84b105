// Package authz centralizes ownership and permission decisions. Services call
// these predicates instead of comparing IDs inline so every resource follows
// the same rules.
package authz

import (
	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/errors"
)

// CanEditRecipe reports whether userID may modify the recipe. The owner always
// may; members of a group the recipe is linked into may collaborate on edits.
func CanEditRecipe(userID string, r recipe.Recipe, sharedGroupMember bool) bool {
	if userID == r.OwnerID {
		return true
	}
	return sharedGroupMember
}

// CanDeleteRecipe reports whether userID may delete the recipe. Deletion is
// owner-only; group collaboration never extends to destruction.
func CanDeleteRecipe(userID string, r recipe.Recipe) bool {
	return userID == r.OwnerID
}

// CanModifyComment reports whether userID may edit or delete the comment.
func CanModifyComment(userID string, c social.Comment) bool {
	return userID == c.UserID
}

// CanModifyRating reports whether userID may change or remove the rating.
func CanModifyRating(userID string, r social.Rating) bool {
	return userID == r.UserID
}

// CanManageGroup reports whether userID may update or delete the group, add
// or remove members, and unlink recipes.
func CanManageGroup(userID string, g group.Group) bool {
	return userID == g.OwnerID
}

// CheckRemoveMember validates a member-removal request. The group owner may
// remove anyone but themselves; other members may only remove themselves.
// Authorization is decided before the owner-cannot-leave rule, so an
// unauthorized actor targeting the owner is denied rather than told the
// owner cannot be removed.
func CheckRemoveMember(actorID, targetID string, g group.Group) error {
	if actorID != g.OwnerID && actorID != targetID {
		return errors.PermissionDenied("only the group owner can remove other members")
	}
	if targetID == g.OwnerID {
		return errors.ValidationFailed("group owner cannot be removed; delete the group instead")
	}
	return nil
}

// CheckLinkRecipe validates linking a recipe into a group: the actor must be
// a member of the group. Linking grants the whole group edit rights, so
// unlinking is restricted separately to the group owner or recipe owner.
func CheckLinkRecipe(member bool) error {
	if !member {
		return errors.PermissionDenied("you must be a group member to share recipes")
	}
	return nil
}
