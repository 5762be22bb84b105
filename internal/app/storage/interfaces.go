package storage

import (
	"context"

	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/payment"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/app/domain/user"
)

// RecipeFilter narrows recipe list queries. Zero values mean "no filter".
// MinRating only matches recipes that have at least one rating.
type RecipeFilter struct {
	OwnerID    string
	Country    string
	Search     string
	Ingredient string
	MinRating  float64
	Offset     int
	Limit      int
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUserDependents(ctx context.Context, userID string) (int, error)
}

// RecipeStore persists recipes and their edit history. Deleted recipes stay
// in storage but are excluded from Get and List.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error)
	GetRecipe(ctx context.Context, id string) (recipe.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]recipe.Recipe, int, error)
	DeleteRecipe(ctx context.Context, id string) error

	CreateEditHistory(ctx context.Context, h recipe.EditHistory) (recipe.EditHistory, error)
	ListEditHistory(ctx context.Context, recipeID string) ([]recipe.EditHistory, error)
}

// GroupStore persists groups, memberships, and recipe links. Groups are
// soft-deleted; inactive groups are excluded from Get and List.
type GroupStore interface {
	CreateGroup(ctx context.Context, g group.Group, owner group.Membership) (group.Group, error)
	UpdateGroup(ctx context.Context, g group.Group) (group.Group, error)
	GetGroup(ctx context.Context, id string) (group.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]group.Group, error)
	DeactivateGroup(ctx context.Context, id string) error

	AddMember(ctx context.Context, m group.Membership) (group.Membership, error)
	RemoveMember(ctx context.Context, groupID, userID string) error
	GetMembership(ctx context.Context, groupID, userID string) (group.Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]group.Membership, error)
	CountMembers(ctx context.Context, groupID string) (int, error)

	LinkRecipe(ctx context.Context, l group.RecipeLink) (group.RecipeLink, error)
	UnlinkRecipe(ctx context.Context, groupID, recipeID string) error
	ListRecipeLinks(ctx context.Context, groupID string) ([]group.RecipeLink, error)
	SharesGroupWithRecipe(ctx context.Context, userID, recipeID string) (bool, error)
}

// CommentStore persists recipe comments.
type CommentStore interface {
	CreateComment(ctx context.Context, c social.Comment) (social.Comment, error)
	UpdateComment(ctx context.Context, c social.Comment) (social.Comment, error)
	GetComment(ctx context.Context, id string) (social.Comment, error)
	ListComments(ctx context.Context, recipeID string, offset, limit int) ([]social.Comment, int, error)
	DeleteComment(ctx context.Context, id string) error
}

// RatingStore persists recipe ratings, one per (user, recipe).
type RatingStore interface {
	UpsertRating(ctx context.Context, r social.Rating) (social.Rating, error)
	GetRating(ctx context.Context, userID, recipeID string) (social.Rating, error)
	DeleteRating(ctx context.Context, userID, recipeID string) error
	GetRatingSummary(ctx context.Context, recipeID string) (social.RatingSummary, error)
}

// BookmarkStore persists recipe bookmarks, one per (user, recipe).
type BookmarkStore interface {
	AddBookmark(ctx context.Context, b social.Bookmark) (social.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, recipeID string) error
	ListBookmarks(ctx context.Context, userID string, offset, limit int) ([]social.Bookmark, int, error)
	IsBookmarked(ctx context.Context, userID, recipeID string) (bool, error)
}

// PaymentStore persists payment records.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error)
	UpdatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error)
	GetPayment(ctx context.Context, id string) (payment.Payment, error)
	GetPaymentByGatewayID(ctx context.Context, gatewayID string) (payment.Payment, error)
	ListPayments(ctx context.Context, userID string) ([]payment.Payment, error)
}
