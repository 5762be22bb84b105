// Package group defines collaboration groups and their join records.
package group

import "time"

// DefaultMaxMembers is the member capacity applied when none is requested.
const DefaultMaxMembers = 10

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Group is a capacity-limited collaboration space. The owner is always a
// member; Active is the soft-delete flag and every "current" query filters
// on it.
type Group struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	MaxMembers  int       `json:"max_members"`
	Active      bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Membership is the first-class join record between a group and a user.
// Modelling the relationship explicitly keeps its metadata (who invited,
// when, role) queryable.
type Membership struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	AddedBy  string    `json:"added_by"`
	JoinedAt time.Time `json:"joined_at"`
}

// RecipeLink is the first-class join record between a group and a recipe.
type RecipeLink struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	RecipeID string    `json:"recipe_id"`
	AddedBy  string    `json:"added_by"`
	LinkedAt time.Time `json:"linked_at"`
}

// Update is the typed patch applied to a group by its owner.
type Update struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxMembers  *int    `json:"max_members"`
	Image       *string `json:"image"`
}
