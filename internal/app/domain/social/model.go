// Package social defines the per-recipe engagement records: comments,
// ratings and bookmarks.
package social

import "time"

// Comment is a user's remark on a recipe. Content is sanitized before
// storage and only the author may change or remove it.
type Comment struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is a 1..5 score. At most one row exists per (user, recipe) pair;
// a second submission overwrites the stored value.
type Rating struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary aggregates a recipe's ratings.
type RatingSummary struct {
	Average float64 `json:"avg_rating"`
	Count   int     `json:"rating_count"`
}

// Bookmark marks a recipe as saved by a user. At most one row exists per
// (user, recipe) pair; re-bookmarking returns the existing row.
type Bookmark struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
