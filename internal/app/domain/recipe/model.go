// Package recipe defines the recipe aggregate and its edit history.
package recipe

import "time"

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// Step is one ordered instruction in a recipe's procedure.
type Step struct {
	Number      int    `json:"step"`
	Instruction string `json:"instruction"`
	Notes       string `json:"notes,omitempty"`
}

// Recipe is the central aggregate. OwnerID never changes after creation;
// Deleted marks a soft delete and hides the row from every listing.
type Recipe struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"owner_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Country       string       `json:"country,omitempty"`
	Ingredients   []Ingredient `json:"ingredients"`
	Procedure     []Step       `json:"procedure"`
	PeopleServed  int          `json:"people_served"`
	PrepTime      int          `json:"prep_time,omitempty"`
	CookTime      int          `json:"cook_time,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	ImagePublicID string       `json:"-"`
	Deleted       bool         `json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TotalTime returns prep plus cook time in minutes.
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// Update is the typed patch applied to a recipe. Nil fields are untouched;
// unknown fields are rejected at the decoding boundary.
type Update struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Country      *string       `json:"country"`
	Ingredients  *[]Ingredient `json:"ingredients"`
	Procedure    *[]Step       `json:"procedure"`
	PeopleServed *int          `json:"people_served"`
	PrepTime     *int          `json:"prep_time"`
	CookTime     *int          `json:"cook_time"`
	Image        *string       `json:"image"`
}

// History actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// FieldChange records one field transition inside a history entry.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// EditHistory is an append-only log entry for a recipe mutation. Entries are
// never updated or removed.
type EditHistory struct {
	ID        string                 `json:"id"`
	RecipeID  string                 `json:"recipe_id"`
	UserID    string                 `json:"user_id"`
	Action    string                 `json:"action"`
	Changes   map[string]FieldChange `json:"changes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
