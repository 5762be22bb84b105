package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/payment"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/app/domain/user"
	"github.com/recipe-room/recipe-room/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.RecipeStore = (*Store)(nil)
var _ storage.GroupStore = (*Store)(nil)
var _ storage.CommentStore = (*Store)(nil)
var _ storage.RatingStore = (*Store)(nil)
var _ storage.BookmarkStore = (*Store)(nil)
var _ storage.PaymentStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

// mapErr translates driver errors into the storage sentinels. Callers keep
// the entity context via the surrounding fmt.Errorf wrap.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return storage.ErrDuplicate
	}
	return err
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, profile_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.ProfileImageURL, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", mapErr(err))
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return user.User{}, err
	}

	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, profile_image_url = $5, updated_at = $6
		WHERE id = $1
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.ProfileImageURL, u.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, profile_image_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, profile_image_url, created_at, updated_at
		FROM users
		WHERE lower(username) = lower($1)
	`, username))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, profile_image_url, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email))
}

func (s *Store) scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return user.User{}, fmt.Errorf("get user: %w", mapErr(err))
	}
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM users WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CountUserDependents(ctx context.Context, userID string) (int, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM recipes WHERE owner_id = $1 AND NOT deleted) +
			(SELECT COUNT(*) FROM comments WHERE user_id = $1) +
			(SELECT COUNT(*) FROM groups WHERE owner_id = $1 AND active)
	`, userID)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count user dependents: %w", mapErr(err))
	}
	return count, nil
}

// --- RecipeStore ------------------------------------------------------------

func (s *Store) CreateRecipe(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return recipe.Recipe{}, err
	}
	procedureJSON, err := json.Marshal(r.Procedure)
	if err != nil {
		return recipe.Recipe{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, owner_id, title, description, country, ingredients, procedure, people_served, prep_time, cook_time, image_url, image_public_id, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, $13, $14)
	`, r.ID, r.OwnerID, r.Title, r.Description, r.Country, ingredientsJSON, procedureJSON, r.PeopleServed, r.PrepTime, r.CookTime, r.ImageURL, r.ImagePublicID, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("create recipe: %w", mapErr(err))
	}
	return r, nil
}

func (s *Store) UpdateRecipe(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	existing, err := s.GetRecipe(ctx, r.ID)
	if err != nil {
		return recipe.Recipe{}, err
	}

	r.OwnerID = existing.OwnerID
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()

	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return recipe.Recipe{}, err
	}
	procedureJSON, err := json.Marshal(r.Procedure)
	if err != nil {
		return recipe.Recipe{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes
		SET title = $2, description = $3, country = $4, ingredients = $5, procedure = $6, people_served = $7, prep_time = $8, cook_time = $9, image_url = $10, image_public_id = $11, updated_at = $12
		WHERE id = $1 AND NOT deleted
	`, r.ID, r.Title, r.Description, r.Country, ingredientsJSON, procedureJSON, r.PeopleServed, r.PrepTime, r.CookTime, r.ImageURL, r.ImagePublicID, r.UpdatedAt)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("update recipe: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", r.ID, storage.ErrNotFound)
	}
	return r, nil
}

func (s *Store) GetRecipe(ctx context.Context, id string) (recipe.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, country, ingredients, procedure, people_served, prep_time, cook_time, image_url, image_public_id, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND NOT deleted
	`, id)

	r, err := scanRecipe(row.Scan)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("get recipe: %w", mapErr(err))
	}
	return r, nil
}

func scanRecipe(scan func(dest ...interface{}) error) (recipe.Recipe, error) {
	var (
		r              recipe.Recipe
		ingredientsRaw []byte
		procedureRaw   []byte
	)
	if err := scan(&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.Country, &ingredientsRaw, &procedureRaw, &r.PeopleServed, &r.PrepTime, &r.CookTime, &r.ImageURL, &r.ImagePublicID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return recipe.Recipe{}, err
	}
	if len(ingredientsRaw) > 0 {
		_ = json.Unmarshal(ingredientsRaw, &r.Ingredients)
	}
	if len(procedureRaw) > 0 {
		_ = json.Unmarshal(procedureRaw, &r.Procedure)
	}
	return r, nil
}

func (s *Store) ListRecipes(ctx context.Context, filter storage.RecipeFilter) ([]recipe.Recipe, int, error) {
	const match = `NOT deleted
		  AND ($1 = '' OR owner_id = $1)
		  AND ($2 = '' OR lower(country) = lower($2))
		  AND ($3 = '' OR title ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
		  AND ($4 = '' OR EXISTS (
			SELECT 1 FROM jsonb_array_elements(ingredients) AS ing
			WHERE ing->>'name' ILIKE '%' || $4 || '%'))
		  AND ($5 = 0 OR id IN (
			SELECT recipe_id FROM ratings GROUP BY recipe_id HAVING AVG(value) >= $5))`

	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM recipes
		WHERE `+match,
		filter.OwnerID, filter.Country, filter.Search, filter.Ingredient, filter.MinRating).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", mapErr(err))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, country, ingredients, procedure, people_served, prep_time, cook_time, image_url, image_public_id, created_at, updated_at
		FROM recipes
		WHERE `+match+`
		ORDER BY created_at DESC, id
		OFFSET $6 LIMIT $7
	`, filter.OwnerID, filter.Country, filter.Search, filter.Ingredient, filter.MinRating, filter.Offset, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", mapErr(err))
	}
	defer rows.Close()

	result := make([]recipe.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, r)
	}
	return result, total, rows.Err()
}

func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET deleted = TRUE, updated_at = $2 WHERE id = $1 AND NOT deleted
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete recipe: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("recipe %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateEditHistory(ctx context.Context, h recipe.EditHistory) (recipe.EditHistory, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CreatedAt = time.Now().UTC()

	changesJSON, err := json.Marshal(h.Changes)
	if err != nil {
		return recipe.EditHistory{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipe_edit_history (id, recipe_id, user_id, action, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, h.ID, h.RecipeID, h.UserID, h.Action, changesJSON, h.CreatedAt)
	if err != nil {
		return recipe.EditHistory{}, fmt.Errorf("create edit history: %w", mapErr(err))
	}
	return h, nil
}

func (s *Store) ListEditHistory(ctx context.Context, recipeID string) ([]recipe.EditHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, user_id, action, changes, created_at
		FROM recipe_edit_history
		WHERE recipe_id = $1
		ORDER BY created_at
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list edit history: %w", mapErr(err))
	}
	defer rows.Close()

	var result []recipe.EditHistory
	for rows.Next() {
		var (
			h          recipe.EditHistory
			changesRaw []byte
		)
		if err := rows.Scan(&h.ID, &h.RecipeID, &h.UserID, &h.Action, &changesRaw, &h.CreatedAt); err != nil {
			return nil, err
		}
		if len(changesRaw) > 0 {
			_ = json.Unmarshal(changesRaw, &h.Changes)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// --- GroupStore -------------------------------------------------------------

func (s *Store) CreateGroup(ctx context.Context, g group.Group, owner group.Membership) (group.Group, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	g.Active = true
	g.CreatedAt = now
	g.UpdatedAt = now

	owner.ID = uuid.NewString()
	owner.GroupID = g.ID
	owner.JoinedAt = now

	// Group row and owner membership commit together or not at all.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return group.Group{}, fmt.Errorf("create group: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (id, owner_id, name, description, image_url, max_members, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
	`, g.ID, g.OwnerID, g.Name, g.Description, g.ImageURL, g.MaxMembers, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return group.Group{}, fmt.Errorf("create group: %w", mapErr(err))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_memberships (id, group_id, user_id, role, added_by, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, owner.ID, owner.GroupID, owner.UserID, owner.Role, owner.AddedBy, owner.JoinedAt)
	if err != nil {
		return group.Group{}, fmt.Errorf("create group owner membership: %w", mapErr(err))
	}

	if err := tx.Commit(); err != nil {
		return group.Group{}, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

func (s *Store) UpdateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	existing, err := s.GetGroup(ctx, g.ID)
	if err != nil {
		return group.Group{}, err
	}

	g.OwnerID = existing.OwnerID
	g.Active = existing.Active
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE groups
		SET name = $2, description = $3, image_url = $4, max_members = $5, updated_at = $6
		WHERE id = $1 AND active
	`, g.ID, g.Name, g.Description, g.ImageURL, g.MaxMembers, g.UpdatedAt)
	if err != nil {
		return group.Group{}, fmt.Errorf("update group: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return group.Group{}, fmt.Errorf("group %s: %w", g.ID, storage.ErrNotFound)
	}
	return g, nil
}

func (s *Store) GetGroup(ctx context.Context, id string) (group.Group, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, image_url, max_members, active, created_at, updated_at
		FROM groups
		WHERE id = $1 AND active
	`, id)

	var g group.Group
	if err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.ImageURL, &g.MaxMembers, &g.Active, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return group.Group{}, fmt.Errorf("get group: %w", mapErr(err))
	}
	return g, nil
}

func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]group.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.owner_id, g.name, g.description, g.image_url, g.max_members, g.active, g.created_at, g.updated_at
		FROM groups g
		JOIN group_memberships m ON m.group_id = g.id
		WHERE m.user_id = $1 AND g.active
		ORDER BY g.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", mapErr(err))
	}
	defer rows.Close()

	var result []group.Group
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.ImageURL, &g.MaxMembers, &g.Active, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (s *Store) DeactivateGroup(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE groups SET active = FALSE, updated_at = $2 WHERE id = $1 AND active
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate group: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) AddMember(ctx context.Context, m group.Membership) (group.Membership, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.JoinedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_memberships (id, group_id, user_id, role, added_by, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.GroupID, m.UserID, m.Role, m.AddedBy, m.JoinedAt)
	if err != nil {
		return group.Membership{}, fmt.Errorf("add member: %w", mapErr(err))
	}
	return m, nil
}

func (s *Store) RemoveMember(ctx context.Context, groupID, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM group_memberships WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetMembership(ctx context.Context, groupID, userID string) (group.Membership, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, user_id, role, added_by, joined_at
		FROM group_memberships
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)

	var m group.Membership
	if err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.AddedBy, &m.JoinedAt); err != nil {
		return group.Membership{}, fmt.Errorf("get membership: %w", mapErr(err))
	}
	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, groupID string) ([]group.Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, user_id, role, added_by, joined_at
		FROM group_memberships
		WHERE group_id = $1
		ORDER BY joined_at
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", mapErr(err))
	}
	defer rows.Close()

	var result []group.Membership
	for rows.Next() {
		var m group.Membership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.AddedBy, &m.JoinedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) CountMembers(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_memberships WHERE group_id = $1
	`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", mapErr(err))
	}
	return count, nil
}

func (s *Store) LinkRecipe(ctx context.Context, l group.RecipeLink) (group.RecipeLink, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.LinkedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_recipe_links (id, group_id, recipe_id, added_by, linked_at)
		VALUES ($1, $2, $3, $4, $5)
	`, l.ID, l.GroupID, l.RecipeID, l.AddedBy, l.LinkedAt)
	if err != nil {
		return group.RecipeLink{}, fmt.Errorf("link recipe: %w", mapErr(err))
	}
	return l, nil
}

func (s *Store) UnlinkRecipe(ctx context.Context, groupID, recipeID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM group_recipe_links WHERE group_id = $1 AND recipe_id = $2
	`, groupID, recipeID)
	if err != nil {
		return fmt.Errorf("unlink recipe: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("link %s/%s: %w", groupID, recipeID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ListRecipeLinks(ctx context.Context, groupID string) ([]group.RecipeLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, recipe_id, added_by, linked_at
		FROM group_recipe_links
		WHERE group_id = $1
		ORDER BY linked_at
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list recipe links: %w", mapErr(err))
	}
	defer rows.Close()

	var result []group.RecipeLink
	for rows.Next() {
		var l group.RecipeLink
		if err := rows.Scan(&l.ID, &l.GroupID, &l.RecipeID, &l.AddedBy, &l.LinkedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (s *Store) SharesGroupWithRecipe(ctx context.Context, userID, recipeID string) (bool, error) {
	var shared bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM group_recipe_links l
			JOIN group_memberships m ON m.group_id = l.group_id
			JOIN groups g ON g.id = l.group_id
			WHERE l.recipe_id = $1 AND m.user_id = $2 AND g.active
		)
	`, recipeID, userID).Scan(&shared)
	if err != nil {
		return false, fmt.Errorf("shares group with recipe: %w", mapErr(err))
	}
	return shared, nil
}

// --- CommentStore -----------------------------------------------------------

func (s *Store) CreateComment(ctx context.Context, c social.Comment) (social.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, recipe_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.RecipeID, c.UserID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return social.Comment{}, fmt.Errorf("create comment: %w", mapErr(err))
	}
	return c, nil
}

func (s *Store) UpdateComment(ctx context.Context, c social.Comment) (social.Comment, error) {
	existing, err := s.GetComment(ctx, c.ID)
	if err != nil {
		return social.Comment{}, err
	}

	c.RecipeID = existing.RecipeID
	c.UserID = existing.UserID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1
	`, c.ID, c.Content, c.UpdatedAt)
	if err != nil {
		return social.Comment{}, fmt.Errorf("update comment: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return social.Comment{}, fmt.Errorf("comment %s: %w", c.ID, storage.ErrNotFound)
	}
	return c, nil
}

func (s *Store) GetComment(ctx context.Context, id string) (social.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, recipe_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`, id)

	var c social.Comment
	if err := row.Scan(&c.ID, &c.RecipeID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return social.Comment{}, fmt.Errorf("get comment: %w", mapErr(err))
	}
	return c, nil
}

func (s *Store) ListComments(ctx context.Context, recipeID string, offset, limit int) ([]social.Comment, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE recipe_id = $1
	`, recipeID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", mapErr(err))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE recipe_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3
	`, recipeID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", mapErr(err))
	}
	defer rows.Close()

	result := make([]social.Comment, 0)
	for rows.Next() {
		var c social.Comment
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM comments WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// --- RatingStore ------------------------------------------------------------

func (s *Store) UpsertRating(ctx context.Context, r social.Rating) (social.Rating, error) {
	now := time.Now().UTC()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO ratings (id, recipe_id, user_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, recipe_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`, uuid.NewString(), r.RecipeID, r.UserID, r.Value, now)

	if err := row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return social.Rating{}, fmt.Errorf("upsert rating: %w", mapErr(err))
	}
	return r, nil
}

func (s *Store) GetRating(ctx context.Context, userID, recipeID string) (social.Rating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, recipe_id, user_id, rating, created_at, updated_at
		FROM ratings
		WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)

	var r social.Rating
	if err := row.Scan(&r.ID, &r.RecipeID, &r.UserID, &r.Value, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return social.Rating{}, fmt.Errorf("get rating: %w", mapErr(err))
	}
	return r, nil
}

func (s *Store) DeleteRating(ctx context.Context, userID, recipeID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM ratings WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("rating %s/%s: %w", userID, recipeID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetRatingSummary(ctx context.Context, recipeID string) (social.RatingSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings
		WHERE recipe_id = $1
	`, recipeID)

	var summary social.RatingSummary
	if err := row.Scan(&summary.Average, &summary.Count); err != nil {
		return social.RatingSummary{}, fmt.Errorf("rating summary: %w", mapErr(err))
	}
	return summary, nil
}

// --- BookmarkStore ----------------------------------------------------------

func (s *Store) AddBookmark(ctx context.Context, b social.Bookmark) (social.Bookmark, error) {
	now := time.Now().UTC()
	// DO NOTHING keeps the original row; the follow-up select returns it so
	// re-bookmarking stays idempotent.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, recipe_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`, uuid.NewString(), b.RecipeID, b.UserID, now)
	if err != nil {
		return social.Bookmark{}, fmt.Errorf("add bookmark: %w", mapErr(err))
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, recipe_id, user_id, created_at
		FROM bookmarks
		WHERE user_id = $1 AND recipe_id = $2
	`, b.UserID, b.RecipeID)
	if err := row.Scan(&b.ID, &b.RecipeID, &b.UserID, &b.CreatedAt); err != nil {
		return social.Bookmark{}, fmt.Errorf("add bookmark: %w", mapErr(err))
	}
	return b, nil
}

func (s *Store) RemoveBookmark(ctx context.Context, userID, recipeID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("bookmark %s/%s: %w", userID, recipeID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ListBookmarks(ctx context.Context, userID string, offset, limit int) ([]social.Bookmark, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookmarks WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", mapErr(err))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, user_id, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3
	`, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", mapErr(err))
	}
	defer rows.Close()

	result := make([]social.Bookmark, 0)
	for rows.Next() {
		var b social.Bookmark
		if err := rows.Scan(&b.ID, &b.RecipeID, &b.UserID, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, b)
	}
	return result, total, rows.Err()
}

func (s *Store) IsBookmarked(ctx context.Context, userID, recipeID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND recipe_id = $2)
	`, userID, recipeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is bookmarked: %w", mapErr(err))
	}
	return exists, nil
}

// --- PaymentStore -----------------------------------------------------------

func (s *Store) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, amount, currency, gateway_transaction_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.UserID, p.Amount, p.Currency, p.GatewayTransactionID, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("create payment: %w", mapErr(err))
	}
	return p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	existing, err := s.GetPayment(ctx, p.ID)
	if err != nil {
		return payment.Payment{}, err
	}

	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE payments
		SET amount = $2, currency = $3, gateway_transaction_id = $4, status = $5, updated_at = $6
		WHERE id = $1
	`, p.ID, p.Amount, p.Currency, p.GatewayTransactionID, p.Status, p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("update payment: %w", mapErr(err))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return payment.Payment{}, fmt.Errorf("payment %s: %w", p.ID, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, currency, gateway_transaction_id, status, created_at, updated_at
		FROM payments
		WHERE id = $1
	`, id)

	var p payment.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.GatewayTransactionID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return payment.Payment{}, fmt.Errorf("get payment: %w", mapErr(err))
	}
	return p, nil
}

func (s *Store) GetPaymentByGatewayID(ctx context.Context, gatewayID string) (payment.Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, currency, gateway_transaction_id, status, created_at, updated_at
		FROM payments
		WHERE gateway_transaction_id = $1
	`, gatewayID)

	var p payment.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.GatewayTransactionID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return payment.Payment{}, fmt.Errorf("get payment by gateway id: %w", mapErr(err))
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, userID string) ([]payment.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, currency, gateway_transaction_id, status, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", mapErr(err))
	}
	defer rows.Close()

	var result []payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Currency, &p.GatewayTransactionID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
