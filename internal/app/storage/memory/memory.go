package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/payment"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/app/domain/user"
	"github.com/recipe-room/recipe-room/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu          sync.RWMutex
	nextID      int64
	users       map[string]user.User
	recipes     map[string]recipe.Recipe
	history     map[string][]recipe.EditHistory
	groups      map[string]group.Group
	memberships map[string][]group.Membership
	links       map[string][]group.RecipeLink
	comments    map[string]social.Comment
	ratings     map[string]social.Rating // keyed by userID+"/"+recipeID
	bookmarks   map[string]social.Bookmark
	payments    map[string]payment.Payment
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.RecipeStore = (*Store)(nil)
var _ storage.GroupStore = (*Store)(nil)
var _ storage.CommentStore = (*Store)(nil)
var _ storage.RatingStore = (*Store)(nil)
var _ storage.BookmarkStore = (*Store)(nil)
var _ storage.PaymentStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:      1,
		users:       make(map[string]user.User),
		recipes:     make(map[string]recipe.Recipe),
		history:     make(map[string][]recipe.EditHistory),
		groups:      make(map[string]group.Group),
		memberships: make(map[string][]group.Membership),
		links:       make(map[string][]group.RecipeLink),
		comments:    make(map[string]social.Comment),
		ratings:     make(map[string]social.Rating),
		bookmarks:   make(map[string]social.Bookmark),
		payments:    make(map[string]payment.Payment),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

func pairKey(userID, recipeID string) string {
	return userID + "/" + recipeID
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user.User{}, fmt.Errorf("username %s: %w", u.Username, storage.ErrDuplicate)
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, fmt.Errorf("email %s: %w", u.Email, storage.ErrDuplicate)
		}
	}

	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	for id, existing := range s.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return user.User{}, fmt.Errorf("username %s: %w", u.Username, storage.ErrDuplicate)
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, fmt.Errorf("email %s: %w", u.Email, storage.ErrDuplicate)
		}
	}

	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *Store) CountUserDependents(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.recipes {
		if r.OwnerID == userID && !r.Deleted {
			count++
		}
	}
	for _, c := range s.comments {
		if c.UserID == userID {
			count++
		}
	}
	for _, g := range s.groups {
		if g.OwnerID == userID && g.Active {
			count++
		}
	}
	return count, nil
}

// RecipeStore implementation --------------------------------------------------

func (s *Store) CreateRecipe(_ context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.nextIDLocked()
	} else if _, exists := s.recipes[r.ID]; exists {
		return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", r.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Ingredients = cloneIngredients(r.Ingredients)
	r.Procedure = cloneSteps(r.Procedure)

	s.recipes[r.ID] = r
	return cloneRecipe(r), nil
}

func (s *Store) UpdateRecipe(_ context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.recipes[r.ID]
	if !ok || original.Deleted {
		return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", r.ID, storage.ErrNotFound)
	}

	r.CreatedAt = original.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	r.Ingredients = cloneIngredients(r.Ingredients)
	r.Procedure = cloneSteps(r.Procedure)

	s.recipes[r.ID] = r
	return cloneRecipe(r), nil
}

func (s *Store) GetRecipe(_ context.Context, id string) (recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok || r.Deleted {
		return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", id, storage.ErrNotFound)
	}
	return cloneRecipe(r), nil
}

func (s *Store) ListRecipes(_ context.Context, filter storage.RecipeFilter) ([]recipe.Recipe, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]recipe.Recipe, 0)
	for _, r := range s.recipes {
		if r.Deleted {
			continue
		}
		if filter.OwnerID != "" && r.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Country != "" && !strings.EqualFold(r.Country, filter.Country) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(r.Title), needle) &&
				!strings.Contains(strings.ToLower(r.Description), needle) {
				continue
			}
		}
		if filter.Ingredient != "" && !hasIngredient(r, filter.Ingredient) {
			continue
		}
		if filter.MinRating > 0 {
			avg, rated := s.averageRatingLocked(r.ID)
			if !rated || avg < filter.MinRating {
				continue
			}
		}
		matched = append(matched, cloneRecipe(r))
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	return paginateRecipes(matched, filter.Offset, filter.Limit), total, nil
}

func (s *Store) DeleteRecipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok || r.Deleted {
		return fmt.Errorf("recipe %s: %w", id, storage.ErrNotFound)
	}
	r.Deleted = true
	r.UpdatedAt = time.Now().UTC()
	s.recipes[id] = r
	return nil
}

func (s *Store) CreateEditHistory(_ context.Context, h recipe.EditHistory) (recipe.EditHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = s.nextIDLocked()
	}
	h.CreatedAt = time.Now().UTC()

	s.history[h.RecipeID] = append(s.history[h.RecipeID], h)
	return h, nil
}

func (s *Store) ListEditHistory(_ context.Context, recipeID string) ([]recipe.EditHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]recipe.EditHistory(nil), s.history[recipeID]...), nil
}

// GroupStore implementation ---------------------------------------------------

func (s *Store) CreateGroup(_ context.Context, g group.Group, owner group.Membership) (group.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = s.nextIDLocked()
	} else if _, exists := s.groups[g.ID]; exists {
		return group.Group{}, fmt.Errorf("group %s: %w", g.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	g.Active = true
	g.CreatedAt = now
	g.UpdatedAt = now

	owner.ID = s.nextIDLocked()
	owner.GroupID = g.ID
	owner.JoinedAt = now

	s.groups[g.ID] = g
	s.memberships[g.ID] = []group.Membership{owner}
	return g, nil
}

func (s *Store) UpdateGroup(_ context.Context, g group.Group) (group.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.groups[g.ID]
	if !ok || !original.Active {
		return group.Group{}, fmt.Errorf("group %s: %w", g.ID, storage.ErrNotFound)
	}

	g.Active = original.Active
	g.CreatedAt = original.CreatedAt
	g.UpdatedAt = time.Now().UTC()

	s.groups[g.ID] = g
	return g, nil
}

func (s *Store) GetGroup(_ context.Context, id string) (group.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok || !g.Active {
		return group.Group{}, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	return g, nil
}

func (s *Store) ListGroupsForUser(_ context.Context, userID string) ([]group.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]group.Group, 0)
	for groupID, members := range s.memberships {
		g, ok := s.groups[groupID]
		if !ok || !g.Active {
			continue
		}
		for _, m := range members {
			if m.UserID == userID {
				result = append(result, g)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) DeactivateGroup(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok || !g.Active {
		return fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	g.Active = false
	g.UpdatedAt = time.Now().UTC()
	s.groups[id] = g
	return nil
}

func (s *Store) AddMember(_ context.Context, m group.Membership) (group.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.groups[m.GroupID]; !ok || !g.Active {
		return group.Membership{}, fmt.Errorf("group %s: %w", m.GroupID, storage.ErrNotFound)
	}
	for _, existing := range s.memberships[m.GroupID] {
		if existing.UserID == m.UserID {
			return group.Membership{}, fmt.Errorf("membership %s/%s: %w", m.GroupID, m.UserID, storage.ErrDuplicate)
		}
	}

	if m.ID == "" {
		m.ID = s.nextIDLocked()
	}
	m.JoinedAt = time.Now().UTC()

	s.memberships[m.GroupID] = append(s.memberships[m.GroupID], m)
	return m, nil
}

func (s *Store) RemoveMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.memberships[groupID]
	for i, m := range members {
		if m.UserID == userID {
			s.memberships[groupID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
}

func (s *Store) GetMembership(_ context.Context, groupID, userID string) (group.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships[groupID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return group.Membership{}, fmt.Errorf("membership %s/%s: %w", groupID, userID, storage.ErrNotFound)
}

func (s *Store) ListMembers(_ context.Context, groupID string) ([]group.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]group.Membership(nil), s.memberships[groupID]...), nil
}

func (s *Store) CountMembers(_ context.Context, groupID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.memberships[groupID]), nil
}

func (s *Store) LinkRecipe(_ context.Context, l group.RecipeLink) (group.RecipeLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.groups[l.GroupID]; !ok || !g.Active {
		return group.RecipeLink{}, fmt.Errorf("group %s: %w", l.GroupID, storage.ErrNotFound)
	}
	for _, existing := range s.links[l.GroupID] {
		if existing.RecipeID == l.RecipeID {
			return group.RecipeLink{}, fmt.Errorf("link %s/%s: %w", l.GroupID, l.RecipeID, storage.ErrDuplicate)
		}
	}

	if l.ID == "" {
		l.ID = s.nextIDLocked()
	}
	l.LinkedAt = time.Now().UTC()

	s.links[l.GroupID] = append(s.links[l.GroupID], l)
	return l, nil
}

func (s *Store) UnlinkRecipe(_ context.Context, groupID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := s.links[groupID]
	for i, l := range links {
		if l.RecipeID == recipeID {
			s.links[groupID] = append(links[:i], links[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("link %s/%s: %w", groupID, recipeID, storage.ErrNotFound)
}

func (s *Store) ListRecipeLinks(_ context.Context, groupID string) ([]group.RecipeLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]group.RecipeLink(nil), s.links[groupID]...), nil
}

func (s *Store) SharesGroupWithRecipe(_ context.Context, userID, recipeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for groupID, links := range s.links {
		g, ok := s.groups[groupID]
		if !ok || !g.Active {
			continue
		}
		linked := false
		for _, l := range links {
			if l.RecipeID == recipeID {
				linked = true
				break
			}
		}
		if !linked {
			continue
		}
		for _, m := range s.memberships[groupID] {
			if m.UserID == userID {
				return true, nil
			}
		}
	}
	return false, nil
}

// CommentStore implementation -------------------------------------------------

func (s *Store) CreateComment(_ context.Context, c social.Comment) (social.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextIDLocked()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	s.comments[c.ID] = c
	return c, nil
}

func (s *Store) UpdateComment(_ context.Context, c social.Comment) (social.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.comments[c.ID]
	if !ok {
		return social.Comment{}, fmt.Errorf("comment %s: %w", c.ID, storage.ErrNotFound)
	}

	c.CreatedAt = original.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	s.comments[c.ID] = c
	return c, nil
}

func (s *Store) GetComment(_ context.Context, id string) (social.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return social.Comment{}, fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	return c, nil
}

func (s *Store) ListComments(_ context.Context, recipeID string, offset, limit int) ([]social.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]social.Comment, 0)
	for _, c := range s.comments {
		if c.RecipeID == recipeID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	return paginateComments(matched, offset, limit), total, nil
}

func (s *Store) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	delete(s.comments, id)
	return nil
}

// RatingStore implementation --------------------------------------------------

func (s *Store) UpsertRating(_ context.Context, r social.Rating) (social.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(r.UserID, r.RecipeID)
	now := time.Now().UTC()
	if existing, ok := s.ratings[key]; ok {
		existing.Value = r.Value
		existing.UpdatedAt = now
		s.ratings[key] = existing
		return existing, nil
	}

	r.ID = s.nextIDLocked()
	r.CreatedAt = now
	r.UpdatedAt = now
	s.ratings[key] = r
	return r, nil
}

func (s *Store) GetRating(_ context.Context, userID, recipeID string) (social.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ratings[pairKey(userID, recipeID)]
	if !ok {
		return social.Rating{}, fmt.Errorf("rating %s/%s: %w", userID, recipeID, storage.ErrNotFound)
	}
	return r, nil
}

func (s *Store) DeleteRating(_ context.Context, userID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, recipeID)
	if _, ok := s.ratings[key]; !ok {
		return fmt.Errorf("rating %s/%s: %w", userID, recipeID, storage.ErrNotFound)
	}
	delete(s.ratings, key)
	return nil
}

func (s *Store) GetRatingSummary(_ context.Context, recipeID string) (social.RatingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, count := 0, 0
	for _, r := range s.ratings {
		if r.RecipeID == recipeID {
			sum += r.Value
			count++
		}
	}
	summary := social.RatingSummary{Count: count}
	if count > 0 {
		summary.Average = float64(sum) / float64(count)
	}
	return summary, nil
}

// BookmarkStore implementation ------------------------------------------------

func (s *Store) AddBookmark(_ context.Context, b social.Bookmark) (social.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(b.UserID, b.RecipeID)
	if existing, ok := s.bookmarks[key]; ok {
		return existing, nil
	}

	b.ID = s.nextIDLocked()
	b.CreatedAt = time.Now().UTC()
	s.bookmarks[key] = b
	return b, nil
}

func (s *Store) RemoveBookmark(_ context.Context, userID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, recipeID)
	if _, ok := s.bookmarks[key]; !ok {
		return fmt.Errorf("bookmark %s/%s: %w", userID, recipeID, storage.ErrNotFound)
	}
	delete(s.bookmarks, key)
	return nil
}

func (s *Store) ListBookmarks(_ context.Context, userID string, offset, limit int) ([]social.Bookmark, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]social.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	return paginateBookmarks(matched, offset, limit), total, nil
}

func (s *Store) IsBookmarked(_ context.Context, userID, recipeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bookmarks[pairKey(userID, recipeID)]
	return ok, nil
}

// PaymentStore implementation -------------------------------------------------

func (s *Store) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.payments[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.payments[p.ID]
	if !ok {
		return payment.Payment{}, fmt.Errorf("payment %s: %w", p.ID, storage.ErrNotFound)
	}

	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	s.payments[p.ID] = p
	return p, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return payment.Payment{}, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) GetPaymentByGatewayID(_ context.Context, gatewayID string) (payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.payments {
		if p.GatewayTransactionID == gatewayID {
			return p, nil
		}
	}
	return payment.Payment{}, fmt.Errorf("payment for transaction %s: %w", gatewayID, storage.ErrNotFound)
}

func (s *Store) ListPayments(_ context.Context, userID string) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]payment.Payment, 0)
	for _, p := range s.payments {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Helpers --------------------------------------------------------------------

func cloneIngredients(in []recipe.Ingredient) []recipe.Ingredient {
	return append([]recipe.Ingredient(nil), in...)
}

func cloneSteps(in []recipe.Step) []recipe.Step {
	return append([]recipe.Step(nil), in...)
}

func cloneRecipe(r recipe.Recipe) recipe.Recipe {
	r.Ingredients = cloneIngredients(r.Ingredients)
	r.Procedure = cloneSteps(r.Procedure)
	return r
}

func hasIngredient(r recipe.Recipe, name string) bool {
	needle := strings.ToLower(name)
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), needle) {
			return true
		}
	}
	return false
}

// averageRatingLocked reports the recipe's mean score. The second return is
// false when the recipe has no ratings. Callers must hold the lock.
func (s *Store) averageRatingLocked(recipeID string) (float64, bool) {
	sum, count := 0, 0
	for _, r := range s.ratings {
		if r.RecipeID == recipeID {
			sum += r.Value
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

func paginateRecipes(in []recipe.Recipe, offset, limit int) []recipe.Recipe {
	if offset >= len(in) {
		return []recipe.Recipe{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func paginateComments(in []social.Comment, offset, limit int) []social.Comment {
	if offset >= len(in) {
		return []social.Comment{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func paginateBookmarks(in []social.Bookmark, offset, limit int) []social.Bookmark {
	if offset >= len(in) {
		return []social.Bookmark{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
