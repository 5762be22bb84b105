// Package groups implements collaboration groups: capacity-limited member
// rosters owned by one user, with recipes shared into them by their owners.
package groups

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/recipe-room/recipe-room/internal/app/authz"
	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/storage"
	apperrors "github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

// Group name bounds.
const (
	nameMinLen        = 3
	nameMaxLen        = 100
	maxMembersCeiling = 500
)

// Service manages groups, memberships, and recipe links.
type Service struct {
	groups  storage.GroupStore
	users   storage.UserStore
	recipes storage.RecipeStore
	log     *logger.Logger
}

// New creates a group service.
func New(groups storage.GroupStore, users storage.UserStore, recipes storage.RecipeStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("groups")
	}
	return &Service{groups: groups, users: users, recipes: recipes, log: log}
}

// CreateInput carries the fields a user supplies when opening a group.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
}

// Create opens a new group owned by ownerID. The owner membership is written
// in the same transaction as the group, so a group is never observable
// without its owner on the roster.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (group.Group, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return group.Group{}, apperrors.ValidationFailed("group name must be between 3 and 100 characters")
	}
	maxMembers := in.MaxMembers
	if maxMembers == 0 {
		maxMembers = group.DefaultMaxMembers
	}
	if maxMembers < 1 || maxMembers > maxMembersCeiling {
		return group.Group{}, apperrors.ValidationFailed("max_members must be between 1 and 500")
	}

	g := group.Group{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		MaxMembers:  maxMembers,
	}
	owner := group.Membership{UserID: ownerID, Role: group.RoleOwner, AddedBy: ownerID}

	created, err := s.groups.CreateGroup(ctx, g, owner)
	if err != nil {
		return group.Group{}, apperrors.Internal("failed to create group", err)
	}
	s.log.Infof("group %s created by %s", created.ID, ownerID)
	return created, nil
}

// Get returns the group if actorID is on its roster.
func (s *Service) Get(ctx context.Context, actorID, groupID string) (group.Group, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return group.Group{}, err
	}
	if err := s.requireMember(ctx, actorID, groupID); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

// ListForUser returns every active group actorID belongs to.
func (s *Service) ListForUser(ctx context.Context, actorID string) ([]group.Group, error) {
	list, err := s.groups.ListGroupsForUser(ctx, actorID)
	if err != nil {
		return nil, apperrors.Internal("failed to list groups", err)
	}
	return list, nil
}

// Update applies an owner's patch to the group. Nil fields are untouched.
func (s *Service) Update(ctx context.Context, actorID, groupID string, patch group.Update) (group.Group, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return group.Group{}, err
	}
	if !authz.CanManageGroup(actorID, g) {
		return group.Group{}, apperrors.PermissionDenied("only the group owner can update the group")
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) < nameMinLen || len(name) > nameMaxLen {
			return group.Group{}, apperrors.ValidationFailed("group name must be between 3 and 100 characters")
		}
		g.Name = name
	}
	if patch.Description != nil {
		g.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.MaxMembers != nil {
		if *patch.MaxMembers < 1 || *patch.MaxMembers > maxMembersCeiling {
			return group.Group{}, apperrors.ValidationFailed("max_members must be between 1 and 500")
		}
		count, err := s.groups.CountMembers(ctx, groupID)
		if err != nil {
			return group.Group{}, apperrors.Internal("failed to count members", err)
		}
		if *patch.MaxMembers < count {
			return group.Group{}, apperrors.ValidationFailed("max_members cannot be lower than the current member count").
				WithDetails("current_members", count)
		}
		g.MaxMembers = *patch.MaxMembers
	}

	updated, err := s.groups.UpdateGroup(ctx, g)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return group.Group{}, apperrors.NotFound("group not found")
		}
		return group.Group{}, apperrors.Internal("failed to update group", err)
	}
	return updated, nil
}

// Delete deactivates the group. Memberships and links stay in storage but the
// group stops resolving; only the owner may delete.
func (s *Service) Delete(ctx context.Context, actorID, groupID string) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !authz.CanManageGroup(actorID, g) {
		return apperrors.PermissionDenied("only the group owner can delete the group")
	}
	if err := s.groups.DeactivateGroup(ctx, groupID); err != nil {
		return apperrors.Internal("failed to delete group", err)
	}
	s.log.Infof("group %s deleted by %s", groupID, actorID)
	return nil
}

// AddMember puts targetID on the roster. Any existing member may invite; the
// capacity check and the membership insert race is settled by the unique
// (group_id, user_id) constraint.
func (s *Service) AddMember(ctx context.Context, actorID, groupID, targetID string) (group.Membership, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return group.Membership{}, err
	}
	member, err := s.isMember(ctx, actorID, groupID)
	if err != nil {
		return group.Membership{}, err
	}
	if !member {
		return group.Membership{}, apperrors.PermissionDenied("only group members can add members")
	}

	if _, err := s.users.GetUser(ctx, targetID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return group.Membership{}, apperrors.NotFound("user not found")
		}
		return group.Membership{}, apperrors.Internal("failed to look up user", err)
	}

	count, err := s.groups.CountMembers(ctx, groupID)
	if err != nil {
		return group.Membership{}, apperrors.Internal("failed to count members", err)
	}
	if count >= g.MaxMembers {
		return group.Membership{}, apperrors.Conflict("group is full").
			WithDetails("max_members", g.MaxMembers)
	}

	m, err := s.groups.AddMember(ctx, group.Membership{
		GroupID: groupID,
		UserID:  targetID,
		Role:    group.RoleMember,
		AddedBy: actorID,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicate) {
			return group.Membership{}, apperrors.Conflict("user is already a member of this group")
		}
		return group.Membership{}, apperrors.Internal("failed to add member", err)
	}
	s.log.Infof("user %s added to group %s by %s", targetID, groupID, actorID)
	return m, nil
}

// RemoveMember takes targetID off the roster. The owner may remove anyone but
// themselves; members may remove only themselves. The owner leaves by
// deleting the group.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, targetID string) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := authz.CheckRemoveMember(actorID, targetID, g); err != nil {
		return err
	}
	if err := s.groups.RemoveMember(ctx, groupID, targetID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("user is not a member of this group")
		}
		return apperrors.Internal("failed to remove member", err)
	}
	s.log.Infof("user %s removed from group %s by %s", targetID, groupID, actorID)
	return nil
}

// ListMembers returns the roster; visible to members only.
func (s *Service) ListMembers(ctx context.Context, actorID, groupID string) ([]group.Membership, error) {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperrors.Internal("failed to list members", err)
	}
	return members, nil
}

// LinkRecipe shares a recipe into the group. Any member may share; the
// linked recipe becomes editable by the whole group.
func (s *Service) LinkRecipe(ctx context.Context, actorID, groupID, recipeID string) (group.RecipeLink, error) {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return group.RecipeLink{}, err
	}
	member, err := s.isMember(ctx, actorID, groupID)
	if err != nil {
		return group.RecipeLink{}, err
	}
	if err := authz.CheckLinkRecipe(member); err != nil {
		return group.RecipeLink{}, err
	}

	if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return group.RecipeLink{}, apperrors.NotFound("recipe not found")
		}
		return group.RecipeLink{}, apperrors.Internal("failed to look up recipe", err)
	}

	l, err := s.groups.LinkRecipe(ctx, group.RecipeLink{GroupID: groupID, RecipeID: recipeID, AddedBy: actorID})
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicate) {
			return group.RecipeLink{}, apperrors.Conflict("recipe is already shared with this group")
		}
		return group.RecipeLink{}, apperrors.Internal("failed to link recipe", err)
	}
	return l, nil
}

// UnlinkRecipe removes a shared recipe from the group. The group owner or the
// recipe owner may unlink.
func (s *Service) UnlinkRecipe(ctx context.Context, actorID, groupID, recipeID string) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !authz.CanManageGroup(actorID, g) {
		r, err := s.recipes.GetRecipe(ctx, recipeID)
		if err != nil {
			if stderrors.Is(err, storage.ErrNotFound) {
				return apperrors.NotFound("recipe not found")
			}
			return apperrors.Internal("failed to look up recipe", err)
		}
		if r.OwnerID != actorID {
			return apperrors.PermissionDenied("only the group owner or the recipe owner can unlink a recipe")
		}
	}
	if err := s.groups.UnlinkRecipe(ctx, groupID, recipeID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("recipe is not shared with this group")
		}
		return apperrors.Internal("failed to unlink recipe", err)
	}
	return nil
}

// ListRecipeLinks returns the recipes shared into the group; members only.
func (s *Service) ListRecipeLinks(ctx context.Context, actorID, groupID string) ([]group.RecipeLink, error) {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	links, err := s.groups.ListRecipeLinks(ctx, groupID)
	if err != nil {
		return nil, apperrors.Internal("failed to list recipe links", err)
	}
	return links, nil
}

func (s *Service) getGroup(ctx context.Context, groupID string) (group.Group, error) {
	g, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return group.Group{}, apperrors.NotFound("group not found")
		}
		return group.Group{}, apperrors.Internal("failed to look up group", err)
	}
	return g, nil
}

func (s *Service) isMember(ctx context.Context, userID, groupID string) (bool, error) {
	_, err := s.groups.GetMembership(ctx, groupID, userID)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return false, apperrors.Internal("failed to check membership", err)
}

func (s *Service) requireMember(ctx context.Context, userID, groupID string) error {
	member, err := s.isMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.PermissionDenied("you are not a member of this group")
	}
	return nil
}
