// Package recipes implements recipe CRUD, collaborative editing and the
// append-only edit history.
package recipes

import (
	"context"
	"errors"
	"reflect"

	"github.com/recipe-room/recipe-room/internal/app/authz"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/storage"
	apperrors "github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/internal/imagestore"
	"github.com/recipe-room/recipe-room/internal/sanitize"
	"github.com/recipe-room/recipe-room/internal/validation"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

// Service manages recipes.
type Service struct {
	recipes storage.RecipeStore
	groups  storage.GroupStore
	images  *imagestore.Client
	log     *logger.Logger
}

// New creates the recipes service. images may be nil when no media service
// is configured.
func New(recipes storage.RecipeStore, groups storage.GroupStore, images *imagestore.Client, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("recipes")
	}
	return &Service{recipes: recipes, groups: groups, images: images, log: log}
}

// Create validates, normalizes and stores a new recipe. A non-empty
// imageData is uploaded to the media service; upload failure is logged and
// the recipe is created without an image.
func (s *Service) Create(ctx context.Context, ownerID string, payload validation.RecipePayload, imageData string) (recipe.Recipe, error) {
	if err := validation.ValidateRecipe(payload); err != nil {
		return recipe.Recipe{}, err
	}
	validation.NormalizeRecipe(&payload)

	r := recipe.Recipe{
		OwnerID:      ownerID,
		Title:        sanitize.Text(payload.Title),
		Description:  sanitize.Text(payload.Description),
		Country:      payload.Country,
		Ingredients:  payload.Ingredients,
		Procedure:    payload.Procedure,
		PeopleServed: payload.PeopleServed,
		PrepTime:     payload.PrepTime,
		CookTime:     payload.CookTime,
	}

	if imageData != "" && s.images != nil {
		img, err := s.images.Upload(ctx, imageData)
		if err != nil {
			s.log.WithError(err).Warn("recipe image upload failed; creating without image")
		} else {
			r.ImageURL = img.URL
			r.ImagePublicID = img.PublicID
		}
	}

	created, err := s.recipes.CreateRecipe(ctx, r)
	if err != nil {
		return recipe.Recipe{}, apperrors.Internal("create recipe", err)
	}

	s.recordHistory(ctx, created.ID, ownerID, recipe.ActionCreated, nil)
	s.log.Infof("recipe %s created by %s", created.ID, ownerID)
	return created, nil
}

// Get returns a recipe by id.
func (s *Service) Get(ctx context.Context, id string) (recipe.Recipe, error) {
	r, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return recipe.Recipe{}, apperrors.NotFound("recipe not found")
		}
		return recipe.Recipe{}, apperrors.Internal("get recipe", err)
	}
	return r, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	OwnerID    string
	Country    string
	Search     string
	Ingredient string
	MinRating  float64
}

// List returns a page of recipes plus the total match count. MinRating
// selects recipes whose average score is at least the given value, so it
// only matches recipes that have been rated.
func (s *Service) List(ctx context.Context, f ListFilter, p validation.Pagination) ([]recipe.Recipe, int, error) {
	if f.MinRating < 0 || f.MinRating > 5 {
		return nil, 0, apperrors.ValidationFailed("minimum rating must be between 1 and 5")
	}
	result, total, err := s.recipes.ListRecipes(ctx, storage.RecipeFilter{
		OwnerID:    f.OwnerID,
		Country:    validation.NormalizeCountry(f.Country),
		Search:     f.Search,
		Ingredient: f.Ingredient,
		MinRating:  f.MinRating,
		Offset:     p.Offset(),
		Limit:      p.PerPage,
	})
	if err != nil {
		return nil, 0, apperrors.Internal("list recipes", err)
	}
	return result, total, nil
}

// Update applies a typed patch. The owner may always edit; members of a
// group the recipe is shared into may edit as collaborators. Every applied
// change is recorded in the edit history with its before and after value.
func (s *Service) Update(ctx context.Context, userID, recipeID string, patch recipe.Update) (recipe.Recipe, error) {
	current, err := s.Get(ctx, recipeID)
	if err != nil {
		return recipe.Recipe{}, err
	}

	shared, err := s.groups.SharesGroupWithRecipe(ctx, userID, recipeID)
	if err != nil {
		return recipe.Recipe{}, apperrors.Internal("check group share", err)
	}
	if !authz.CanEditRecipe(userID, current, shared) {
		return recipe.Recipe{}, apperrors.PermissionDenied("you cannot edit this recipe")
	}

	if err := validation.ValidateRecipeUpdate(patch); err != nil {
		return recipe.Recipe{}, err
	}

	updated := current
	changes := make(map[string]recipe.FieldChange)

	applyString := func(field string, dst *string, src *string, clean func(string) string) {
		if src == nil {
			return
		}
		next := clean(*src)
		if next != *dst {
			changes[field] = recipe.FieldChange{Old: *dst, New: next}
			*dst = next
		}
	}
	applyInt := func(field string, dst *int, src *int) {
		if src == nil || *src == *dst {
			return
		}
		changes[field] = recipe.FieldChange{Old: *dst, New: *src}
		*dst = *src
	}

	applyString("title", &updated.Title, patch.Title, func(v string) string {
		return sanitize.Text(validation.CollapseWhitespace(v))
	})
	applyString("description", &updated.Description, patch.Description, func(v string) string {
		return sanitize.Text(validation.CollapseWhitespace(v))
	})
	applyString("country", &updated.Country, patch.Country, validation.NormalizeCountry)
	applyInt("people_served", &updated.PeopleServed, patch.PeopleServed)
	applyInt("prep_time", &updated.PrepTime, patch.PrepTime)
	applyInt("cook_time", &updated.CookTime, patch.CookTime)

	if patch.Ingredients != nil && !reflect.DeepEqual(*patch.Ingredients, updated.Ingredients) {
		changes["ingredients"] = recipe.FieldChange{Old: updated.Ingredients, New: *patch.Ingredients}
		updated.Ingredients = *patch.Ingredients
	}
	if patch.Procedure != nil && !reflect.DeepEqual(*patch.Procedure, updated.Procedure) {
		changes["procedure"] = recipe.FieldChange{Old: updated.Procedure, New: *patch.Procedure}
		updated.Procedure = *patch.Procedure
	}

	if patch.Image != nil && s.images != nil {
		img, err := s.images.Upload(ctx, *patch.Image)
		if err != nil {
			s.log.WithError(err).Warnf("recipe image upload failed for %s; keeping previous image", recipeID)
		} else {
			if updated.ImagePublicID != "" {
				if err := s.images.Delete(ctx, updated.ImagePublicID); err != nil {
					s.log.WithError(err).Warnf("old image cleanup failed for %s", recipeID)
				}
			}
			changes["image_url"] = recipe.FieldChange{Old: updated.ImageURL, New: img.URL}
			updated.ImageURL = img.URL
			updated.ImagePublicID = img.PublicID
		}
	}

	if len(changes) == 0 {
		return current, nil
	}

	saved, err := s.recipes.UpdateRecipe(ctx, updated)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return recipe.Recipe{}, apperrors.NotFound("recipe not found")
		}
		return recipe.Recipe{}, apperrors.Internal("update recipe", err)
	}

	s.recordHistory(ctx, recipeID, userID, recipe.ActionUpdated, changes)
	s.log.Infof("recipe %s updated by %s (%d fields)", recipeID, userID, len(changes))
	return saved, nil
}

// Delete soft-deletes a recipe. Deletion is owner-only regardless of group
// sharing. The hosted image is cleaned up best-effort.
func (s *Service) Delete(ctx context.Context, userID, recipeID string) error {
	current, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteRecipe(userID, current) {
		return apperrors.PermissionDenied("only the owner can delete a recipe")
	}

	if err := s.recipes.DeleteRecipe(ctx, recipeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("recipe not found")
		}
		return apperrors.Internal("delete recipe", err)
	}

	if current.ImagePublicID != "" && s.images != nil {
		if err := s.images.Delete(ctx, current.ImagePublicID); err != nil {
			s.log.WithError(err).Warnf("image cleanup failed for deleted recipe %s", recipeID)
		}
	}

	s.recordHistory(ctx, recipeID, userID, recipe.ActionDeleted, nil)
	s.log.Infof("recipe %s deleted by %s", recipeID, userID)
	return nil
}

// History returns the edit log. Visible to anyone who may edit the recipe.
func (s *Service) History(ctx context.Context, userID, recipeID string) ([]recipe.EditHistory, error) {
	current, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	shared, err := s.groups.SharesGroupWithRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, apperrors.Internal("check group share", err)
	}
	if !authz.CanEditRecipe(userID, current, shared) {
		return nil, apperrors.PermissionDenied("you cannot view this recipe's history")
	}

	history, err := s.recipes.ListEditHistory(ctx, recipeID)
	if err != nil {
		return nil, apperrors.Internal("list edit history", err)
	}
	return history, nil
}

// recordHistory appends an edit log entry. History failures never fail the
// mutation that produced them.
func (s *Service) recordHistory(ctx context.Context, recipeID, userID, action string, changes map[string]recipe.FieldChange) {
	_, err := s.recipes.CreateEditHistory(ctx, recipe.EditHistory{
		RecipeID: recipeID,
		UserID:   userID,
		Action:   action,
		Changes:  changes,
	})
	if err != nil {
		s.log.WithError(err).Warnf("edit history write failed for recipe %s", recipeID)
	}
}
