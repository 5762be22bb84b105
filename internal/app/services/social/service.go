// Package social implements per-recipe engagement: comments, ratings and
// bookmarks.
package social

import (
	"context"
	stderrors "errors"

	"github.com/recipe-room/recipe-room/internal/app/authz"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/app/storage"
	apperrors "github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/internal/sanitize"
	"github.com/recipe-room/recipe-room/internal/validation"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

// Service manages comments, ratings and bookmarks against live recipes.
type Service struct {
	comments  storage.CommentStore
	ratings   storage.RatingStore
	bookmarks storage.BookmarkStore
	recipes   storage.RecipeStore
	log       *logger.Logger
}

// New creates a social service.
func New(comments storage.CommentStore, ratings storage.RatingStore, bookmarks storage.BookmarkStore, recipes storage.RecipeStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("social")
	}
	return &Service{comments: comments, ratings: ratings, bookmarks: bookmarks, recipes: recipes, log: log}
}

// Comments ------------------------------------------------------------------

// AddComment validates and sanitizes content, then attaches it to the recipe.
// A small set of formatting tags survives sanitization; everything else is
// stripped.
func (s *Service) AddComment(ctx context.Context, userID, recipeID, content string) (social.Comment, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return social.Comment{}, err
	}
	clean := sanitize.HTML(content)
	if err := validation.ValidateComment(clean); err != nil {
		return social.Comment{}, err
	}
	c, err := s.comments.CreateComment(ctx, social.Comment{
		RecipeID: recipeID,
		UserID:   userID,
		Content:  clean,
	})
	if err != nil {
		return social.Comment{}, apperrors.Internal("failed to create comment", err)
	}
	return c, nil
}

// UpdateComment replaces the comment's content; author only.
func (s *Service) UpdateComment(ctx context.Context, userID, commentID, content string) (social.Comment, error) {
	c, err := s.getComment(ctx, commentID)
	if err != nil {
		return social.Comment{}, err
	}
	if !authz.CanModifyComment(userID, c) {
		return social.Comment{}, apperrors.PermissionDenied("only the comment author can edit it")
	}
	clean := sanitize.HTML(content)
	if err := validation.ValidateComment(clean); err != nil {
		return social.Comment{}, err
	}
	c.Content = clean
	updated, err := s.comments.UpdateComment(ctx, c)
	if err != nil {
		return social.Comment{}, apperrors.Internal("failed to update comment", err)
	}
	return updated, nil
}

// DeleteComment removes the comment; author only.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	c, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !authz.CanModifyComment(userID, c) {
		return apperrors.PermissionDenied("only the comment author can delete it")
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return apperrors.Internal("failed to delete comment", err)
	}
	return nil
}

// ListComments returns a page of a recipe's comments with the total count.
func (s *Service) ListComments(ctx context.Context, recipeID string, p validation.Pagination) ([]social.Comment, int, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.comments.ListComments(ctx, recipeID, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list comments", err)
	}
	return list, total, nil
}

// Ratings -------------------------------------------------------------------

// RateRecipe records the user's 1..5 score for the recipe. A repeat
// submission overwrites the previous value rather than conflicting.
func (s *Service) RateRecipe(ctx context.Context, userID, recipeID string, value int) (social.Rating, error) {
	if err := validation.ValidateRating(value); err != nil {
		return social.Rating{}, err
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return social.Rating{}, err
	}
	r, err := s.ratings.UpsertRating(ctx, social.Rating{
		RecipeID: recipeID,
		UserID:   userID,
		Value:    value,
	})
	if err != nil {
		return social.Rating{}, apperrors.Internal("failed to save rating", err)
	}
	return r, nil
}

// DeleteRating removes the caller's rating for the recipe.
func (s *Service) DeleteRating(ctx context.Context, userID, recipeID string) error {
	if err := s.ratings.DeleteRating(ctx, userID, recipeID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("rating not found")
		}
		return apperrors.Internal("failed to delete rating", err)
	}
	return nil
}

// RatingSummary returns the recipe's average score and vote count. A recipe
// with no ratings yields a zero summary, not an error.
func (s *Service) RatingSummary(ctx context.Context, recipeID string) (social.RatingSummary, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return social.RatingSummary{}, err
	}
	summary, err := s.ratings.GetRatingSummary(ctx, recipeID)
	if err != nil {
		return social.RatingSummary{}, apperrors.Internal("failed to summarize ratings", err)
	}
	return summary, nil
}

// UserRating returns the caller's own rating for the recipe.
func (s *Service) UserRating(ctx context.Context, userID, recipeID string) (social.Rating, error) {
	r, err := s.ratings.GetRating(ctx, userID, recipeID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return social.Rating{}, apperrors.NotFound("rating not found")
		}
		return social.Rating{}, apperrors.Internal("failed to load rating", err)
	}
	return r, nil
}

// Bookmarks -----------------------------------------------------------------

// Bookmark saves the recipe for the user. Bookmarking an already saved
// recipe returns the existing record.
func (s *Service) Bookmark(ctx context.Context, userID, recipeID string) (social.Bookmark, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return social.Bookmark{}, err
	}
	b, err := s.bookmarks.AddBookmark(ctx, social.Bookmark{UserID: userID, RecipeID: recipeID})
	if err != nil {
		return social.Bookmark{}, apperrors.Internal("failed to save bookmark", err)
	}
	return b, nil
}

// Unbookmark removes the saved recipe.
func (s *Service) Unbookmark(ctx context.Context, userID, recipeID string) error {
	if err := s.bookmarks.RemoveBookmark(ctx, userID, recipeID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("bookmark not found")
		}
		return apperrors.Internal("failed to remove bookmark", err)
	}
	return nil
}

// ListBookmarks returns a page of the user's saved recipes with the total.
func (s *Service) ListBookmarks(ctx context.Context, userID string, p validation.Pagination) ([]social.Bookmark, int, error) {
	list, total, err := s.bookmarks.ListBookmarks(ctx, userID, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookmarks", err)
	}
	return list, total, nil
}

func (s *Service) requireRecipe(ctx context.Context, recipeID string) error {
	if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("recipe not found")
		}
		return apperrors.Internal("failed to look up recipe", err)
	}
	return nil
}

func (s *Service) getComment(ctx context.Context, commentID string) (social.Comment, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return social.Comment{}, apperrors.NotFound("comment not found")
		}
		return social.Comment{}, apperrors.Internal("failed to look up comment", err)
	}
	return c, nil
}
