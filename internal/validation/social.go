package validation

import (
	"fmt"
	"strings"

	"github.com/recipe-room/recipe-room/internal/errors"
)

const (
	CommentMinLen = 1
	CommentMaxLen = 1000

	RatingMin = 1
	RatingMax = 5
)

// ValidateComment checks comment content bounds. Length is measured on the
// trimmed text so whitespace-only comments are rejected.
func ValidateComment(content string) error {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < CommentMinLen {
		return errors.ValidationFailed("comment cannot be empty")
	}
	if len(trimmed) > CommentMaxLen {
		return errors.ValidationFailed(fmt.Sprintf("comment too long (max %d characters)", CommentMaxLen))
	}
	return nil
}

// ValidateRating checks a rating value is an integer in [1, 5].
func ValidateRating(value int) error {
	if value < RatingMin || value > RatingMax {
		return errors.ValidationFailed(fmt.Sprintf("rating must be between %d and %d", RatingMin, RatingMax))
	}
	return nil
}
