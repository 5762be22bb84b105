// Package accounts implements registration, login and profile management.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipe-room/recipe-room/internal/app/domain/user"
	"github.com/recipe-room/recipe-room/internal/app/storage"
	"github.com/recipe-room/recipe-room/internal/auth"
	apperrors "github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/internal/imagestore"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 80
	passwordMinLen = 8
)

// Service manages user accounts.
type Service struct {
	users  storage.UserStore
	tokens *auth.Manager
	images *imagestore.Client
	log    *logger.Logger
}

// New creates the accounts service. images may be nil when no media service
// is configured.
func New(users storage.UserStore, tokens *auth.Manager, images *imagestore.Client, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	return &Service{users: users, tokens: tokens, images: images, log: log}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (user.Public, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return user.Public{}, apperrors.ValidationFailed(
			fmt.Sprintf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen))
	}
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return user.Public{}, apperrors.ValidationFailed("invalid email address")
	}
	if len(password) < passwordMinLen {
		return user.Public{}, apperrors.ValidationFailed(
			fmt.Sprintf("password must be at least %d characters", passwordMinLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.Public{}, apperrors.Internal("hash password", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return user.Public{}, apperrors.Conflict("username or email already taken")
		}
		return user.Public{}, apperrors.Internal("create user", err)
	}

	s.log.Infof("user %s registered", created.ID)
	return created.ToPublic(), nil
}

// Login verifies credentials against either username or email and returns a
// signed access token.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, user.Public, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", user.Public{}, apperrors.ValidationFailed("username and password are required")
	}

	u, err := s.users.GetUserByUsername(ctx, identifier)
	if err != nil {
		u, err = s.users.GetUserByEmail(ctx, identifier)
	}
	if err != nil {
		// Same response as a wrong password so login probes cannot tell
		// which credential was wrong.
		return "", user.Public{}, apperrors.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", user.Public{}, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.IssueToken(u.ID, u.Username)
	if err != nil {
		return "", user.Public{}, apperrors.Internal("issue token", err)
	}

	s.log.Infof("user %s logged in", u.ID)
	return token, u.ToPublic(), nil
}

// Get returns the public view of a user.
func (s *Service) Get(ctx context.Context, id string) (user.Public, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.Public{}, apperrors.NotFound("user not found")
		}
		return user.Public{}, apperrors.Internal("get user", err)
	}
	return u.ToPublic(), nil
}

// ProfileUpdate is the typed patch for a user's own profile. Nil fields stay
// unchanged.
type ProfileUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Image    *string `json:"image"`
}

// UpdateProfile applies a patch to the caller's own account. Image upload
// failures are logged and skipped; the remaining fields still apply.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (user.Public, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.Public{}, apperrors.NotFound("user not found")
		}
		return user.Public{}, apperrors.Internal("get user", err)
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if len(username) < usernameMinLen || len(username) > usernameMaxLen {
			return user.Public{}, apperrors.ValidationFailed(
				fmt.Sprintf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen))
		}
		u.Username = username
	}
	if patch.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*patch.Email))
		if !strings.Contains(email, "@") {
			return user.Public{}, apperrors.ValidationFailed("invalid email address")
		}
		u.Email = email
	}
	if patch.Password != nil {
		if len(*patch.Password) < passwordMinLen {
			return user.Public{}, apperrors.ValidationFailed(
				fmt.Sprintf("password must be at least %d characters", passwordMinLen))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.Public{}, apperrors.Internal("hash password", err)
		}
		u.PasswordHash = string(hash)
	}
	if patch.Image != nil && s.images != nil {
		img, err := s.images.Upload(ctx, *patch.Image)
		if err != nil {
			s.log.WithError(err).Warnf("profile image upload failed for user %s", userID)
		} else {
			u.ProfileImageURL = img.URL
		}
	}

	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return user.Public{}, apperrors.Conflict("username or email already taken")
		}
		return user.Public{}, apperrors.Internal("update user", err)
	}
	return updated.ToPublic(), nil
}

// Delete removes the caller's account. Accounts with live recipes, comments
// or owned groups are blocked until that content is removed first.
func (s *Service) Delete(ctx context.Context, userID string) error {
	dependents, err := s.users.CountUserDependents(ctx, userID)
	if err != nil {
		return apperrors.Internal("count dependents", err)
	}
	if dependents > 0 {
		return apperrors.Conflict("account still has recipes, comments or groups; remove them first").
			WithDetails("dependents", dependents)
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal("delete user", err)
	}

	s.log.Infof("user %s deleted", userID)
	return nil
}
