package app

import (
	"github.com/recipe-room/recipe-room/internal/app/services/accounts"
	groupsvc "github.com/recipe-room/recipe-room/internal/app/services/groups"
	paymentsvc "github.com/recipe-room/recipe-room/internal/app/services/payments"
	recipesvc "github.com/recipe-room/recipe-room/internal/app/services/recipes"
	socialsvc "github.com/recipe-room/recipe-room/internal/app/services/social"
	"github.com/recipe-room/recipe-room/internal/app/storage"
	"github.com/recipe-room/recipe-room/internal/app/storage/memory"
	"github.com/recipe-room/recipe-room/internal/auth"
	"github.com/recipe-room/recipe-room/internal/imagestore"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users     storage.UserStore
	Recipes   storage.RecipeStore
	Groups    storage.GroupStore
	Comments  storage.CommentStore
	Ratings   storage.RatingStore
	Bookmarks storage.BookmarkStore
	Payments  storage.PaymentStore
}

// Dependencies carries the external collaborators the services need.
type Dependencies struct {
	Tokens  *auth.Manager
	Images  *imagestore.Client
	Gateway paymentsvc.Gateway
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Accounts *accounts.Service
	Recipes  *recipesvc.Service
	Groups   *groupsvc.Service
	Social   *socialsvc.Service
	Payments *paymentsvc.Service
}

// New builds a fully initialised application with the provided stores and
// collaborators.
func New(stores Stores, deps Dependencies, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Recipes == nil {
		stores.Recipes = mem
	}
	if stores.Groups == nil {
		stores.Groups = mem
	}
	if stores.Comments == nil {
		stores.Comments = mem
	}
	if stores.Ratings == nil {
		stores.Ratings = mem
	}
	if stores.Bookmarks == nil {
		stores.Bookmarks = mem
	}
	if stores.Payments == nil {
		stores.Payments = mem
	}

	return &Application{
		log:      log,
		Accounts: accounts.New(stores.Users, deps.Tokens, deps.Images, log.WithField("service", "accounts")),
		Recipes:  recipesvc.New(stores.Recipes, stores.Groups, deps.Images, log.WithField("service", "recipes")),
		Groups:   groupsvc.New(stores.Groups, stores.Users, stores.Recipes, log.WithField("service", "groups")),
		Social:   socialsvc.New(stores.Comments, stores.Ratings, stores.Bookmarks, stores.Recipes, log.WithField("service", "social")),
		Payments: paymentsvc.New(stores.Payments, deps.Gateway, log.WithField("service", "payments")),
	}
}
