// Package httpapi exposes the application services as a REST API.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	app "github.com/recipe-room/recipe-room/internal/app"
	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/social"
	"github.com/recipe-room/recipe-room/internal/app/metrics"
	"github.com/recipe-room/recipe-room/internal/app/services/accounts"
	groupsvc "github.com/recipe-room/recipe-room/internal/app/services/groups"
	paymentsvc "github.com/recipe-room/recipe-room/internal/app/services/payments"
	"github.com/recipe-room/recipe-room/internal/app/services/recipes"
	"github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/internal/middleware"
	"github.com/recipe-room/recipe-room/internal/validation"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a router exposing the REST API. Routes under /api are
// authenticated through authMW; public reads accept an optional token. The
// limiter runs after authentication so authenticated traffic is throttled
// per user rather than per remote address; a nil limiter disables it.
func NewHandler(application *app.Application, authMW *middleware.AuthMiddleware, limiter *middleware.RateLimiter) http.Handler {
	h := &handler{app: application}

	limit := func(r *mux.Router) {
		if limiter != nil {
			r.Use(limiter.Handler)
		}
	}

	root := mux.NewRouter()
	root.HandleFunc("/health", h.health).Methods(http.MethodGet)
	root.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := root.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	limit(public)
	public.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	public.HandleFunc("/payments/webhook", h.paymentWebhook).Methods(http.MethodPost)

	browse := api.NewRoute().Subrouter()
	browse.Use(authMW.OptionalHandler)
	limit(browse)
	browse.HandleFunc("/recipes", h.listRecipes).Methods(http.MethodGet)
	browse.HandleFunc("/recipes/{id}", h.getRecipe).Methods(http.MethodGet)
	browse.HandleFunc("/recipes/{id}/comments", h.listComments).Methods(http.MethodGet)
	browse.HandleFunc("/recipes/{id}/rating", h.ratingSummary).Methods(http.MethodGet)

	priv := api.NewRoute().Subrouter()
	priv.Use(authMW.Handler)
	limit(priv)

	priv.HandleFunc("/users/me", h.currentUser).Methods(http.MethodGet)
	priv.HandleFunc("/users/me", h.updateProfile).Methods(http.MethodPatch)
	priv.HandleFunc("/users/me", h.deleteAccount).Methods(http.MethodDelete)

	priv.HandleFunc("/recipes", h.createRecipe).Methods(http.MethodPost)
	priv.HandleFunc("/recipes/{id}", h.updateRecipe).Methods(http.MethodPatch)
	priv.HandleFunc("/recipes/{id}", h.deleteRecipe).Methods(http.MethodDelete)
	priv.HandleFunc("/recipes/{id}/history", h.recipeHistory).Methods(http.MethodGet)

	priv.HandleFunc("/recipes/{id}/comments", h.addComment).Methods(http.MethodPost)
	priv.HandleFunc("/comments/{id}", h.updateComment).Methods(http.MethodPatch)
	priv.HandleFunc("/comments/{id}", h.deleteComment).Methods(http.MethodDelete)

	priv.HandleFunc("/recipes/{id}/rating", h.rateRecipe).Methods(http.MethodPut)
	priv.HandleFunc("/recipes/{id}/rating", h.deleteRating).Methods(http.MethodDelete)

	priv.HandleFunc("/recipes/{id}/bookmark", h.addBookmark).Methods(http.MethodPut)
	priv.HandleFunc("/recipes/{id}/bookmark", h.removeBookmark).Methods(http.MethodDelete)
	priv.HandleFunc("/bookmarks", h.listBookmarks).Methods(http.MethodGet)

	priv.HandleFunc("/groups", h.createGroup).Methods(http.MethodPost)
	priv.HandleFunc("/groups", h.listGroups).Methods(http.MethodGet)
	priv.HandleFunc("/groups/{id}", h.getGroup).Methods(http.MethodGet)
	priv.HandleFunc("/groups/{id}", h.updateGroup).Methods(http.MethodPatch)
	priv.HandleFunc("/groups/{id}", h.deleteGroup).Methods(http.MethodDelete)
	priv.HandleFunc("/groups/{id}/members", h.listMembers).Methods(http.MethodGet)
	priv.HandleFunc("/groups/{id}/members", h.addMember).Methods(http.MethodPost)
	priv.HandleFunc("/groups/{id}/members/{userID}", h.removeMember).Methods(http.MethodDelete)
	priv.HandleFunc("/groups/{id}/recipes", h.listGroupRecipes).Methods(http.MethodGet)
	priv.HandleFunc("/groups/{id}/recipes", h.linkRecipe).Methods(http.MethodPost)
	priv.HandleFunc("/groups/{id}/recipes/{recipeID}", h.unlinkRecipe).Methods(http.MethodDelete)

	priv.HandleFunc("/payments", h.initiatePayment).Methods(http.MethodPost)
	priv.HandleFunc("/payments", h.listPayments).Methods(http.MethodGet)
	priv.HandleFunc("/payments/{id}", h.getPayment).Methods(http.MethodGet)
	priv.HandleFunc("/payments/{id}/refresh", h.refreshPayment).Methods(http.MethodPost)

	return root
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Auth -----------------------------------------------------------------------

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	u, err := h.app.Accounts.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	token, u, err := h.app.Accounts.Login(r.Context(), payload.Identifier, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": u})
}

// Users ----------------------------------------------------------------------

func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.app.Accounts.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch accounts.ProfileUpdate
	if err := decodeJSON(r.Body, &patch); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	u, err := h.app.Accounts.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Accounts.Delete(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recipes --------------------------------------------------------------------

type recipeRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Country      string              `json:"country"`
	Ingredients  []recipe.Ingredient `json:"ingredients"`
	Procedure    []recipe.Step       `json:"procedure"`
	PeopleServed int                 `json:"people_served"`
	PrepTime     int                 `json:"prep_time"`
	CookTime     int                 `json:"cook_time"`
	Image        string              `json:"image"`
}

func (h *handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	var payload recipeRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	created, err := h.app.Recipes.Create(r.Context(), middleware.GetUserID(r.Context()), validation.RecipePayload{
		Title:        payload.Title,
		Description:  payload.Description,
		Country:      payload.Country,
		Ingredients:  payload.Ingredients,
		Procedure:    payload.Procedure,
		PeopleServed: payload.PeopleServed,
		PrepTime:     payload.PrepTime,
		CookTime:     payload.CookTime,
	}, payload.Image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := validation.ParsePagination(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	filter := recipes.ListFilter{
		OwnerID:    q.Get("owner_id"),
		Country:    q.Get("country"),
		Search:     q.Get("search"),
		Ingredient: q.Get("ingredient"),
	}
	if q.Get("mine") == "true" {
		filter.OwnerID = middleware.GetUserID(r.Context())
	}
	if raw := q.Get("min_rating"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, errors.ValidationFailed("min_rating must be a number"))
			return
		}
		filter.MinRating = min
	}
	list, total, err := h.app.Recipes.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, list, page, total)
}

func (h *handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := h.app.Recipes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) updateRecipe(w http.ResponseWriter, r *http.Request) {
	var patch recipe.Update
	if err := decodeJSON(r.Body, &patch); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	updated, err := h.app.Recipes.Update(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Recipes.Delete(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) recipeHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.app.Recipes.History(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Comments -------------------------------------------------------------------

func (h *handler) addComment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	c, err := h.app.Social.AddComment(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handler) listComments(w http.ResponseWriter, r *http.Request) {
	page, err := validation.ParsePagination(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	list, total, err := h.app.Social.ListComments(r.Context(), mux.Vars(r)["id"], page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, list, page, total)
}

func (h *handler) updateComment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	c, err := h.app.Social.UpdateComment(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Social.DeleteComment(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ratings --------------------------------------------------------------------

func (h *handler) rateRecipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Rating int `json:"rating"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	rating, err := h.app.Social.RateRecipe(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], payload.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (h *handler) deleteRating(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Social.DeleteRating(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) ratingSummary(w http.ResponseWriter, r *http.Request) {
	recipeID := mux.Vars(r)["id"]
	summary, err := h.app.Social.RatingSummary(r.Context(), recipeID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := struct {
		social.RatingSummary
		UserRating *int `json:"user_rating,omitempty"`
	}{RatingSummary: summary}
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		if own, err := h.app.Social.UserRating(r.Context(), userID, recipeID); err == nil {
			resp.UserRating = &own.Value
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Bookmarks ------------------------------------------------------------------

func (h *handler) addBookmark(w http.ResponseWriter, r *http.Request) {
	b, err := h.app.Social.Bookmark(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) removeBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Social.Unbookmark(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	page, err := validation.ParsePagination(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	list, total, err := h.app.Social.ListBookmarks(r.Context(), middleware.GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, list, page, total)
}

// Groups ---------------------------------------------------------------------

func (h *handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var payload groupsvc.CreateInput
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	g, err := h.app.Groups.Create(r.Context(), middleware.GetUserID(r.Context()), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *handler) listGroups(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Groups.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.app.Groups.Get(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	var patch group.Update
	if err := decodeJSON(r.Body, &patch); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	g, err := h.app.Groups.Update(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Groups.Delete(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.app.Groups.ListMembers(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *handler) addMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	m, err := h.app.Groups.AddMember(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], payload.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *handler) removeMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.app.Groups.RemoveMember(r.Context(), middleware.GetUserID(r.Context()), vars["id"], vars["userID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listGroupRecipes(w http.ResponseWriter, r *http.Request) {
	links, err := h.app.Groups.ListRecipeLinks(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *handler) linkRecipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RecipeID string `json:"recipe_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	l, err := h.app.Groups.LinkRecipe(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], payload.RecipeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *handler) unlinkRecipe(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.app.Groups.UnlinkRecipe(r.Context(), middleware.GetUserID(r.Context()), vars["id"], vars["recipeID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Payments -------------------------------------------------------------------

func (h *handler) initiatePayment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	res, err := h.app.Payments.Initiate(r.Context(), middleware.GetUserID(r.Context()), payload.Amount, payload.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) listPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Payments.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.app.Payments.Get(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) refreshPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.app.Payments.Refresh(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	var ev paymentsvc.WebhookEvent
	if err := decodeJSON(r.Body, &ev); err != nil {
		writeError(w, errors.ValidationFailed(err.Error()))
		return
	}
	if err := h.app.Payments.HandleWebhook(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// Helpers --------------------------------------------------------------------

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writePage wraps a list response with pagination metadata.
func writePage(w http.ResponseWriter, data interface{}, p validation.Pagination, total int) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"page": validation.NewPageInfo(p, total),
	})
}

func writeError(w http.ResponseWriter, err error) {
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = errors.Internal("request failed", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(serviceErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    serviceErr.Code,
			"message": serviceErr.Message,
			"details": serviceErr.Details,
		},
	})
}
