package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/recipe-room/recipe-room/internal/app/domain/group"
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/domain/user"
	"github.com/recipe-room/recipe-room/internal/app/storage"
)

func TestMapErr(t *testing.T) {
	if mapErr(nil) != nil {
		t.Fatal("nil should map to nil")
	}
	if !errors.Is(mapErr(sql.ErrNoRows), storage.ErrNotFound) {
		t.Fatal("sql.ErrNoRows should map to ErrNotFound")
	}
	if !errors.Is(mapErr(&pq.Error{Code: "23505"}), storage.ErrDuplicate) {
		t.Fatal("unique violation should map to ErrDuplicate")
	}
	other := errors.New("boom")
	if mapErr(other) != other {
		t.Fatal("unrelated errors should pass through")
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	store := New(db)
	_, err = store.CreateUser(context.Background(), user.User{Username: "alice", Email: "alice@example.com"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetRecipeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT .* FROM recipes").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	store := New(db)
	_, err = store.GetRecipe(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGroupCommitsOwnerMembershipAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO groups")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO group_memberships")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := New(db)
	g, err := store.CreateGroup(context.Background(),
		group.Group{OwnerID: "u1", Name: "Bakers", MaxMembers: group.DefaultMaxMembers},
		group.Membership{UserID: "u1", Role: group.RoleOwner, AddedBy: "u1"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if !g.Active {
		t.Fatal("new group should be active")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateGroupRollsBackOnMembershipFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO groups")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO group_memberships")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	store := New(db)
	_, err = store.CreateGroup(context.Background(),
		group.Group{OwnerID: "u1", Name: "Bakers"},
		group.Membership{UserID: "u1", Role: group.RoleOwner})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRecipeSoftDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE recipes SET deleted = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := New(db)
	if err := store.DeleteRecipe(context.Background(), "r1"); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := New(db)

	ctx := context.Background()
	owner, err := store.CreateUser(ctx, user.User{Username: "it-user", Email: "it-user@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	r, err := store.CreateRecipe(ctx, recipe.Recipe{
		OwnerID:      owner.ID,
		Title:        "Integration Stew",
		Ingredients:  []recipe.Ingredient{{Name: "Water", Quantity: "1l"}},
		Procedure:    []recipe.Step{{Number: 1, Instruction: "Boil the water."}},
		PeopleServed: 2,
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	if _, err := store.GetRecipe(ctx, r.ID); err != nil {
		t.Fatalf("get recipe: %v", err)
	}
}
