// Package migrations creates the database schema. Statements are idempotent
// so Apply can run on every startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		profile_image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,

	`CREATE TABLE IF NOT EXISTS recipes (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL REFERENCES users (id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		ingredients JSONB NOT NULL DEFAULT '[]',
		procedure JSONB NOT NULL DEFAULT '[]',
		people_served INT NOT NULL,
		prep_time INT NOT NULL DEFAULT 0,
		cook_time INT NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		image_public_id TEXT NOT NULL DEFAULT '',
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_edit_history (
		id UUID PRIMARY KEY,
		recipe_id UUID NOT NULL REFERENCES recipes (id),
		user_id UUID NOT NULL,
		action TEXT NOT NULL,
		changes JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS groups (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL REFERENCES users (id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		max_members INT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS group_memberships (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL REFERENCES groups (id),
		user_id UUID NOT NULL REFERENCES users (id),
		role TEXT NOT NULL,
		added_by UUID NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT group_memberships_member_key UNIQUE (group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS group_recipe_links (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL REFERENCES groups (id),
		recipe_id UUID NOT NULL REFERENCES recipes (id),
		added_by UUID NOT NULL,
		linked_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT group_recipe_links_link_key UNIQUE (group_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		recipe_id UUID NOT NULL REFERENCES recipes (id),
		user_id UUID NOT NULL REFERENCES users (id),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		id UUID PRIMARY KEY,
		recipe_id UUID NOT NULL REFERENCES recipes (id),
		user_id UUID NOT NULL REFERENCES users (id),
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT ratings_user_recipe_key UNIQUE (user_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS bookmarks (
		id UUID PRIMARY KEY,
		recipe_id UUID NOT NULL REFERENCES recipes (id),
		user_id UUID NOT NULL REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT bookmarks_user_recipe_key UNIQUE (user_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users (id),
		amount NUMERIC(12,2) NOT NULL,
		currency TEXT NOT NULL,
		gateway_transaction_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// Apply executes every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
