// Package app composes the recipe-room backend: it wires domain services to
// their storage and external collaborators and exposes them to the HTTP layer.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct and service wiring
//	├── authz/              # Ownership and permission predicates
//	├── domain/             # Domain models (pure data structures)
//	│   ├── user/           # Accounts
//	│   ├── recipe/         # Recipes and edit history
//	│   ├── group/          # Groups, memberships, recipe links
//	│   ├── social/         # Comments, ratings, bookmarks
//	│   └── payment/        # Payment records
//	├── storage/            # Store interfaces and implementations
//	│   ├── interfaces.go   # UserStore, RecipeStore, GroupStore, ...
//	│   ├── memory/         # In-memory implementation for testing
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business logic, one package per aggregate
//	├── httpapi/            # REST handlers and routing
//	├── runtime/            # Process lifecycle: config, DB, HTTP server
//	└── metrics/            # Prometheus collectors
//
// Business rules live in internal/app/services; this package only assembles
// them. Handlers never reach around a service to touch a store directly.
package app
