package store

import (
	"context"
	"errors"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and let services depend
// on exactly the slice of storage they need.
type Store interface {
	Users() Users
	Ingredients() Ingredients
	Recipes() Recipes
	Pantry() Pantry

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back on error and
	// committing on nil. Preferred over Tx for multi-step writes (e.g.
	// recipe create with its ingredient lines).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// GetByEmail is used during login.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user and returns the generated id.
	// Returns ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u domain.User) (int64, error)
}

type Ingredients interface {
	// GetByName does a case-normalized lookup.
	GetByName(ctx context.Context, name string) (domain.Ingredient, error)

	// Create inserts a new ingredient and returns the generated id.
	Create(ctx context.Context, name string) (int64, error)
}

// SortOrder is a whitelisted column plus direction; drivers translate it to
// SQL. An empty Field means driver default ordering.
type SortOrder struct {
	Field string
	Desc  bool
}

type RecipeFilter struct {
	OwnerID    *int64
	TitleQuery string // case-insensitive substring on title
	MaxTime    *int   // max cook time in minutes
	Ingredient string // case-insensitive substring on ingredient name
	Offset     int
	Limit      int
	Sort       SortOrder
}

type Recipes interface {
	// Create inserts the recipe row only (no ingredient lines) and returns
	// the generated id.
	Create(ctx context.Context, r domain.Recipe) (int64, error)

	// AddIngredient attaches an ingredient line to a recipe.
	AddIngredient(ctx context.Context, recipeID, ingredientID int64, quantity string) error

	// ClearIngredients removes all ingredient lines from a recipe. Used when
	// an update replaces the lines wholesale.
	ClearIngredients(ctx context.Context, recipeID int64) error

	// GetByID returns the recipe with its ingredient lines loaded.
	GetByID(ctx context.Context, id int64) (domain.Recipe, error)

	// Search returns one page of matches plus the total match count.
	Search(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error)

	// Update rewrites the mutable recipe fields (title, steps, cook time,
	// tags) and bumps updated_at.
	Update(ctx context.Context, r domain.Recipe) error

	// Delete removes the recipe; ingredient lines cascade.
	Delete(ctx context.Context, id int64) error
}

type PantryFilter struct {
	UserID     int64
	Ingredient string // case-insensitive substring on ingredient name
	ExpFrom    *time.Time
	ExpTo      *time.Time
	Offset     int
	Limit      int
	Sort       SortOrder
}

type Pantry interface {
	// Create inserts a pantry item and returns the generated id.
	Create(ctx context.Context, item domain.PantryItem) (int64, error)

	// GetByID returns a single pantry item.
	GetByID(ctx context.Context, id int64) (domain.PantryItem, error)

	// List returns one page of a user's pantry plus the total match count.
	List(ctx context.Context, f PantryFilter) ([]domain.PantryItem, int64, error)

	// Update rewrites amount and expires_on and bumps updated_at.
	Update(ctx context.Context, item domain.PantryItem) error

	// Delete removes a pantry item.
	Delete(ctx context.Context, id int64) error

	// FindExpiring returns items whose expiry date falls in [from, to],
	// ordered by user then expiry date. Used by the expiry sweeper.
	FindExpiring(ctx context.Context, from, to time.Time) ([]domain.PantryItem, error)
}
