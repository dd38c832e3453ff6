package domain

import (
	"context"
	"time"
)

// SecureStore is the durable key-value store holding the session record.
// Implementations can be in-memory, file-based, or the OS keychain.
// Get returns ErrNotFound when the key is absent.
type SecureStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AuthBackend authenticates users against the remote service.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, name, email, password string) (*User, error)
}

// RecipeBackend is the remote recipe service. All synthesis and
// persistence happens behind it.
type RecipeBackend interface {
	GenerateRecipe(ctx context.Context, form IngredientsForm, user User) (*Recipe, error)
	ConsultChef(ctx context.Context, prefs Preferences) ([]Suggestion, error)
	GenerateSelection(ctx context.Context, title string, prefs Preferences, user User) (*Recipe, error)
	ToggleSave(ctx context.Context, userID string, recipe *Recipe) (bool, error)
	ListRecipes(ctx context.Context, userID string) ([]RecipeSummary, error)
	GenerateStepVideo(ctx context.Context, req StepVideoRequest) (string, error)
}

// Catalog provides the built-in home feed content.
type Catalog interface {
	Community(ctx context.Context) ([]RecipeSummary, error)
	Tips(ctx context.Context) ([]ChefTip, error)
}

// Navigator receives navigation signals (e.g. "go to the signed-in area").
type Navigator interface {
	Navigate(route Route)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or a terminal UI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Clock tells the time. Swap for a fake in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
