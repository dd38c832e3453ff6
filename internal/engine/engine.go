// Package engine implements the recipe workflow: direct generation from
// ingredients, the two-phase Du Chef flow, saving, the saved list and
// per-step videos. It depends only on interfaces and is fully testable
// with fakes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Resolver yields the acting user. The session manager implements it.
type Resolver interface {
	Resolve(ctx context.Context) (*domain.User, error)
}

// Option configures the engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c domain.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithCatalog sets the source of community recipes and tips for Home.
func WithCatalog(c domain.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

const msgIncomplete = "the recipe came back incomplete, try again"

// Engine coordinates recipe work for the signed-in user. All methods are
// safe for concurrent use; backend calls are made without holding the
// lock.
type Engine struct {
	backend  domain.RecipeBackend
	users    Resolver
	catalog  domain.Catalog
	clock    domain.Clock
	log      *logger.Logger
	validate *validator.Validate

	mu          sync.Mutex
	current     *domain.Recipe // replaced, never mutated in place
	saved       []domain.RecipeSummary
	generating  int // in-flight direct generations
	loadingList int // in-flight list fetches
	videoStep   int // -1 when idle

	chef chefFlow

	bg sync.WaitGroup
}

// New creates an engine with the given dependencies and options.
func New(backend domain.RecipeBackend, users Resolver, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		backend:   backend,
		users:     users,
		clock:     domain.SystemClock{},
		log:       log,
		validate:  newValidator(),
		saved:     []domain.RecipeSummary{},
		videoStep: -1,
		chef:      chefFlow{selecting: -1},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ── Direct generation ────────────────────────────────────────────

// GenerateFromIngredients validates the form and asks the backend for a
// recipe. The current recipe is cleared before the request; on success it
// becomes the new recipe. With several calls in flight the last one to
// complete wins.
func (e *Engine) GenerateFromIngredients(ctx context.Context, form domain.IngredientsForm) (*domain.Recipe, error) {
	form.Ingredients = strings.TrimSpace(form.Ingredients)
	form.Restrictions = strings.TrimSpace(form.Restrictions)
	if err := e.check(form); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.current = nil
	e.generating++
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.generating--
		e.mu.Unlock()
	}()

	user, err := e.users.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	start := e.clock.Now()
	r, err := e.backend.GenerateRecipe(ctx, form, *user)
	if err != nil {
		e.log.Warn("generate from %q failed: %v", form.Ingredients, err)
		return nil, generationFailure(err)
	}

	e.mu.Lock()
	e.current = r
	e.mu.Unlock()

	e.log.Info("generated %q in %s", r.Title, e.clock.Now().Sub(start).Round(time.Millisecond))
	return r.Clone(), nil
}

// generationFailure turns a backend failure into a Generation error with
// the most useful message available.
func generationFailure(err error) error {
	msg := ""
	if errors.Is(err, domain.ErrIncomplete) {
		msg = msgIncomplete
	}
	return domain.NewError(domain.KindGeneration, msg, err)
}

// ── Current recipe ───────────────────────────────────────────────

// Current returns a copy of the current recipe, or nil.
func (e *Engine) Current() *domain.Recipe {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// SetCurrent replaces the current recipe with a copy of r.
func (e *Engine) SetCurrent(r *domain.Recipe) {
	c := r.Clone()
	e.mu.Lock()
	e.current = c
	e.mu.Unlock()
}

// Clear empties the current recipe slot.
func (e *Engine) Clear() {
	e.SetCurrent(nil)
}

// OpenSaved makes the saved recipe at index the current recipe.
func (e *Engine) OpenSaved(index int) (*domain.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.saved) {
		return nil, fmt.Errorf("%w: no saved recipe #%d", domain.ErrInvalidInput, index+1)
	}
	e.current = e.saved[index].Recipe()
	return e.current.Clone(), nil
}

// ── Saving ───────────────────────────────────────────────────────

// ToggleSave adds the current recipe to the saved list, or removes it.
// It returns the resulting saved state as reported by the backend, and
// false when there is no recipe, no user, or the request fails. Whenever
// the backend answered, the saved list is refreshed in the background.
func (e *Engine) ToggleSave(ctx context.Context) bool {
	r := e.Current()
	if r == nil {
		e.log.Debug("toggle save: no current recipe")
		return false
	}
	user, err := e.users.Resolve(ctx)
	if err != nil {
		e.log.Debug("toggle save: %v", err)
		return false
	}

	saved, err := e.backend.ToggleSave(ctx, user.ID, r)
	if err == nil || domain.ResponseStatus(err) != 0 {
		e.refreshInBackground(ctx)
	}
	if err != nil {
		e.log.Warn("toggle save %q failed: %v", r.Title, err)
		return false
	}

	e.log.Info("%q saved=%t", r.Title, saved)
	return saved
}

func (e *Engine) refreshInBackground(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	e.bg.Add(1)
	go func() {
		defer e.bg.Done()
		if err := e.FetchSaved(ctx); err != nil {
			e.log.Debug("background refresh: %v", err)
		}
	}()
}

// Wait blocks until background work (saved-list refreshes) has finished.
func (e *Engine) Wait() {
	e.bg.Wait()
}

// FetchSaved reloads the saved list. Without a user nothing changes. The
// list is replaced on success and kept on failure.
func (e *Engine) FetchSaved(ctx context.Context) error {
	user, err := e.users.Resolve(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.loadingList++
	e.mu.Unlock()

	list, err := e.backend.ListRecipes(ctx, user.ID)

	e.mu.Lock()
	e.loadingList--
	if err == nil {
		e.saved = list
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("fetching saved recipes: %v", err)
		return domain.NewError(domain.KindNetwork, "", fmt.Errorf("fetching saved recipes: %w", err))
	}
	e.log.Debug("loaded %d saved recipes", len(list))
	return nil
}

// Saved returns a copy of the saved list.
func (e *Engine) Saved() []domain.RecipeSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.RecipeSummary{}, e.saved...)
}

// ── Step videos ──────────────────────────────────────────────────

// GenerateStepVideo asks the backend to film instruction step index of
// the current recipe. stepText defaults to the instruction itself. Only
// one step video can be in flight. On success exactly one entry is merged
// into the recipe's video map, provided the current recipe is still the
// one the video was requested for.
func (e *Engine) GenerateStepVideo(ctx context.Context, index int, stepText string) (string, error) {
	e.mu.Lock()
	r := e.current
	switch {
	case r == nil:
		e.mu.Unlock()
		return "", domain.ErrNoRecipe
	case e.videoStep >= 0:
		e.mu.Unlock()
		return "", fmt.Errorf("%w: step %d is already being filmed", domain.ErrBusy, e.videoStep+1)
	case index < 0 || index >= len(r.Instructions):
		e.mu.Unlock()
		return "", fmt.Errorf("%w: recipe has no step %d", domain.ErrInvalidInput, index+1)
	}
	if strings.TrimSpace(stepText) == "" {
		stepText = r.Instructions[index]
	}
	e.videoStep = index
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.videoStep = -1
		e.mu.Unlock()
	}()

	user, err := e.users.Resolve(ctx)
	if err != nil {
		return "", err
	}

	url, err := e.backend.GenerateStepVideo(ctx, domain.StepVideoRequest{
		StepText:    stepText,
		RecipeTitle: r.Title,
		UserID:      user.ID,
	})
	if err != nil {
		e.log.Warn("step video %d of %q failed: %v", index+1, r.Title, err)
		return "", domain.NewError(domain.KindGeneration, "", err)
	}
	if url == "" {
		e.log.Warn("step video %d of %q: backend returned no url", index+1, r.Title)
		return "", nil
	}

	e.mu.Lock()
	if e.current == r {
		e.current = r.WithStepVideo(index, url)
	} else {
		e.log.Debug("recipe changed while filming step %d, dropping video", index+1)
	}
	e.mu.Unlock()
	return url, nil
}

// ── Status ───────────────────────────────────────────────────────

// Activity returns a snapshot of in-flight work.
func (e *Engine) Activity() domain.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := domain.Activity{
		GeneratingRecipe: e.generating > 0,
		LoadingList:      e.loadingList > 0,
		ChefState:        e.chef.state,
		SelectingIndex:   e.chef.selecting,
		SelectingTitle:   e.chef.selectingTitle,
		VideoStep:        e.videoStep,
	}
	if e.current != nil {
		a.RecipeTitle = e.current.Title
	}
	return a
}
