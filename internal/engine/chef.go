package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

// ErrDiscarded is returned by Consult when ResetChef ran while the
// consultation was in flight.
var ErrDiscarded = errors.New("consultation discarded by reset")

const msgNoSuggestions = "the chef had no suggestions, try other preferences"

// chefFlow is the Du Chef state. Guarded by Engine.mu.
type chefFlow struct {
	state       domain.ChefState
	prefs       domain.Preferences
	suggestions []domain.Suggestion

	// selecting is the suggestion being generated, -1 when none. It is
	// the selection lock and survives ResetChef.
	selecting      int
	selectingTitle string

	// epoch increments on every reset so late results stop driving the
	// flow.
	epoch uint64
}

// Consult is phase one of Du Chef: it sends the preferences and stores
// the returned suggestions. The current recipe is not touched. A consult
// while another one, or a selection, is in flight returns ErrBusy.
func (e *Engine) Consult(ctx context.Context, prefs domain.Preferences) ([]domain.Suggestion, error) {
	prefs = prefs.Normalized()
	if err := e.check(prefs); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.chef.state == domain.ChefConsulting || e.chef.selecting >= 0 {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: the chef is still working", domain.ErrBusy)
	}
	prev := e.chef.state
	epoch := e.chef.epoch
	e.chef.state = domain.ChefConsulting
	e.mu.Unlock()

	e.log.Debug("consulting (mode=%s guests=%d budget=%s)", prefs.Mode, prefs.Guests, prefs.Budget)
	suggestions, err := e.backend.ConsultChef(ctx, prefs)
	if err == nil && len(suggestions) == 0 {
		err = domain.NewError(domain.KindGeneration, msgNoSuggestions, nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chef.epoch != epoch {
		return nil, ErrDiscarded
	}
	if err != nil {
		e.chef.state = prev
		e.log.Warn("consultation failed: %v", err)
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, generationFailure(err)
	}

	e.chef.state = domain.ChefSuggestionsReady
	e.chef.prefs = prefs
	e.chef.suggestions = suggestions
	e.log.Info("chef suggested %d dishes", len(suggestions))
	return append([]domain.Suggestion{}, suggestions...), nil
}

// Select is phase two of Du Chef: it generates the full recipe for the
// suggestion at index. It is allowed only once suggestions are ready.
// While a selection is in flight further calls do nothing and report
// started=false. On success the recipe becomes current and the flow
// returns to idle; on failure the suggestions stay available.
func (e *Engine) Select(ctx context.Context, index int) (started bool, err error) {
	e.mu.Lock()
	if e.chef.selecting >= 0 {
		busy := e.chef.selectingTitle
		e.mu.Unlock()
		e.log.Debug("select %d ignored: %q in flight", index+1, busy)
		return false, nil
	}
	if e.chef.state != domain.ChefSuggestionsReady {
		state := e.chef.state
		e.mu.Unlock()
		return false, fmt.Errorf("%w: no suggestions to pick from (chef is %s)", domain.ErrInvalidInput, state)
	}
	if index < 0 || index >= len(e.chef.suggestions) {
		n := len(e.chef.suggestions)
		e.mu.Unlock()
		return false, fmt.Errorf("%w: pick a suggestion between 1 and %d", domain.ErrInvalidInput, n)
	}

	pick := e.chef.suggestions[index]
	prefs := e.chef.prefs
	epoch := e.chef.epoch
	e.chef.selecting = index
	e.chef.selectingTitle = pick.Title
	e.chef.state = domain.ChefGeneratingSelection
	e.mu.Unlock()

	e.log.Info("generating selection %q", pick.Title)

	var r *domain.Recipe
	user, err := e.users.Resolve(ctx)
	if err == nil {
		r, err = e.backend.GenerateSelection(ctx, pick.Title, prefs, *user)
		if err != nil {
			e.log.Warn("selection %q failed: %v", pick.Title, err)
			err = generationFailure(err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.chef.selecting = -1
	e.chef.selectingTitle = ""
	if err == nil {
		e.current = r
	}
	if e.chef.epoch != epoch {
		return true, err
	}
	if err != nil {
		e.chef.state = domain.ChefSuggestionsReady
		return true, err
	}
	e.chef.state = domain.ChefIdle
	e.chef.suggestions = nil
	return true, nil
}

// ResetChef discards the suggestions and returns the flow to idle. A
// selection in flight is not canceled: it keeps the selection lock and
// still stores its recipe, but no longer moves the flow.
func (e *Engine) ResetChef() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chef.epoch++
	e.chef.state = domain.ChefIdle
	e.chef.prefs = domain.Preferences{}
	e.chef.suggestions = nil
}

// Suggestions returns a copy of the suggestions on offer.
func (e *Engine) Suggestions() []domain.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Suggestion{}, e.chef.suggestions...)
}

// ChefState returns the state of the Du Chef flow.
func (e *Engine) ChefState() domain.ChefState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chef.state
}
