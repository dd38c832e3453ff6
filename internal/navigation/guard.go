// Package navigation decides which top-level area of the client is
// showing. It hydrates the session once at startup and afterwards follows
// the navigation signals of the session manager.
package navigation

import (
	"context"
	"sync"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Sessions is the part of the session manager the guard needs.
type Sessions interface {
	Hydrate(ctx context.Context) *domain.User
	User() *domain.User
}

// RouteListener is called after the route changes.
type RouteListener func(from, to domain.Route)

// Guard tracks the current route. It implements domain.Navigator.
type Guard struct {
	log *logger.Logger

	mu        sync.Mutex
	route     domain.Route
	started   bool
	listeners []RouteListener
}

var _ domain.Navigator = (*Guard)(nil)

// NewGuard creates a guard on the loading route.
func NewGuard(log *logger.Logger) *Guard {
	return &Guard{log: log, route: domain.RouteLoading}
}

// OnChange registers fn for route changes.
func (g *Guard) OnChange(fn RouteListener) {
	g.mu.Lock()
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
}

// Start hydrates the session and routes by user presence. Only the first
// call hydrates; later calls just return the current route.
func (g *Guard) Start(ctx context.Context, sessions Sessions) domain.Route {
	g.mu.Lock()
	if g.started {
		r := g.route
		g.mu.Unlock()
		return r
	}
	g.started = true
	g.mu.Unlock()

	u := sessions.Hydrate(ctx)
	return g.set(routeFor(u))
}

// Sync re-derives the route from user presence alone.
func (g *Guard) Sync(sessions Sessions) domain.Route {
	return g.set(routeFor(sessions.User()))
}

// Navigate moves to route. Called by the session manager on sign in and
// sign out.
func (g *Guard) Navigate(route domain.Route) {
	g.set(route)
}

// Route returns the current route.
func (g *Guard) Route() domain.Route {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.route
}

func (g *Guard) set(to domain.Route) domain.Route {
	g.mu.Lock()
	from := g.route
	if from == to {
		g.mu.Unlock()
		return to
	}
	g.route = to
	fns := append([]RouteListener(nil), g.listeners...)
	g.mu.Unlock()

	g.log.Debug("route %s -> %s", from, to)
	for _, fn := range fns {
		fn(from, to)
	}
	return to
}

func routeFor(u *domain.User) domain.Route {
	if u.Valid() {
		return domain.RouteSignedIn
	}
	return domain.RouteSignedOut
}
