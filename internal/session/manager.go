// Package session owns the signed-in user: it restores the session record
// from secure storage, signs users in and out, and resolves the acting
// principal for operations that need one.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Fallback messages shown when the backend rejects a request without
// saying why.
const (
	MsgSignInFailed   = "sign in failed, check your credentials"
	MsgRegisterFailed = "could not create account"
	MsgNotSignedIn    = "you need to sign in first"
)

// Listener is called with a copy of the user whenever it changes. nil
// means signed out.
type Listener func(user *domain.User)

// Option configures the Manager.
type Option func(*Manager)

// WithNavigator sets where navigation signals are sent.
func WithNavigator(nav domain.Navigator) Option {
	return func(m *Manager) {
		if nav != nil {
			m.nav = nav
		}
	}
}

// Manager holds the current user. All methods are safe for concurrent use.
type Manager struct {
	store domain.SecureStore
	auth  domain.AuthBackend
	nav   domain.Navigator
	log   *logger.Logger

	mu        sync.RWMutex
	user      *domain.User
	loading   bool
	listeners map[int]Listener
	nextID    int
}

type nopNavigator struct{}

func (nopNavigator) Navigate(domain.Route) {}

// New creates a Manager. The manager starts in the loading state until
// the first Hydrate completes.
func New(store domain.SecureStore, auth domain.AuthBackend, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		auth:      auth,
		nav:       nopNavigator{},
		log:       log,
		loading:   true,
		listeners: make(map[int]Listener),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Hydrate restores the user from the session record. Every failure
// (missing record, unreadable storage, corrupt JSON, missing id) leaves
// the manager signed out. The loading flag is cleared in every case.
func (m *Manager) Hydrate(ctx context.Context) *domain.User {
	u := m.load(ctx)

	m.mu.Lock()
	m.user = u
	m.loading = false
	m.mu.Unlock()

	if u != nil {
		m.log.Debug("restored session for %s", u.ID)
	}
	m.notify(u)
	return u.Clone()
}

func (m *Manager) load(ctx context.Context) *domain.User {
	record, err := m.store.Get(ctx, domain.SessionKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			m.log.Warn("reading session record: %v", err)
		}
		return nil
	}
	u, err := domain.UnmarshalSession(record)
	if err != nil {
		m.log.Warn("discarding session record: %v", err)
		return nil
	}
	return u
}

// SignIn authenticates with email and password. On success the user is
// persisted, set, and the navigator is sent to the signed-in area. On
// failure the current user is left untouched.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	m.log.Debug("signing in %s", email)
	u, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, authFailure(err, MsgSignInFailed)
	}
	return m.establish(ctx, u, MsgSignInFailed)
}

// Register creates an account and signs the new user in.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	m.log.Debug("registering %s", email)
	u, err := m.auth.Register(ctx, name, email, password)
	if err != nil {
		return nil, authFailure(err, MsgRegisterFailed)
	}
	return m.establish(ctx, u, MsgRegisterFailed)
}

// authFailure classifies a backend error. A rejection (non-2xx) is an
// authentication failure carrying the backend's message; anything else
// is a network failure.
func authFailure(err error, fallback string) error {
	if domain.Rejected(err) {
		msg := domain.BackendMessage(err)
		if msg == "" {
			msg = fallback
		}
		return domain.NewError(domain.KindAuthentication, msg, err)
	}
	return domain.NewError(domain.KindNetwork, "", err)
}

func (m *Manager) establish(ctx context.Context, u *domain.User, fallback string) (*domain.User, error) {
	if !u.Valid() {
		return nil, domain.NewError(domain.KindAuthentication, fallback, nil)
	}
	u = u.Clone()

	record, err := domain.MarshalSession(u)
	if err == nil {
		err = m.store.Set(ctx, domain.SessionKey, record)
	}
	if err != nil {
		// The user is still signed in for this run.
		m.log.Warn("persisting session for %s: %v", u.ID, err)
	}

	m.mu.Lock()
	m.user = u
	m.loading = false
	m.mu.Unlock()

	m.log.Info("signed in as %s (%s)", u.Name, u.ID)
	m.notify(u)
	m.nav.Navigate(domain.RouteSignedIn)
	return u.Clone(), nil
}

// SignOut deletes the session record, clears the user and navigates to
// the signed-out area. A storage failure is logged; the user is cleared
// regardless.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.store.Delete(ctx, domain.SessionKey); err != nil {
		m.log.Warn("deleting session record: %v", err)
	}

	m.mu.Lock()
	prev := m.user
	m.user = nil
	m.mu.Unlock()

	if prev != nil {
		m.log.Info("signed out %s", prev.ID)
	}
	m.notify(nil)
	m.nav.Navigate(domain.RouteSignedOut)
}

// Resolve returns the acting user. If none is held in memory the session
// record is re-read exactly once; if that finds nothing either, an
// authentication error is returned.
func (m *Manager) Resolve(ctx context.Context) (*domain.User, error) {
	if u := m.User(); u != nil {
		return u, nil
	}
	m.log.Debug("no user in memory, rehydrating")
	if u := m.Hydrate(ctx); u != nil {
		return u, nil
	}
	return nil, domain.NewError(domain.KindAuthentication, MsgNotSignedIn, nil)
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

// Loading reports whether the first hydration is still pending.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Subscribe registers fn for user changes. The returned func removes it.
func (m *Manager) Subscribe(fn Listener) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(u *domain.User) {
	m.mu.RLock()
	fns := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(u.Clone())
	}
}
