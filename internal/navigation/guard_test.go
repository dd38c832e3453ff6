package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
	"github.com/hammamikhairi/lumiere/internal/session"
	"github.com/hammamikhairi/lumiere/internal/storage"
)

type stubAuth struct{ user *domain.User }

func (a stubAuth) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return a.user, nil
}

func (a stubAuth) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return a.user, nil
}

type countingSessions struct {
	user     *domain.User
	hydrates int
}

func (s *countingSessions) Hydrate(ctx context.Context) *domain.User {
	s.hydrates++
	return s.user
}

func (s *countingSessions) User() *domain.User { return s.user }

func TestStart(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		want domain.Route
	}{
		{"stored session", &domain.User{ID: "u1"}, domain.RouteSignedIn},
		{"no session", nil, domain.RouteSignedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(logger.Nop())
			if g.Route() != domain.RouteLoading {
				t.Fatalf("expected loading route, got %s", g.Route())
			}

			s := &countingSessions{user: tt.user}
			if got := g.Start(context.Background(), s); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
			g.Start(context.Background(), s)
			if s.hydrates != 1 {
				t.Fatalf("expected one hydration, got %d", s.hydrates)
			}
		})
	}
}

func TestSync(t *testing.T) {
	g := NewGuard(logger.Nop())
	s := &countingSessions{}
	g.Start(context.Background(), s)

	s.user = &domain.User{ID: "u1"}
	assert.Equal(t, domain.RouteSignedIn, g.Sync(s))
	s.user = nil
	assert.Equal(t, domain.RouteSignedOut, g.Sync(s))
}

func TestGuardFollowsSessionManager(t *testing.T) {
	log := logger.Nop()
	g := NewGuard(log)

	var changes [][2]domain.Route
	g.OnChange(func(from, to domain.Route) {
		changes = append(changes, [2]domain.Route{from, to})
	})

	m := session.New(storage.NewMemoryStore(log), stubAuth{user: &domain.User{ID: "u1", Name: "Ana"}}, log,
		session.WithNavigator(g))

	assert.Equal(t, domain.RouteSignedOut, g.Start(context.Background(), m))

	_, err := m.SignIn(context.Background(), "chef@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RouteSignedIn, g.Route())

	m.SignOut(context.Background())
	assert.Equal(t, domain.RouteSignedOut, g.Route())

	assert.Equal(t, [][2]domain.Route{
		{domain.RouteLoading, domain.RouteSignedOut},
		{domain.RouteSignedOut, domain.RouteSignedIn},
		{domain.RouteSignedIn, domain.RouteSignedOut},
	}, changes)
}
