package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lumiere/internal/api"
	"github.com/hammamikhairi/lumiere/internal/config"
	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/engine"
	"github.com/hammamikhairi/lumiere/internal/logger"
	"github.com/hammamikhairi/lumiere/internal/navigation"
	"github.com/hammamikhairi/lumiere/internal/recipe"
	"github.com/hammamikhairi/lumiere/internal/session"
	"github.com/hammamikhairi/lumiere/internal/storage"
)

// app holds the wired dependencies shared by every command. It is built
// once per invocation, before the command runs.
type app struct {
	out io.Writer

	cfg      *config.Config
	log      *logger.Logger
	closeLog func() error
	store    domain.SecureStore
	client   *api.Client
	guard    *navigation.Guard
	sessions *session.Manager
	engine   *engine.Engine
}

// setup loads the configuration and wires the client. The session is
// hydrated once through the route guard.
func (a *app) setup(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, ok := logger.ParseLevel(cfg.LogLevel)
	out, closeLog, logErr := logger.OpenOutput(cfg.LogFile)
	a.closeLog = closeLog
	a.log = logger.New(level, out)
	if logErr != nil {
		a.log.Warn("%v (falling back to stderr)", logErr)
	}
	if !ok {
		a.log.Warn("unknown log level %q, using normal", cfg.LogLevel)
	}

	a.store, err = openStore(cfg, a.log.Named("store"))
	if err != nil {
		return err
	}

	a.client = api.NewClient(cfg.APIURL, a.log.Named("api"),
		api.WithLocale(cfg.Locale),
		api.WithHTTPTimeout(cfg.Timeout),
	)
	a.guard = navigation.NewGuard(a.log.Named("guard"))
	a.sessions = session.New(a.store, a.client, a.log.Named("auth"), session.WithNavigator(a.guard))
	a.engine = engine.New(a.client, a.sessions, a.log.Named("recipes"),
		engine.WithCatalog(recipe.NewMemoryCatalog(domain.SystemClock{}, a.log.Named("catalog"))),
	)

	route := a.guard.Start(cmd.Context(), a.sessions)
	a.log.Debug("%s %s (api=%s, storage=%s, route=%s)", cmd.Root().Name(), cmd.Name(), cfg.APIURL, cfg.Storage, route)
	return nil
}

func openStore(cfg *config.Config, log *logger.Logger) (domain.SecureStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStore(log), nil
	case config.StorageKeyring:
		return storage.NewKeyringStore("", log), nil
	default:
		fs, err := storage.NewFileStore(cfg.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("opening session storage: %w", err)
		}
		log.Debug("session records in %s", fs.Dir())
		return fs, nil
	}
}

// shutdown drains background work and closes the log.
func (a *app) shutdown() {
	if a.engine != nil {
		a.engine.Wait()
	}
	if a.log != nil {
		a.log.Sync()
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// requireUser returns the signed-in user or an authentication error.
func (a *app) requireUser(ctx context.Context) (*domain.User, error) {
	if a.guard.Route() != domain.RouteSignedIn {
		return nil, domain.NewError(domain.KindAuthentication, "not signed in, run \"lumiere login\" first", nil)
	}
	return a.sessions.Resolve(ctx)
}
