// Package session assembles the client data layer: credential store, HTTP
// transport, domain services and state notifiers, wired from a single
// Config. A Session is the one object a UI embeds.
package session

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/foliotrack/folio/internal/client/api"
	"github.com/foliotrack/folio/internal/client/config"
	"github.com/foliotrack/folio/internal/client/credentials"
	"github.com/foliotrack/folio/internal/client/services"
	"github.com/foliotrack/folio/internal/client/state"
	"github.com/foliotrack/folio/internal/logging"
)

// Session owns the assembled data layer. Auth and Portfolio are the
// observable surfaces a view subscribes to; Services remain reachable for
// callers that need request/response semantics without state tracking.
type Session struct {
	Auth      *state.AuthNotifier
	Portfolio *state.PortfolioNotifier
	Assets    *state.AssetNotifier

	AuthService      services.AuthService
	PortfolioService services.PortfolioService
	AssetService     services.AssetService

	creds credentials.Store
	db    *sql.DB
	log   logging.Logger
}

// New wires a Session from cfg. A non-empty CredentialsDSN persists the
// credential pair in sqlite so the session survives restarts; an empty DSN
// keeps it in memory for the lifetime of the process.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Session, error) {
	var (
		store credentials.Store
		db    *sql.DB
	)
	if cfg.CredentialsDSN != "" {
		var err error
		db, err = credentials.OpenDatabase(ctx, cfg.CredentialsDSN)
		if err != nil {
			return nil, err
		}
		store = credentials.NewSQLiteStore(db)
	} else {
		store = credentials.NewMemoryStore()
	}

	client := api.New(cfg.APIBaseURL, store,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithLogger(log),
	)

	auth := services.NewAuthService(client, store, log)
	portfolios := services.NewPortfolioService(client, log)
	assets := services.NewAssetService(client, log)

	return &Session{
		Auth:             state.NewAuthNotifier(auth, log),
		Portfolio:        state.NewPortfolioNotifier(portfolios, log),
		Assets:           state.NewAssetNotifier(assets, log),
		AuthService:      auth,
		PortfolioService: portfolios,
		AssetService:     assets,
		creds:            store,
		db:               db,
		log:              log,
	}, nil
}

// Restore resolves any stored credential into a signed-in state at startup.
func (s *Session) Restore(ctx context.Context) {
	s.Auth.Restore(ctx)
}

// Logout signs out and resets all observable state. Portfolio data belongs
// to the signed-in account, so it never survives a logout.
func (s *Session) Logout(ctx context.Context) error {
	err := s.Auth.Logout(ctx)
	s.Portfolio.Reset()
	s.Assets.Reset()
	return err
}

// Close releases the notifiers and the credentials database. Listeners
// receive no events after Close returns.
func (s *Session) Close() error {
	s.Auth.Close()
	s.Portfolio.Close()
	s.Assets.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
