// Package cli implements an interactive terminal front end over the client
// data layer. It exists to exercise the session end to end; a GUI would
// subscribe to the same notifiers instead of printing.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/foliotrack/folio/internal/client/config"
	"github.com/foliotrack/folio/internal/client/session"
	"github.com/foliotrack/folio/internal/client/state"
	"github.com/foliotrack/folio/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	session *session.Session
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	s, err := session.New(ctx, c, log)
	if err != nil {
		return nil, err
	}
	return &App{config: c, session: s, log: log, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.session.Close()

	// The REPL is the view layer: it observes both notifiers and reports
	// errors they commit, independent of which command caused them.
	unsubAuth := a.session.Auth.Subscribe(func(st state.AuthState) {
		a.log.Debug(ctx, "auth state changed",
			"authenticated", st.IsAuthenticated, "loading", st.IsLoading)
	})
	defer unsubAuth()

	unsubPortfolio := a.session.Portfolio.Subscribe(func(st state.PortfolioState) {
		a.log.Debug(ctx, "portfolio state changed",
			"count", len(st.Portfolios), "loading", st.IsLoading)
	})
	defer unsubPortfolio()

	a.session.Restore(ctx)
	if a.isLoggedIn() {
		fmt.Printf("Welcome back, %s\n", a.userLabel())
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Auth.State().IsAuthenticated
}

func (a *App) userLabel() string {
	st := a.session.Auth.State()
	if st.User == nil {
		return ""
	}
	if st.User.DisplayName != nil && *st.User.DisplayName != "" {
		return *st.User.DisplayName
	}
	return st.User.Email
}
