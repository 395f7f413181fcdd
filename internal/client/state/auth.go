package state

import (
	"context"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/client/services"
	"github.com/foliotrack/folio/internal/logging"
)

// AuthState is the session view the UI renders from.
//
// Invariant: after every settled (non-loading) transition,
// IsAuthenticated == (User != nil).
type AuthState struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// AuthNotifier drives AuthState from AuthService results.
//
// Transitions: entering loading preserves the previous user and error until
// the operation settles; success clears the error and installs the new user;
// failure keeps the prior user/IsAuthenticated and records the error, so a
// failed login never silently authenticates.
type AuthNotifier struct {
	*Notifier[AuthState]
	auth services.AuthService
	log  logging.Logger
}

func NewAuthNotifier(auth services.AuthService, log logging.Logger) *AuthNotifier {
	return &AuthNotifier{
		Notifier: NewNotifier(AuthState{}),
		auth:     auth,
		log:      log.With("notifier", "auth"),
	}
}

func (a *AuthNotifier) setLoading() {
	a.commit(func(s *AuthState) { s.IsLoading = true })
}

func (a *AuthNotifier) commitUser(user *models.User) {
	a.commit(func(s *AuthState) {
		s.User = user
		s.IsAuthenticated = true
		s.IsLoading = false
		s.Err = ""
	})
}

func (a *AuthNotifier) commitFailure(err error) {
	a.commit(func(s *AuthState) {
		s.IsLoading = false
		s.Err = err.Error()
	})
}

// Login authenticates and commits the resulting session state. The error is
// both recorded in state and returned, so the view can react immediately.
func (a *AuthNotifier) Login(ctx context.Context, email, password string) error {
	a.setLoading()

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.commitFailure(err)
		return err
	}
	a.commitUser(user)
	return nil
}

// Register creates an account and signs in, with login's state contract.
func (a *AuthNotifier) Register(ctx context.Context, email, password string, displayName *string) error {
	a.setLoading()

	user, err := a.auth.Register(ctx, email, password, displayName)
	if err != nil {
		a.commitFailure(err)
		return err
	}
	a.commitUser(user)
	return nil
}

// Logout resets to the initial signed-out state once the service call
// settles, regardless of the remote outcome.
func (a *AuthNotifier) Logout(ctx context.Context) error {
	a.setLoading()

	err := a.auth.Logout(ctx)
	a.commit(func(s *AuthState) { *s = AuthState{} })
	return err
}

// Restore resolves the stored session's profile at startup: signed in when a
// profile could be fetched, signed out otherwise. It never fails; an
// unreachable backend simply leaves the session signed out.
func (a *AuthNotifier) Restore(ctx context.Context) {
	a.setLoading()

	user, err := a.auth.RefreshCurrentUser(ctx)
	if err != nil || user == nil {
		a.commit(func(s *AuthState) { *s = AuthState{} })
		return
	}
	a.commitUser(user)
}
