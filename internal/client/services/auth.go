package services

import (
	"context"
	"fmt"

	"github.com/foliotrack/folio/internal/client/credentials"
	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/logging"
)

// AuthService defines the session operations of the client.
//
// Contract:
//   - Login/Register: authenticate against the backend and persist the
//     returned token pair before returning the decoded user.
//   - Logout: best-effort remote logout; the local credential pair is always
//     cleared, a failing remote call never blocks local logout.
//   - RefreshCurrentUser: the stored session's profile, or (nil, nil) when
//     not signed in or the profile is not currently resolvable.
//   - IsSignedIn: cheap local check for a stored access token. It does not
//     validate token freshness; only a real request establishes that.
//   - UpdateProfile/DeleteAccount: profile maintenance on /auth/me.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password string, displayName *string) (*models.User, error)
	Logout(ctx context.Context) error
	RefreshCurrentUser(ctx context.Context) (*models.User, error)
	IsSignedIn(ctx context.Context) bool
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error)
	DeleteAccount(ctx context.Context) error
}

// ProfileUpdate is a partial profile update. Omitted fields are left
// untouched server-side; explicit nulls clear them.
type ProfileUpdate struct {
	Email       models.Optional[string]
	DisplayName models.Optional[string]
	Password    models.Optional[string]
}

type authService struct {
	transport Transport
	creds     credentials.Store
	log       logging.Logger
}

// NewAuthService constructs an AuthService bound to the given transport and
// credential store.
func NewAuthService(transport Transport, creds credentials.Store, log logging.Logger) AuthService {
	return &authService{transport: transport, creds: creds, log: log.With("service", "auth")}
}

// authResponse is the wire shape of login/register responses: the token pair
// plus the account profile.
type authResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	User         models.User `json:"user"`
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := s.transport.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.persistPair(ctx, resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info(ctx, "signed in", "user_id", resp.User.ID)
	return &resp.User, nil
}

func (s *authService) Register(ctx context.Context, email, password string, displayName *string) (*models.User, error) {
	body := map[string]any{"email": email, "password": password}
	if displayName != nil {
		body["full_name"] = *displayName
	}

	var resp authResponse
	if err := s.transport.Post(ctx, "/auth/register", body, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := s.persistPair(ctx, resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info(ctx, "account registered", "user_id", resp.User.ID)
	return &resp.User, nil
}

// persistPair stores the token pair from an auth response. Both tokens must
// be present; they are written atomically.
func (s *authService) persistPair(ctx context.Context, resp authResponse) error {
	return s.creds.Save(ctx, credentials.Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.transport.Post(ctx, "/auth/logout", nil, nil); err != nil {
		// Remote logout is best-effort; the local session ends regardless.
		s.log.Warn(ctx, "remote logout failed", "error", err.Error())
	}
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "signed out")
	return nil
}

func (s *authService) RefreshCurrentUser(ctx context.Context) (*models.User, error) {
	if !s.IsSignedIn(ctx) {
		return nil, nil
	}

	var user models.User
	if err := s.transport.Get(ctx, "/auth/me", nil, &user); err != nil {
		// Not currently resolvable is not a hard error here.
		s.log.Debug(ctx, "current user not resolvable", "error", err.Error())
		return nil, nil
	}
	return &user, nil
}

func (s *authService) IsSignedIn(ctx context.Context) bool {
	token, err := credentials.AccessToken(ctx, s.creds)
	if err != nil {
		s.log.Warn(ctx, "credential store read failed", "error", err.Error())
		return false
	}
	return token != ""
}

func (s *authService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	payload := map[string]any{}
	update.Email.Put(payload, "email")
	update.DisplayName.Put(payload, "full_name")
	update.Password.Put(payload, "password")
	if len(payload) == 0 {
		return nil, ErrEmptyUpdate
	}

	var user models.User
	if err := s.transport.Put(ctx, "/auth/me", payload, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

func (s *authService) DeleteAccount(ctx context.Context) error {
	if err := s.transport.Delete(ctx, "/auth/me"); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info(ctx, "account deleted")
	return nil
}
