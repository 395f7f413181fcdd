// Package credentials persists the session's token pair. The transport reads
// and rotates the pair through the Store interface; everything else treats
// the tokens as opaque strings.
package credentials

import (
	"context"
	"errors"
)

var (
	// ErrIncompletePair is returned by Save when one of the two tokens is
	// empty. Tokens are only ever stored as a complete pair.
	ErrIncompletePair = errors.New("credentials: access and refresh token must be saved together")
)

// Credential is the persisted session credential: a short-lived access token
// plus the refresh token used to renew it.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// Store is the persistence boundary for the single session credential.
//
// Contract:
//   - Save persists both tokens atomically; a half-empty pair is rejected
//     with ErrIncompletePair. An intermediate state mixing an old access
//     token with a new refresh token must never be observable.
//   - Load returns the stored pair, or nil when nothing is stored.
//   - Clear removes the pair; clearing an empty store is not an error.
type Store interface {
	Save(ctx context.Context, c Credential) error
	Load(ctx context.Context) (*Credential, error)
	Clear(ctx context.Context) error
}

// AccessToken is a convenience read of the stored access token.
// Returns "" when no credential is stored.
func AccessToken(ctx context.Context, s Store) (string, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.AccessToken, nil
}
