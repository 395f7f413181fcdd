// Package services maps domain operations onto transport calls and
// encodes/decodes the backend wire schema. Services never touch notifier
// state; that is the state layer's job.
package services

import (
	"context"
	"errors"
	"net/url"
)

var (
	// ErrNameRequired is returned by portfolio creation when the name is
	// empty or blank.
	ErrNameRequired = errors.New("portfolio name is required")

	// ErrEmptyUpdate is returned when a partial update carries no fields.
	ErrEmptyUpdate = errors.New("update contains no fields")

	// ErrSymbolRequired is returned by asset creation when the symbol is
	// empty or blank.
	ErrSymbolRequired = errors.New("asset symbol is required")

	// ErrInvalidAssetType is returned when the asset type is not one the
	// backend accepts.
	ErrInvalidAssetType = errors.New("invalid asset type")
)

// Transport is the slice of the API client the services use. *api.Client
// satisfies it; tests substitute fakes.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
}
