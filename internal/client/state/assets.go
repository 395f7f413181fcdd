package state

import (
	"context"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/client/services"
	"github.com/foliotrack/folio/internal/logging"
)

// AssetState mirrors the holdings of one portfolio. PortfolioID scopes the
// list; zero means no portfolio has been loaded yet.
type AssetState struct {
	PortfolioID int64
	Assets      []models.Asset
	IsLoading   bool
	Err         string
}

// AssetNotifier reconciles the holdings of the portfolio last loaded into
// it, with the same settle-order contract as PortfolioNotifier. A mutation
// scoped to a different portfolio than the loaded one still runs remotely
// but leaves the local list unchanged.
type AssetNotifier struct {
	*Notifier[AssetState]
	assets services.AssetService
	log    logging.Logger
}

func NewAssetNotifier(assets services.AssetService, log logging.Logger) *AssetNotifier {
	return &AssetNotifier{
		Notifier: NewNotifier(AssetState{}),
		assets:   assets,
		log:      log.With("notifier", "assets"),
	}
}

func (a *AssetNotifier) setLoading() {
	a.commit(func(s *AssetState) { s.IsLoading = true })
}

func (a *AssetNotifier) commitFailure(err error) {
	a.commit(func(s *AssetState) {
		s.IsLoading = false
		s.Err = err.Error()
	})
}

// Load fetches the holdings of portfolioID and replaces the list wholesale,
// rescoping the notifier to that portfolio.
func (a *AssetNotifier) Load(ctx context.Context, portfolioID int64) error {
	a.setLoading()

	list, err := a.assets.List(ctx, portfolioID)
	if err != nil {
		a.commitFailure(err)
		return err
	}

	a.commit(func(s *AssetState) {
		s.PortfolioID = portfolioID
		s.Assets = list
		s.IsLoading = false
		s.Err = ""
	})
	return nil
}

// Add creates a holding and, when it belongs to the loaded portfolio,
// appends it to the end of the list.
func (a *AssetNotifier) Add(ctx context.Context, portfolioID int64, symbol, name string, assetType models.AssetType) (*models.Asset, error) {
	a.setLoading()

	created, err := a.assets.Add(ctx, portfolioID, symbol, name, assetType)
	if err != nil {
		a.commitFailure(err)
		return nil, err
	}

	a.commit(func(s *AssetState) {
		if s.PortfolioID == portfolioID {
			list := make([]models.Asset, 0, len(s.Assets)+1)
			list = append(list, s.Assets...)
			list = append(list, *created)
			s.Assets = list
		}
		s.IsLoading = false
		s.Err = ""
	})
	return created, nil
}

// Update replaces the matching-id entry in place, preserving positions. An
// id not present locally leaves the list unchanged.
func (a *AssetNotifier) Update(ctx context.Context, portfolioID, assetID int64, update services.AssetUpdate) (*models.Asset, error) {
	a.setLoading()

	updated, err := a.assets.Update(ctx, portfolioID, assetID, update)
	if err != nil {
		a.commitFailure(err)
		return nil, err
	}

	a.commit(func(s *AssetState) {
		if s.PortfolioID == portfolioID {
			list := make([]models.Asset, len(s.Assets))
			copy(list, s.Assets)
			for i := range list {
				if list[i].ID == updated.ID {
					list[i] = *updated
					break
				}
			}
			s.Assets = list
		}
		s.IsLoading = false
		s.Err = ""
	})
	return updated, nil
}

// Remove deletes a holding and drops the matching-id entry from the list.
func (a *AssetNotifier) Remove(ctx context.Context, portfolioID, assetID int64) error {
	a.setLoading()

	if err := a.assets.Remove(ctx, portfolioID, assetID); err != nil {
		a.commitFailure(err)
		return err
	}

	a.commit(func(s *AssetState) {
		if s.PortfolioID == portfolioID {
			list := make([]models.Asset, 0, len(s.Assets))
			for _, entry := range s.Assets {
				if entry.ID != assetID {
					list = append(list, entry)
				}
			}
			s.Assets = list
		}
		s.IsLoading = false
		s.Err = ""
	})
	return nil
}

// Reset returns the notifier to its initial empty state (logout, portfolio
// switch).
func (a *AssetNotifier) Reset() {
	a.commit(func(s *AssetState) { *s = AssetState{} })
}
