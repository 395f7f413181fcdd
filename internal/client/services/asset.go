package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/logging"
)

// AssetService manages the holdings of a portfolio. All paths are scoped
// under the owning portfolio; the backend rejects an asset id that does not
// belong to it.
type AssetService interface {
	List(ctx context.Context, portfolioID int64) ([]models.Asset, error)
	Add(ctx context.Context, portfolioID int64, symbol, name string, assetType models.AssetType) (*models.Asset, error)
	Update(ctx context.Context, portfolioID, assetID int64, update AssetUpdate) (*models.Asset, error)
	Remove(ctx context.Context, portfolioID, assetID int64) error
}

// AssetUpdate is a partial update: only fields taking part are sent.
type AssetUpdate struct {
	Symbol    models.Optional[string]
	Name      models.Optional[string]
	AssetType models.Optional[models.AssetType]
}

type assetService struct {
	transport Transport
	log       logging.Logger
}

func NewAssetService(transport Transport, log logging.Logger) AssetService {
	return &assetService{transport: transport, log: log.With("service", "asset")}
}

func (s *assetService) List(ctx context.Context, portfolioID int64) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.transport.Get(ctx, fmt.Sprintf("/portfolio/%d/assets", portfolioID), nil, &assets); err != nil {
		return nil, fmt.Errorf("list portfolio %d assets: %w", portfolioID, err)
	}
	return assets, nil
}

func (s *assetService) Add(ctx context.Context, portfolioID int64, symbol, name string, assetType models.AssetType) (*models.Asset, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, ErrSymbolRequired
	}
	if !assetType.Valid() {
		return nil, ErrInvalidAssetType
	}

	body := map[string]any{
		"symbol":     symbol,
		"name":       name,
		"asset_type": assetType,
	}

	var a models.Asset
	if err := s.transport.Post(ctx, fmt.Sprintf("/portfolio/%d/assets", portfolioID), body, &a); err != nil {
		return nil, fmt.Errorf("add asset to portfolio %d: %w", portfolioID, err)
	}
	s.log.Info(ctx, "asset added", "portfolio_id", portfolioID, "asset_id", a.ID, "symbol", a.Symbol)
	return &a, nil
}

func (s *assetService) Update(ctx context.Context, portfolioID, assetID int64, update AssetUpdate) (*models.Asset, error) {
	payload := map[string]any{}
	update.Symbol.Put(payload, "symbol")
	update.Name.Put(payload, "name")
	update.AssetType.Put(payload, "asset_type")
	if len(payload) == 0 {
		return nil, ErrEmptyUpdate
	}
	if update.AssetType.IsSet() {
		if v, _ := update.AssetType.Value(); !v.Valid() {
			return nil, ErrInvalidAssetType
		}
	}

	var a models.Asset
	if err := s.transport.Put(ctx, fmt.Sprintf("/portfolio/%d/assets/%d", portfolioID, assetID), payload, &a); err != nil {
		return nil, fmt.Errorf("update asset %d in portfolio %d: %w", assetID, portfolioID, err)
	}
	return &a, nil
}

func (s *assetService) Remove(ctx context.Context, portfolioID, assetID int64) error {
	if err := s.transport.Delete(ctx, fmt.Sprintf("/portfolio/%d/assets/%d", portfolioID, assetID)); err != nil {
		return fmt.Errorf("remove asset %d from portfolio %d: %w", assetID, portfolioID, err)
	}
	s.log.Info(ctx, "asset removed", "portfolio_id", portfolioID, "asset_id", assetID)
	return nil
}
