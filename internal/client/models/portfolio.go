package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio mirrors one backend portfolio record. The money aggregates are
// computed server-side; ProfitLoss = TotalValue - TotalCost is guaranteed by
// the backend and treated as authoritative, never recomputed here.
type Portfolio struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Description          *string         `json:"description,omitempty"`
	OwnerID              int64           `json:"user_id"`
	TotalValue           decimal.Decimal `json:"total_value"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// AssetSummary is one line of a portfolio summary's asset breakdown.
type AssetSummary struct {
	Symbol               string           `json:"symbol"`
	Name                 string           `json:"name"`
	AssetType            AssetType        `json:"asset_type"`
	Quantity             decimal.Decimal  `json:"total_quantity"`
	TotalCost            decimal.Decimal  `json:"total_cost"`
	TotalValue           decimal.Decimal  `json:"total_value"`
	CurrentPrice         *decimal.Decimal `json:"current_price,omitempty"`
	AveragePurchasePrice *decimal.Decimal `json:"average_purchase_price,omitempty"`
}

// PortfolioSummary is the read-only aggregate served by
// GET /portfolio/{id}/summary. It is always fetched fresh and never
// derived locally.
type PortfolioSummary struct {
	Portfolio
	DailyChange           decimal.Decimal `json:"daily_change"`
	DailyChangePercentage decimal.Decimal `json:"daily_change_percentage"`
	Assets                []AssetSummary  `json:"assets"`
}
