package models

import "github.com/shopspring/decimal"

// AssetType is the backend's asset classification enum.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeETF    AssetType = "etf"
	AssetTypeOther  AssetType = "other"
)

// Valid reports whether t is one of the backend's accepted classifications.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeStock, AssetTypeCrypto, AssetTypeETF, AssetTypeOther:
		return true
	}
	return false
}

// Asset mirrors one holding record inside a portfolio. CurrentPrice is the
// backend's market quote and may be absent when no quote is available.
type Asset struct {
	ID           int64            `json:"id"`
	PortfolioID  int64            `json:"portfolio_id"`
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	AssetType    AssetType        `json:"asset_type"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
}
