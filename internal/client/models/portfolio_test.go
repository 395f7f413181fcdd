package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPortfolio_DecodeWireFormat(t *testing.T) {
	raw := `{
		"id": 7,
		"name": "Retirement",
		"description": "long horizon",
		"user_id": 3,
		"total_value": 12500.50,
		"total_cost": 10000,
		"profit_loss": 2500.50,
		"profit_loss_percentage": 25.005,
		"created_at": "2026-01-15T10:30:00Z",
		"updated_at": "2026-02-01T08:00:00Z"
	}`

	var p Portfolio
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	require.Equal(t, int64(7), p.ID)
	require.Equal(t, "Retirement", p.Name)
	require.NotNil(t, p.Description)
	require.Equal(t, "long horizon", *p.Description)
	require.Equal(t, int64(3), p.OwnerID)
	require.True(t, p.TotalValue.Equal(decimal.RequireFromString("12500.50")))
	require.True(t, p.TotalCost.Equal(decimal.NewFromInt(10000)))
	// profit_loss = total_value - total_cost is a backend guarantee; the
	// decoded values must satisfy it without local recomputation.
	require.True(t, p.ProfitLoss.Equal(p.TotalValue.Sub(p.TotalCost)))
}

func TestPortfolio_DecodeMissingOptionalFields(t *testing.T) {
	raw := `{"id":1,"name":"A","user_id":2,"total_value":0,"total_cost":0,
		"profit_loss":0,"profit_loss_percentage":0,
		"created_at":"2026-01-15T10:30:00Z","updated_at":"2026-01-15T10:30:00Z"}`

	var p Portfolio
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Nil(t, p.Description)
}

func TestPortfolioSummary_Decode(t *testing.T) {
	raw := `{
		"id": 7,
		"name": "Retirement",
		"user_id": 3,
		"total_value": 1100,
		"total_cost": 1000,
		"profit_loss": 100,
		"profit_loss_percentage": 10,
		"created_at": "2026-01-15T10:30:00Z",
		"updated_at": "2026-02-01T08:00:00Z",
		"daily_change": -12.5,
		"daily_change_percentage": -1.12,
		"assets": [
			{
				"symbol": "VWCE",
				"name": "Vanguard FTSE All-World",
				"asset_type": "etf",
				"total_quantity": 10,
				"total_cost": 1000,
				"total_value": 1100,
				"current_price": 110,
				"average_purchase_price": 100
			}
		]
	}`

	var s PortfolioSummary
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	require.Equal(t, "Retirement", s.Name)
	require.True(t, s.DailyChange.IsNegative())
	require.Len(t, s.Assets, 1)
	require.Equal(t, "VWCE", s.Assets[0].Symbol)
	require.NotNil(t, s.Assets[0].CurrentPrice)
	require.True(t, s.Assets[0].CurrentPrice.Equal(decimal.NewFromInt(110)))
}
