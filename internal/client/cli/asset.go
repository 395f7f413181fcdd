package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/client/services"
)

// resolvePortfolioID picks the portfolio a holding command applies to: an
// explicit id argument wins, otherwise the current selection.
func (a *App) resolvePortfolioID(args []string) (int64, bool) {
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Invalid id %q\n", args[0])
			return 0, false
		}
		return id, true
	}
	selected := a.session.Portfolio.State().Selected
	if selected == nil {
		fmt.Println("No portfolio selected, 'select' one or pass an id")
		return 0, false
	}
	return selected.ID, true
}

// Assets lists the holdings of a portfolio. Without an argument it uses the
// current selection.
func (a *App) Assets(ctx context.Context, args []string) error {
	portfolioID, ok := a.resolvePortfolioID(args)
	if !ok {
		return nil
	}

	if err := a.session.Assets.Load(ctx, portfolioID); err != nil {
		fmt.Println("Load failed:", err)
		return err
	}

	st := a.session.Assets.State()
	if len(st.Assets) == 0 {
		fmt.Println("No holdings yet, try 'addasset'")
		return nil
	}

	for _, asset := range st.Assets {
		price := "-"
		if asset.CurrentPrice != nil {
			price = asset.CurrentPrice.StringFixed(2)
		}
		fmt.Printf("%4d  %-8s %-20s %-6s price %s\n",
			asset.ID, asset.Symbol, asset.Name, asset.AssetType, price)
	}
	return nil
}

// AddAsset prompts for a holding and adds it to the selected portfolio.
func (a *App) AddAsset(ctx context.Context) error {
	portfolioID, ok := a.resolvePortfolioID(nil)
	if !ok {
		return nil
	}

	symbol, err := getSimpleText(a.reader, "Enter symbol", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	rawType, err := getSimpleText(a.reader, "Enter type (stock, crypto, etf, other)", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.session.Assets.Add(ctx, portfolioID, symbol, name, models.AssetType(rawType))
	if err != nil {
		fmt.Println("Add failed:", err)
		return err
	}

	fmt.Printf("Added %s (asset %d)\n", created.Symbol, created.ID)
	return nil
}

// UpdateAsset prompts for the fields to change on a holding of the selected
// portfolio. Skipped fields stay as they are.
func (a *App) UpdateAsset(ctx context.Context, args []string) error {
	assetID, err := parseID(args, "updateasset")
	if err != nil {
		return err
	}
	portfolioID, ok := a.resolvePortfolioID(nil)
	if !ok {
		return nil
	}

	var update services.AssetUpdate

	if symbol, ok, err := getOptionalText(a.reader, "New symbol", os.Stdout); err != nil {
		return err
	} else if ok {
		update.Symbol = models.Some(symbol)
	}

	if name, ok, err := getOptionalText(a.reader, "New name", os.Stdout); err != nil {
		return err
	} else if ok {
		update.Name = models.Some(name)
	}

	if rawType, ok, err := getOptionalText(a.reader, "New type (stock, crypto, etf, other)", os.Stdout); err != nil {
		return err
	} else if ok {
		update.AssetType = models.Some(models.AssetType(rawType))
	}

	updated, err := a.session.Assets.Update(ctx, portfolioID, assetID, update)
	if err != nil {
		fmt.Println("Update failed:", err)
		return err
	}

	fmt.Printf("Updated %s (asset %d)\n", updated.Symbol, updated.ID)
	return nil
}

// RemoveAsset removes a holding from the selected portfolio.
func (a *App) RemoveAsset(ctx context.Context, args []string) error {
	assetID, err := parseID(args, "removeasset")
	if err != nil {
		return err
	}
	portfolioID, ok := a.resolvePortfolioID(nil)
	if !ok {
		return nil
	}

	if err := a.session.Assets.Remove(ctx, portfolioID, assetID); err != nil {
		fmt.Println("Remove failed:", err)
		return err
	}

	fmt.Printf("Removed asset %d\n", assetID)
	return nil
}
