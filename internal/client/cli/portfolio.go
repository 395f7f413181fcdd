package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/client/services"
)

// List prints the cached portfolio list after reloading it from the backend.
func (a *App) List(ctx context.Context) error {
	if err := a.session.Portfolio.Load(ctx); err != nil {
		fmt.Println("Load failed:", err)
		return err
	}

	st := a.session.Portfolio.State()
	if len(st.Portfolios) == 0 {
		fmt.Println("No portfolios yet, try 'create'")
		return nil
	}

	for _, p := range st.Portfolios {
		marker := " "
		if st.Selected != nil && st.Selected.ID == p.ID {
			marker = "*"
		}
		fmt.Printf("%s %4d  %-20s  value %s  p/l %s (%s%%)\n",
			marker, p.ID, p.Name, p.TotalValue.StringFixed(2),
			p.ProfitLoss.StringFixed(2), p.ProfitLossPercentage.StringFixed(2))
	}
	return nil
}

// Create prompts for a name and an optional description.
func (a *App) Create(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter portfolio name", os.Stdout)
	if err != nil {
		return err
	}

	var description *string
	if text, ok, err := getOptionalText(a.reader, "Enter description", os.Stdout); err != nil {
		return err
	} else if ok {
		description = &text
	}

	created, err := a.session.Portfolio.Create(ctx, name, description)
	if err != nil {
		fmt.Println("Create failed:", err)
		return err
	}

	fmt.Printf("Created portfolio %d (%s)\n", created.ID, created.Name)
	return nil
}

// Select marks a portfolio from the cached list as the current selection.
func (a *App) Select(ctx context.Context, args []string) error {
	id, err := parseID(args, "select")
	if err != nil {
		return err
	}

	for _, p := range a.session.Portfolio.State().Portfolios {
		if p.ID == id {
			a.session.Portfolio.Select(p)
			fmt.Printf("Selected %s\n", p.Name)
			return nil
		}
	}
	fmt.Printf("No portfolio %d in the list, try 'list' first\n", id)
	return nil
}

// Update prompts for the fields to change on an existing portfolio. Skipped
// fields stay as they are; entering "-" for the description clears it.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := parseID(args, "update")
	if err != nil {
		return err
	}

	var update services.PortfolioUpdate

	if name, ok, err := getOptionalText(a.reader, "New name", os.Stdout); err != nil {
		return err
	} else if ok {
		update.Name = models.Some(name)
	}

	if text, ok, err := getOptionalText(a.reader, "New description, '-' to clear", os.Stdout); err != nil {
		return err
	} else if ok {
		if text == "-" {
			update.Description = models.Null[string]()
		} else {
			update.Description = models.Some(text)
		}
	}

	updated, err := a.session.Portfolio.Update(ctx, id, update)
	if err != nil {
		fmt.Println("Update failed:", err)
		return err
	}

	fmt.Printf("Updated portfolio %d (%s)\n", updated.ID, updated.Name)
	return nil
}

// Delete removes a portfolio.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete")
	if err != nil {
		return err
	}

	if err := a.session.Portfolio.Delete(ctx, id); err != nil {
		fmt.Println("Delete failed:", err)
		return err
	}

	fmt.Printf("Deleted portfolio %d\n", id)
	return nil
}

// Summary prints a fresh valuation summary. Without an argument it uses the
// current selection.
func (a *App) Summary(ctx context.Context, args []string) error {
	var id int64
	if len(args) == 0 {
		selected := a.session.Portfolio.State().Selected
		if selected == nil {
			fmt.Println("Usage: summary <id> (or 'select' a portfolio first)")
			return nil
		}
		id = selected.ID
	} else {
		var err error
		if id, err = parseID(args, "summary"); err != nil {
			return err
		}
	}

	s, err := a.session.PortfolioService.Summary(ctx, id)
	if err != nil {
		fmt.Println("Summary failed:", err)
		return err
	}

	fmt.Printf("%s: value %s, cost %s, p/l %s (%s%%), day %s (%s%%)\n",
		s.Name, s.TotalValue.StringFixed(2), s.TotalCost.StringFixed(2),
		s.ProfitLoss.StringFixed(2), s.ProfitLossPercentage.StringFixed(2),
		s.DailyChange.StringFixed(2), s.DailyChangePercentage.StringFixed(2))

	for _, asset := range s.Assets {
		fmt.Printf("  %-8s %-20s qty %s  value %s\n",
			asset.Symbol, asset.Name, asset.Quantity.String(), asset.TotalValue.StringFixed(2))
	}
	return nil
}

func parseID(args []string, cmd string) (int64, error) {
	if len(args) == 0 {
		fmt.Printf("Usage: %s <id>\n", cmd)
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid id %q\n", args[0])
		return 0, err
	}
	return id, nil
}
