package state

import (
	"context"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/client/services"
	"github.com/foliotrack/folio/internal/logging"
)

// PortfolioState mirrors the backend's portfolio records in memory.
//
// Portfolios is insertion-ordered and unique by id; the client never
// resorts it. When Selected is present its id exists in Portfolios, except
// for the transient window inside a delete, which clears both together.
type PortfolioState struct {
	Portfolios []models.Portfolio
	Selected   *models.Portfolio
	IsLoading  bool
	Err        string
}

// PortfolioNotifier reconciles the local collection after each settled
// service call. State only advances after the network round trip completes:
// there is no local-only insert ahead of server confirmation, trading
// perceived latency for always-consistent memory state.
//
// Mutations land in settle order, not issue order. Overlapping operations
// converge; no intermediate ordering is promised.
type PortfolioNotifier struct {
	*Notifier[PortfolioState]
	portfolios services.PortfolioService
	log        logging.Logger
}

func NewPortfolioNotifier(portfolios services.PortfolioService, log logging.Logger) *PortfolioNotifier {
	return &PortfolioNotifier{
		Notifier:   NewNotifier(PortfolioState{}),
		portfolios: portfolios,
		log:        log.With("notifier", "portfolio"),
	}
}

func (p *PortfolioNotifier) setLoading() {
	p.commit(func(s *PortfolioState) { s.IsLoading = true })
}

// commitFailure records the error; the list is left unchanged. Callers also
// receive the error directly (dual-channel) so the view can roll back any
// rendering it did optimistically.
func (p *PortfolioNotifier) commitFailure(err error) {
	p.commit(func(s *PortfolioState) {
		s.IsLoading = false
		s.Err = err.Error()
	})
}

// Load fetches the full list and replaces Portfolios wholesale. The previous
// selection survives only if its id exists in the new list (refreshed to the
// new value); a vanished selection is actively cleared.
func (p *PortfolioNotifier) Load(ctx context.Context) error {
	p.setLoading()

	list, err := p.portfolios.List(ctx)
	if err != nil {
		p.commitFailure(err)
		return err
	}

	p.commit(func(s *PortfolioState) {
		s.Portfolios = list
		if s.Selected != nil {
			s.Selected = findByID(list, s.Selected.ID)
		}
		s.IsLoading = false
		s.Err = ""
	})
	return nil
}

// Create adds a portfolio and, on success, appends it to the end of the
// list. On failure the list is untouched, the error is stored and returned.
func (p *PortfolioNotifier) Create(ctx context.Context, name string, description *string) (*models.Portfolio, error) {
	p.setLoading()

	created, err := p.portfolios.Create(ctx, name, description)
	if err != nil {
		p.commitFailure(err)
		return nil, err
	}

	p.commit(func(s *PortfolioState) {
		list := make([]models.Portfolio, 0, len(s.Portfolios)+1)
		list = append(list, s.Portfolios...)
		list = append(list, *created)
		s.Portfolios = list
		s.IsLoading = false
		s.Err = ""
	})
	return created, nil
}

// Update replaces the matching-id entry in place, preserving every other
// entry's position. An id not present locally leaves the list unchanged.
// A selected entry that was updated has its selection refreshed.
func (p *PortfolioNotifier) Update(ctx context.Context, id int64, update services.PortfolioUpdate) (*models.Portfolio, error) {
	p.setLoading()

	updated, err := p.portfolios.Update(ctx, id, update)
	if err != nil {
		p.commitFailure(err)
		return nil, err
	}

	p.commit(func(s *PortfolioState) {
		list := make([]models.Portfolio, len(s.Portfolios))
		copy(list, s.Portfolios)
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = *updated
				break
			}
		}
		s.Portfolios = list
		if s.Selected != nil && s.Selected.ID == updated.ID {
			refreshed := *updated
			s.Selected = &refreshed
		}
		s.IsLoading = false
		s.Err = ""
	})
	return updated, nil
}

// Delete removes the matching-id entry; a matching selection is cleared in
// the same transaction.
func (p *PortfolioNotifier) Delete(ctx context.Context, id int64) error {
	p.setLoading()

	if err := p.portfolios.Delete(ctx, id); err != nil {
		p.commitFailure(err)
		return err
	}

	p.commit(func(s *PortfolioState) {
		list := make([]models.Portfolio, 0, len(s.Portfolios))
		for _, entry := range s.Portfolios {
			if entry.ID != id {
				list = append(list, entry)
			}
		}
		s.Portfolios = list
		if s.Selected != nil && s.Selected.ID == id {
			s.Selected = nil
		}
		s.IsLoading = false
		s.Err = ""
	})
	return nil
}

// Select marks a portfolio as the current one. Pure local transition.
func (p *PortfolioNotifier) Select(portfolio models.Portfolio) {
	p.commit(func(s *PortfolioState) {
		s.Selected = &portfolio
	})
}

// ClearSelection drops the current selection. Pure local transition.
func (p *PortfolioNotifier) ClearSelection() {
	p.commit(func(s *PortfolioState) {
		s.Selected = nil
	})
}

// Reset returns the notifier to its initial empty state (logout).
func (p *PortfolioNotifier) Reset() {
	p.commit(func(s *PortfolioState) { *s = PortfolioState{} })
}

func findByID(list []models.Portfolio, id int64) *models.Portfolio {
	for i := range list {
		if list[i].ID == id {
			found := list[i]
			return &found
		}
	}
	return nil
}
