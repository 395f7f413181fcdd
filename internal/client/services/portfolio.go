package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/logging"
)

// PortfolioService is the CRUD mapping over the transport for portfolio
// records, with domain decoding.
type PortfolioService interface {
	List(ctx context.Context) ([]models.Portfolio, error)
	Get(ctx context.Context, id int64) (*models.Portfolio, error)
	Create(ctx context.Context, name string, description *string) (*models.Portfolio, error)
	Update(ctx context.Context, id int64, update PortfolioUpdate) (*models.Portfolio, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, id int64) (*models.PortfolioSummary, error)
}

// PortfolioUpdate is a partial update: only fields taking part are sent.
// Description distinguishes "leave as is" (omitted) from "clear" (null).
type PortfolioUpdate struct {
	Name        models.Optional[string]
	Description models.Optional[string]
}

type portfolioService struct {
	transport Transport
	log       logging.Logger
}

func NewPortfolioService(transport Transport, log logging.Logger) PortfolioService {
	return &portfolioService{transport: transport, log: log.With("service", "portfolio")}
}

func (s *portfolioService) List(ctx context.Context) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.transport.Get(ctx, "/portfolio", nil, &portfolios); err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	return portfolios, nil
}

func (s *portfolioService) Get(ctx context.Context, id int64) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := s.transport.Get(ctx, fmt.Sprintf("/portfolio/%d", id), nil, &p); err != nil {
		return nil, fmt.Errorf("get portfolio %d: %w", id, err)
	}
	return &p, nil
}

func (s *portfolioService) Create(ctx context.Context, name string, description *string) (*models.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	body := map[string]any{"name": name}
	if description != nil {
		body["description"] = *description
	}

	var p models.Portfolio
	if err := s.transport.Post(ctx, "/portfolio", body, &p); err != nil {
		return nil, fmt.Errorf("create portfolio: %w", err)
	}
	s.log.Info(ctx, "portfolio created", "portfolio_id", p.ID)
	return &p, nil
}

func (s *portfolioService) Update(ctx context.Context, id int64, update PortfolioUpdate) (*models.Portfolio, error) {
	payload := map[string]any{}
	update.Name.Put(payload, "name")
	update.Description.Put(payload, "description")
	if len(payload) == 0 {
		return nil, ErrEmptyUpdate
	}

	var p models.Portfolio
	if err := s.transport.Put(ctx, fmt.Sprintf("/portfolio/%d", id), payload, &p); err != nil {
		return nil, fmt.Errorf("update portfolio %d: %w", id, err)
	}
	return &p, nil
}

func (s *portfolioService) Delete(ctx context.Context, id int64) error {
	if err := s.transport.Delete(ctx, fmt.Sprintf("/portfolio/%d", id)); err != nil {
		return fmt.Errorf("delete portfolio %d: %w", id, err)
	}
	s.log.Info(ctx, "portfolio deleted", "portfolio_id", id)
	return nil
}

func (s *portfolioService) Summary(ctx context.Context, id int64) (*models.PortfolioSummary, error) {
	var summary models.PortfolioSummary
	if err := s.transport.Get(ctx, fmt.Sprintf("/portfolio/%d/summary", id), nil, &summary); err != nil {
		return nil, fmt.Errorf("portfolio %d summary: %w", id, err)
	}
	return &summary, nil
}
