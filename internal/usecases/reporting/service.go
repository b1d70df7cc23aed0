package reporting

import (
	"context"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type DispatchRequest struct {
	Client      *domain.Client
	Period      string
	IncludeLink bool
	Now         time.Time
}

type DispatchResult struct {
	ClientID    string                `json:"client_id"`
	Payload     *domain.ReportPayload `json:"payload"`
	DeliveredAt time.Time             `json:"delivered_at"`
}

type Service struct {
	cfg        *config.Config
	clientRepo repository.ClientRepository
	aggregator MetricsAggregator
	notifier   Notifier
	now        func() time.Time
}

func NewService(
	cfg *config.Config,
	clientRepo repository.ClientRepository,
	aggregator MetricsAggregator,
	notifier Notifier,
) *Service {
	return &Service{
		cfg:        cfg,
		clientRepo: clientRepo,
		aggregator: aggregator,
		notifier:   notifier,
		now:        time.Now,
	}
}

// WithClock substitui o relógio usado pelos envios manuais
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	client := req.Client
	if err := checkDeliverable(client); err != nil {
		return nil, err
	}

	period, err := ResolvePeriod(req.Period, req.Now)
	if err != nil {
		return nil, NewReportError(err, client.ID, "período da agenda inválido")
	}

	return s.deliver(ctx, client, period, req.IncludeLink, req.Now)
}

func (s *Service) SendNow(ctx context.Context, clientID string, periodToken string, includeLink bool) (*DispatchResult, error) {
	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := checkDeliverable(client); err != nil {
		return nil, err
	}

	now := s.now()
	period, err := ResolveManualPeriod(periodToken, now)
	if err != nil {
		return nil, NewReportError(err, client.ID, "período informado inválido")
	}

	return s.deliver(ctx, client, period, includeLink, now)
}

func (s *Service) Preview(ctx context.Context, clientID string, periodToken string) (*domain.ReportPayload, error) {
	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if !client.HasAdAccount() {
		return nil, NewReportError(domain.ErrNotConfigured, client.ID, "cliente sem conta de anúncios")
	}

	now := s.now()
	period, err := ResolveManualPeriod(periodToken, now)
	if err != nil {
		return nil, NewReportError(err, client.ID, "período informado inválido")
	}

	current, previous, err := s.aggregatePair(ctx, client, period)
	if err != nil {
		return nil, err
	}

	link := ResolveDeepLink(true, client, s.cfg.ReportDispatch.DashboardBaseURL)
	return Render(client, current, previous, period, link, now), nil
}

func (s *Service) deliver(ctx context.Context, client *domain.Client, period *ResolvedPeriod, includeLink bool, now time.Time) (*DispatchResult, error) {
	current, previous, err := s.aggregatePair(ctx, client, period)
	if err != nil {
		return nil, err
	}

	link := ResolveDeepLink(includeLink, client, s.cfg.ReportDispatch.DashboardBaseURL)
	payload := Render(client, current, previous, period, link, now)

	if err := s.notifier.Deliver(ctx, client.WebhookURL, payload); err != nil {
		return nil, NewReportError(err, client.ID, "falha ao entregar relatório no webhook")
	}

	logrus.WithFields(logrus.Fields{
		"client_id":   client.ID,
		"client_name": client.Name,
		"period":      period.Token,
		"since":       period.Current.SinceDate(),
		"until":       period.Current.UntilDate(),
		"breaches":    len(payload.Breaches),
	}).Info("reports: relatório entregue com sucesso")

	return &DispatchResult{
		ClientID:    client.ID,
		Payload:     payload,
		DeliveredAt: time.Now(),
	}, nil
}

// aggregatePair busca os dois períodos em paralelo. Qualquer falha aborta o despacho.
func (s *Service) aggregatePair(ctx context.Context, client *domain.Client, period *ResolvedPeriod) (*domain.MetricsSummary, *domain.MetricsSummary, error) {
	var current, previous *domain.MetricsSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.aggregator.Aggregate(gctx, client.AdAccountID, period.Current)
		if err != nil {
			return err
		}
		current = summary
		return nil
	})
	g.Go(func() error {
		summary, err := s.aggregator.Aggregate(gctx, client.AdAccountID, period.Previous)
		if err != nil {
			return err
		}
		previous = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, NewReportError(err, client.ID, "falha ao obter métricas da plataforma de anúncios")
	}

	return current, previous, nil
}

func (s *Service) loadClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.GetClient(ctx, clientID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err.Error(),
		}).Error("reports: erro ao buscar cliente")
		return nil, err
	}

	if client == nil {
		return nil, NewReportError(domain.ErrClientNotFound, clientID, "cliente não encontrado")
	}

	return client, nil
}

// checkDeliverable valida se o cliente tem webhook e conta de anúncios
func checkDeliverable(client *domain.Client) error {
	if client == nil {
		return NewReportError(domain.ErrClientNotFound, "", "cliente ausente")
	}

	if !client.HasWebhook() {
		return NewReportError(domain.ErrNotConfigured, client.ID, "cliente sem webhook configurado")
	}

	if !client.HasAdAccount() {
		return NewReportError(domain.ErrNotConfigured, client.ID, "cliente sem conta de anúncios")
	}

	return nil
}
