package reporting

//go:generate mockgen -source=interfaces.go -destination=mocks/reporting_mock.go -package=mocks

import (
	"context"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
)

// MetricsAggregator consolida as métricas de uma conta de anúncios em um intervalo
type MetricsAggregator interface {
	Aggregate(ctx context.Context, accountID string, dateRange domain.DateRange) (*domain.MetricsSummary, error)
}

// Notifier entrega um relatório renderizado em um webhook. Não faz retentativas.
type Notifier interface {
	Deliver(ctx context.Context, destinationURL string, payload *domain.ReportPayload) error
}

// Reporter executa a sequência de despacho: período -> métricas (x2) ->
// renderização -> entrega.
type Reporter interface {
	// Dispatch executa o despacho de uma agenda. O token de período é usado
	// como está, sem valor padrão.
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error)

	// SendNow executa o envio manual para um cliente, de forma síncrona
	SendNow(ctx context.Context, clientID string, periodToken string, includeLink bool) (*DispatchResult, error)

	// Preview monta o relatório sem entregá-lo
	Preview(ctx context.Context, clientID string, periodToken string) (*domain.ReportPayload, error)
}
