package reporting_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repomocks "github.com/gouveiaesilva/dashmilo-api/infrastructure/repository/mocks"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting/mocks"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	service    *reporting.Service
	clients    *repomocks.MockClientRepository
	aggregator *mocks.MockMetricsAggregator
	notifier   *mocks.MockNotifier
}

var fixedNow = time.Date(2024, time.March, 15, 8, 0, 0, 0, domain.CivilLocation)

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		clients:    repomocks.NewMockClientRepository(ctrl),
		aggregator: mocks.NewMockMetricsAggregator(ctrl),
		notifier:   mocks.NewMockNotifier(ctrl),
	}

	cfg := &config.Config{
		ReportDispatch: config.ReportDispatch{DashboardBaseURL: "https://app.example.com"},
	}

	f.service = reporting.NewService(cfg, f.clients, f.aggregator, f.notifier).
		WithClock(func() time.Time { return fixedNow })

	return f
}

func readyClient() *domain.Client {
	return &domain.Client{
		ID:          "c1",
		Name:        "Loja A",
		AdAccountID: "act_123",
		WebhookURL:  "https://hooks.example.com/c1",
	}
}

// expectAggregation devolve métricas diferentes para o período atual e o anterior
func (f *fixture) expectAggregation(current domain.DateRange) {
	f.aggregator.EXPECT().
		Aggregate(gomock.Any(), "act_123", gomock.Any()).
		DoAndReturn(func(_ context.Context, accountID string, r domain.DateRange) (*domain.MetricsSummary, error) {
			if r.SinceDate() == current.SinceDate() {
				return domain.NewMetricsSummary(accountID, r, decimal.NewFromInt(300), 3000, 90, 30), nil
			}
			return domain.NewMetricsSummary(accountID, r, decimal.NewFromInt(200), 2000, 60, 20), nil
		}).
		Times(2)
}

func TestService_Dispatch(t *testing.T) {
	f := newFixture(t)
	client := readyClient()

	period, err := reporting.ResolvePeriod(reporting.PeriodLast7d, fixedNow)
	require.NoError(t, err)
	f.expectAggregation(period.Current)

	var delivered *domain.ReportPayload
	f.notifier.EXPECT().
		Deliver(gomock.Any(), "https://hooks.example.com/c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload *domain.ReportPayload) error {
			delivered = payload
			return nil
		})

	result, err := f.service.Dispatch(context.Background(), reporting.DispatchRequest{
		Client:      client,
		Period:      reporting.PeriodLast7d,
		IncludeLink: true,
		Now:         fixedNow,
	})
	require.NoError(t, err)
	require.NotNil(t, delivered)

	assert.Equal(t, "c1", result.ClientID)
	assert.Same(t, delivered, result.Payload)
	assert.Equal(t, "2024-03-08", delivered.CurrentRange.SinceDate())
	assert.Equal(t, "2024-03-01", delivered.PreviousRange.SinceDate())
	assert.Equal(t, "300", delivered.Current.Spend.String())
	assert.Equal(t, "200", delivered.Previous.Spend.String())
	assert.Equal(t, "https://app.example.com/clients/c1", delivered.DeepLink)
}

func TestService_Dispatch_WithoutLink(t *testing.T) {
	f := newFixture(t)

	period, err := reporting.ResolvePeriod(reporting.PeriodYesterday, fixedNow)
	require.NoError(t, err)
	f.expectAggregation(period.Current)

	f.notifier.EXPECT().
		Deliver(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload *domain.ReportPayload) error {
			assert.Empty(t, payload.DeepLink)
			return nil
		})

	_, err = f.service.Dispatch(context.Background(), reporting.DispatchRequest{
		Client: readyClient(),
		Period: reporting.PeriodYesterday,
		Now:    fixedNow,
	})
	require.NoError(t, err)
}

func TestService_Dispatch_NotConfigured(t *testing.T) {
	tests := []struct {
		name   string
		client *domain.Client
	}{
		{"sem webhook", &domain.Client{ID: "c1", AdAccountID: "act_1"}},
		{"sem conta de anúncios", &domain.Client{ID: "c1", WebhookURL: "https://hooks.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Dispatch(context.Background(), reporting.DispatchRequest{
				Client: tt.client,
				Period: reporting.PeriodYesterday,
				Now:    fixedNow,
			})

			assert.ErrorIs(t, err, domain.ErrNotConfigured)
		})
	}
}

func TestService_Dispatch_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	// Uma agenda nunca recebe o período padrão do envio manual
	_, err := f.service.Dispatch(context.Background(), reporting.DispatchRequest{
		Client: readyClient(),
		Period: "",
		Now:    fixedNow,
	})

	require.ErrorIs(t, err, domain.ErrInvalidPeriod)

	var reportErr *reporting.ReportError
	require.True(t, errors.As(err, &reportErr))
	assert.Equal(t, apiErrors.ErrInvalidPeriod, reportErr.Code)
	assert.Equal(t, "c1", reportErr.ClientID)
}

func TestService_Dispatch_AggregationFailureSkipsDelivery(t *testing.T) {
	f := newFixture(t)

	f.aggregator.EXPECT().
		Aggregate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: code 17", domain.ErrUpstreamRateLimited)).
		MinTimes(1).
		MaxTimes(2)

	_, err := f.service.Dispatch(context.Background(), reporting.DispatchRequest{
		Client: readyClient(),
		Period: reporting.PeriodYesterday,
		Now:    fixedNow,
	})

	require.ErrorIs(t, err, domain.ErrUpstreamRateLimited)
	assert.Equal(t, apiErrors.ErrUpstreamRateLimited, reporting.ErrorCode(err))
}

func TestService_Dispatch_DeliveryFailure(t *testing.T) {
	f := newFixture(t)

	period, err := reporting.ResolvePeriod(reporting.PeriodYesterday, fixedNow)
	require.NoError(t, err)
	f.expectAggregation(period.Current)

	f.notifier.EXPECT().
		Deliver(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: status 500", domain.ErrDeliveryFailed))

	_, err = f.service.Dispatch(context.Background(), reporting.DispatchRequest{
		Client: readyClient(),
		Period: reporting.PeriodYesterday,
		Now:    fixedNow,
	})

	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, apiErrors.ErrDeliveryFailed, reporting.ErrorCode(err))
}

func TestService_SendNow(t *testing.T) {
	t.Run("período vazio usa ontem", func(t *testing.T) {
		f := newFixture(t)
		f.clients.EXPECT().GetClient(gomock.Any(), "c1").Return(readyClient(), nil)

		period, err := reporting.ResolvePeriod(reporting.PeriodYesterday, fixedNow)
		require.NoError(t, err)
		f.expectAggregation(period.Current)
		f.notifier.EXPECT().Deliver(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := f.service.SendNow(context.Background(), "c1", "", false)
		require.NoError(t, err)
		assert.Equal(t, reporting.PeriodYesterday, result.Payload.PeriodToken)
		assert.Equal(t, "2024-03-14", result.Payload.CurrentRange.SinceDate())
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		f := newFixture(t)
		f.clients.EXPECT().GetClient(gomock.Any(), "nope").Return(nil, nil)

		_, err := f.service.SendNow(context.Background(), "nope", "", false)
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	t.Run("período desconhecido não cai para o padrão", func(t *testing.T) {
		f := newFixture(t)
		f.clients.EXPECT().GetClient(gomock.Any(), "c1").Return(readyClient(), nil)

		_, err := f.service.SendNow(context.Background(), "c1", "last_90d", false)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})

	t.Run("erro do repositório", func(t *testing.T) {
		f := newFixture(t)
		f.clients.EXPECT().GetClient(gomock.Any(), "c1").Return(nil, errors.New("connection refused"))

		_, err := f.service.SendNow(context.Background(), "c1", "", false)
		assert.EqualError(t, err, "connection refused")
	})
}

func TestService_Preview(t *testing.T) {
	f := newFixture(t)
	client := readyClient()
	client.WebhookURL = ""
	f.clients.EXPECT().GetClient(gomock.Any(), "c1").Return(client, nil)

	period, err := reporting.ResolvePeriod(reporting.PeriodThisMonth, fixedNow)
	require.NoError(t, err)
	f.expectAggregation(period.Current)

	// Preview não entrega: nenhuma chamada ao notifier é esperada
	payload, err := f.service.Preview(context.Background(), "c1", reporting.PeriodThisMonth)
	require.NoError(t, err)

	assert.Equal(t, reporting.PeriodThisMonth, payload.PeriodToken)
	assert.Equal(t, "2024-03-01", payload.CurrentRange.SinceDate())
	assert.Equal(t, "https://app.example.com/clients/c1", payload.DeepLink)
}
