package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/kvstore"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository/mocks"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	reportingmocks "github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// 15/03/2024 é uma sexta-feira
func civilTime(hour, minute int) time.Time {
	return time.Date(2024, time.March, 15, hour, minute, 0, 0, domain.CivilLocation)
}

func testConfig(idempotency bool) *config.Config {
	return &config.Config{
		ReportDispatch: config.ReportDispatch{
			CronSchedule:       "0 * * * *",
			MaxConcurrentJobs:  2,
			IdempotencyEnabled: idempotency,
		},
	}
}

func reportClient(id string, schedules ...domain.ScheduleEntry) *domain.Client {
	return &domain.Client{
		ID:          id,
		Name:        "Cliente " + id,
		AdAccountID: "act_" + id,
		WebhookURL:  "https://chat.example.com/" + id,
		Schedules:   schedules,
	}
}

func entryAt(clock string, days ...string) domain.ScheduleEntry {
	return domain.ScheduleEntry{Enabled: true, Days: days, Time: clock, Period: reporting.PeriodYesterday}
}

func TestReportDispatchService_Tick_IsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	clients := []*domain.Client{
		reportClient("c1", entryAt("08:00", "fri")),
		reportClient("c2", entryAt("08:00", "fri")),
	}
	clientRepo.EXPECT().ListClients(gomock.Any()).Return(clients, nil)

	reporter.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, req reporting.DispatchRequest) (*reporting.DispatchResult, error) {
			assert.Equal(t, reporting.PeriodYesterday, req.Period)
			if req.Client.ID == "c1" {
				return nil, reporting.NewReportError(domain.ErrUpstreamUnavailable, "c1", "timeout")
			}
			return &reporting.DispatchResult{ClientID: req.Client.ID}, nil
		})

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return civilTime(8, 5) })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Clients)
	assert.Equal(t, 2, report.Evaluated)
	assert.Equal(t, 2, report.Due)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "fri", report.Weekday)
	assert.Equal(t, "08", report.Hour)

	status := service.GetStatus()
	assert.Equal(t, report, status["last_report"])
	assert.Equal(t, false, status["running"])
}

func TestReportDispatchService_Tick_Selection(t *testing.T) {
	disabled := entryAt("08:00", "fri")
	disabled.Enabled = false

	tests := []struct {
		name    string
		now     time.Time
		entries []domain.ScheduleEntry
		due     int
	}{
		{
			name:    "agenda desabilitada nunca dispara",
			now:     civilTime(8, 0),
			entries: []domain.ScheduleEntry{disabled},
			due:     0,
		},
		{
			name:    "dia da semana diferente",
			now:     civilTime(8, 0),
			entries: []domain.ScheduleEntry{entryAt("08:00", "mon", "thu")},
			due:     0,
		},
		{
			name:    "hora diferente",
			now:     civilTime(9, 0),
			entries: []domain.ScheduleEntry{entryAt("08:00", "fri")},
			due:     0,
		},
		{
			name:    "dia em maiúsculas",
			now:     civilTime(8, 59),
			entries: []domain.ScheduleEntry{entryAt("08:00", "FRI")},
			due:     1,
		},
		{
			name:    "apenas as agendas da hora atual",
			now:     civilTime(18, 10),
			entries: []domain.ScheduleEntry{entryAt("08:00", "fri"), entryAt("18:30", "fri"), entryAt("18:00", "sat")},
			due:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			clientRepo := mocks.NewMockClientRepository(ctrl)
			reporter := reportingmocks.NewMockReporter(ctrl)

			clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{reportClient("c1", tt.entries...)}, nil)
			reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(tt.due).Return(&reporting.DispatchResult{}, nil)

			service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
				WithClock(func() time.Time { return tt.now })

			report, err := service.Tick(context.Background())
			require.NoError(t, err)
			assert.Equal(t, len(tt.entries), report.Evaluated)
			assert.Equal(t, tt.due, report.Due)
			assert.Equal(t, tt.due, report.Sent)
		})
	}
}

func TestReportDispatchService_Tick_MinutesIgnored(t *testing.T) {
	for minute := 0; minute < 60; minute++ {
		ctrl := gomock.NewController(t)

		clientRepo := mocks.NewMockClientRepository(ctrl)
		reporter := reportingmocks.NewMockReporter(ctrl)

		clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{reportClient("c1", entryAt("08:45", "fri"))}, nil)
		reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&reporting.DispatchResult{}, nil)

		now := civilTime(8, minute)
		service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
			WithClock(func() time.Time { return now })

		report, err := service.Tick(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Sent, "minuto %d", minute)
	}
}

func TestReportDispatchService_Tick_UsesCivilTimezone(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	// 02:30 UTC de sábado ainda é sexta 23:30 em UTC-3
	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{reportClient("c1", entryAt("23:00", "fri"))}, nil)
	reporter.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req reporting.DispatchRequest) (*reporting.DispatchResult, error) {
			assert.Equal(t, 23, req.Now.Hour())
			assert.Equal(t, domain.CivilLocation, req.Now.Location())
			return &reporting.DispatchResult{}, nil
		})

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return time.Date(2024, time.March, 16, 2, 30, 0, 0, time.UTC) })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestReportDispatchService_Tick_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	noWebhook := reportClient("c1", entryAt("08:00", "fri"))
	noWebhook.WebhookURL = ""
	noAccount := reportClient("c2", entryAt("08:00", "fri"))
	noAccount.AdAccountID = " "

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{noWebhook, noAccount}, nil)
	reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return civilTime(8, 0) })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Due)
	assert.Equal(t, 2, report.NotConfigured)
	assert.Equal(t, 0, report.Failed)
}

func TestReportDispatchService_Tick_InvalidScheduleTime(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{
		reportClient("c1", entryAt("8h", "fri"), entryAt("08:00", "fri")),
	}, nil)
	reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&reporting.DispatchResult{}, nil)

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return civilTime(8, 0) })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.InvalidSchedules)
	assert.Equal(t, 1, report.Sent)
}

func TestReportDispatchService_Tick_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	clientRepo.EXPECT().ListClients(gomock.Any()).Return(nil, errors.New("connection refused"))

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return civilTime(8, 0) })

	report, err := service.Tick(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
	assert.False(t, service.IsRunning())
}

func TestReportDispatchService_Tick_RecoversFromPanic(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{
		reportClient("c1", entryAt("08:00", "fri")),
	}, nil)
	reporter.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, reporting.DispatchRequest) (*reporting.DispatchResult, error) {
			panic("boom")
		})

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return civilTime(8, 0) })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
}

func TestReportDispatchService_Tick_IdempotentRerun(t *testing.T) {
	ctrl := gomock.NewController(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	ledger := kvstore.NewDispatchLedger(rdb, "test", 2*time.Hour)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	clients := []*domain.Client{reportClient("c1", entryAt("08:00", "fri"))}
	clientRepo.EXPECT().ListClients(gomock.Any()).Return(clients, nil).Times(3)

	// Uma única entrega na hora 08, mesmo com duas avaliações
	reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&reporting.DispatchResult{}, nil).Times(2)

	now := civilTime(8, 5)
	service := NewReportDispatchService(clientRepo, ledger, reporter, testConfig(true)).
		WithClock(func() time.Time { return now })

	first, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)

	now = civilTime(8, 40)
	second, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.SkippedDuplicate)

	// Na semana seguinte a mesma agenda volta a disparar
	now = civilTime(8, 5).AddDate(0, 0, 7)
	third, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Sent)
}

func TestReportDispatchService_Tick_ReleasesClaimOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	ledger := mocks.NewMockDispatchLedger(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	client := reportClient("c1", entryAt("08:00", "fri"))
	now := civilTime(8, 0)
	key := domain.NewDispatchKey("c1", 0, client.Schedules[0], now)

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{client}, nil)
	gomock.InOrder(
		ledger.EXPECT().Claim(gomock.Any(), key).Return(true, nil),
		reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).
			Return(nil, reporting.NewReportError(domain.ErrDeliveryFailed, "c1", "status 500")),
		ledger.EXPECT().Release(gomock.Any(), key).Return(nil),
	)

	service := NewReportDispatchService(clientRepo, ledger, reporter, testConfig(true)).
		WithClock(func() time.Time { return now })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
}

func TestReportDispatchService_Tick_ConfirmsClaimAfterDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	ledger := mocks.NewMockDispatchLedger(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	client := reportClient("c1", entryAt("08:00", "fri"))
	now := civilTime(8, 0)
	key := domain.NewDispatchKey("c1", 0, client.Schedules[0], now)

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{client}, nil)
	gomock.InOrder(
		ledger.EXPECT().Claim(gomock.Any(), key).Return(true, nil),
		reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&reporting.DispatchResult{}, nil),
		ledger.EXPECT().Confirm(gomock.Any(), key).Return(errors.New("redis down")),
	)
	ledger.EXPECT().Release(gomock.Any(), gomock.Any()).Times(0)

	service := NewReportDispatchService(clientRepo, ledger, reporter, testConfig(true)).
		WithClock(func() time.Time { return now })

	// Falha na confirmação não transforma uma entrega feita em falha
	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)
}

func TestReportDispatchService_Tick_ReclaimsStaleClaim(t *testing.T) {
	ctrl := gomock.NewController(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	ledger := kvstore.NewDispatchLedger(rdb, "test", 2*time.Hour)

	client := reportClient("c1", entryAt("08:00", "fri"))
	now := civilTime(8, 0)
	key := domain.NewDispatchKey("c1", 0, client.Schedules[0], now)

	// Reserva deixada por um processo que caiu antes de entregar
	claimed, err := ledger.Claim(context.Background(), key)
	require.NoError(t, err)
	require.True(t, claimed)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)
	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{client}, nil).Times(2)
	reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&reporting.DispatchResult{}, nil)

	service := NewReportDispatchService(clientRepo, ledger, reporter, testConfig(true)).
		WithClock(func() time.Time { return now })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedDuplicate)

	mr.FastForward(repository.ClaimLease + time.Second)
	now = civilTime(8, 20)

	report, err = service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestReportDispatchService_Tick_LedgerUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	ledger := mocks.NewMockDispatchLedger(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{reportClient("c1", entryAt("08:00", "fri"))}, nil)
	ledger.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))
	reporter.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)
	ledger.EXPECT().Release(gomock.Any(), gomock.Any()).Times(0)

	service := NewReportDispatchService(clientRepo, ledger, reporter, testConfig(true)).
		WithClock(func() time.Time { return civilTime(8, 0) })

	report, err := service.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
}

func TestReportDispatchService_Tick_RejectsConcurrentTick(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	clientRepo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{reportClient("c1", entryAt("08:00", "fri"))}, nil)
	reporter.EXPECT().
		Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, reporting.DispatchRequest) (*reporting.DispatchResult, error) {
			close(started)
			<-release
			return &reporting.DispatchResult{}, nil
		})

	service := NewReportDispatchService(clientRepo, nil, reporter, testConfig(false)).
		WithClock(func() time.Time { return civilTime(8, 0) })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = service.Tick(context.Background())
	}()

	<-started
	assert.True(t, service.IsRunning())

	_, err := service.Tick(context.Background())
	assert.ErrorIs(t, err, ErrTickRunning)
	assert.ErrorIs(t, service.TriggerManualSync(context.Background()), ErrTickRunning)

	close(release)
	wg.Wait()
	assert.False(t, service.IsRunning())
}
