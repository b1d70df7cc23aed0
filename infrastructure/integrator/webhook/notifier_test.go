package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload(t *testing.T, deepLink string) *domain.ReportPayload {
	t.Helper()

	ref := time.Date(2024, time.March, 15, 8, 0, 0, 0, domain.CivilLocation)
	period, err := reporting.ResolvePeriod(reporting.PeriodLast7d, ref)
	require.NoError(t, err)

	maxCPR := decimal.RequireFromString("15")
	client := &domain.Client{
		ID:      "c1",
		Name:    "Loja A",
		Targets: domain.Targets{MaxCostPerResult: &maxCPR},
	}

	current := domain.NewMetricsSummary("act_1", period.Current, decimal.RequireFromString("200.00"), 1000, 50, 10)
	previous := domain.NewMetricsSummary("act_1", period.Previous, decimal.RequireFromString("100.00"), 1000, 0, 10)

	return reporting.Render(client, current, previous, period, deepLink, ref)
}

func TestFormatMessage(t *testing.T) {
	text := FormatMessage(samplePayload(t, "https://app.example.com/clients/c1"))

	assert.Contains(t, text, "*Relatório de performance: Loja A*")
	assert.Contains(t, text, "Período: Últimos 7 dias (08/03/2024 a 14/03/2024)")
	assert.Contains(t, text, "Comparado com: 01/03/2024 a 07/03/2024")
	assert.Contains(t, text, "• Investimento: R$ 200,00 ▲ +100,0% (anterior R$ 100,00)")
	assert.Contains(t, text, "• Impressões: 1000 = 0,0% (anterior 1000)")
	assert.Contains(t, text, "• Cliques: 50 ▲ n/d (anterior 0)")
	assert.Contains(t, text, "• Custo por resultado: R$ 20,00 ▲ +100,0% (anterior R$ 10,00)")
	assert.Contains(t, text, "⚠️ Custo por resultado: R$ 20,00 (meta R$ 15,00)")
	assert.Contains(t, text, "Ver painel: https://app.example.com/clients/c1")
}

func TestFormatMessage_NoResults(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 8, 0, 0, 0, domain.CivilLocation)
	period, err := reporting.ResolvePeriod(reporting.PeriodYesterday, ref)
	require.NoError(t, err)

	client := &domain.Client{ID: "c2", Name: "Loja B"}
	current := domain.NewMetricsSummary("act_2", period.Current, decimal.RequireFromString("50"), 100, 5, 0)
	previous := domain.NewMetricsSummary("act_2", period.Previous, decimal.RequireFromString("30"), 100, 5, 3)

	text := FormatMessage(reporting.Render(client, current, previous, period, "", ref))

	assert.Contains(t, text, "Período: Ontem (14/03/2024)")
	assert.True(t, strings.HasSuffix(text, "• Custo por resultado: sem dados"))
	assert.NotContains(t, text, "Metas fora do limite")
	assert.NotContains(t, text, "Ver painel")
}

func TestWebhookNotifier_Deliver(t *testing.T) {
	var received map[string]any
	var contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	payload := samplePayload(t, "")
	err := NewWebhookNotifier(time.Second).Deliver(context.Background(), server.URL, payload)
	require.NoError(t, err)

	assert.Contains(t, contentType, "application/json")
	assert.Equal(t, FormatMessage(payload), received["text"])

	report, ok := received["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "c1", report["client_id"])
	assert.Equal(t, "last_7d", report["period"])
}

func TestWebhookNotifier_WithoutReportData(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewWebhookNotifier(time.Second).WithoutReportData().Deliver(context.Background(), server.URL, samplePayload(t, ""))
	require.NoError(t, err)

	assert.Contains(t, received, "text")
	assert.NotContains(t, received, "report")
}

func TestWebhookNotifier_Failures(t *testing.T) {
	t.Run("status fora de 2xx", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := NewWebhookNotifier(time.Second).Deliver(context.Background(), server.URL, samplePayload(t, ""))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
		assert.Contains(t, err.Error(), "status 500")
		assert.Equal(t, 1, calls, "não deve haver retentativa")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-time.After(2 * time.Second):
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		defer close(release)

		err := NewWebhookNotifier(50*time.Millisecond).Deliver(context.Background(), server.URL, samplePayload(t, ""))
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	})

	t.Run("destino indisponível", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		err := NewWebhookNotifier(time.Second).Deliver(context.Background(), url, samplePayload(t, ""))
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	})

	t.Run("erro de rede não expõe a URL do webhook", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		destination := server.URL + "/services/T000/B000/segredo-do-webhook"
		server.Close()

		hook := test.NewGlobal()
		defer hook.Reset()

		err := NewWebhookNotifier(time.Second).Deliver(context.Background(), destination, samplePayload(t, ""))
		require.ErrorIs(t, err, domain.ErrDeliveryFailed)
		assert.NotContains(t, err.Error(), "segredo-do-webhook")

		require.NotEmpty(t, hook.AllEntries())
		for _, entry := range hook.AllEntries() {
			assert.NotContains(t, entry.Message, "segredo-do-webhook")
			assert.NotContains(t, fmt.Sprint(entry.Data), "segredo-do-webhook")
		}
	})

	t.Run("sem destino", func(t *testing.T) {
		err := NewWebhookNotifier(time.Second).Deliver(context.Background(), "", samplePayload(t, ""))
		assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	})
}
