package meta

import (
	"context"
	"fmt"
	"testing"
	"time"

	metadomain "github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta/domain"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta/mocks"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testRange = domain.NewDateRange(
	time.Date(2024, 3, 8, 0, 0, 0, 0, domain.CivilLocation),
	time.Date(2024, 3, 14, 0, 0, 0, 0, domain.CivilLocation),
	"Últimos 7 dias",
)

func TestMetaIntegrator_Aggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().
		GetCampaignInsights(gomock.Any(), "act_123", testRange).
		Return([]metadomain.CampaignInsight{
			{
				CampaignID:  "1",
				Objective:   "OUTCOME_ENGAGEMENT",
				Spend:       "100.10",
				Impressions: "1000",
				Clicks:      "40",
				Actions: []metadomain.Action{
					{ActionType: "link_click", Value: "40"},
					{ActionType: "onsite_conversion.messaging_conversation_started_7d", Value: "12"},
				},
			},
			{
				CampaignID:  "2",
				Objective:   "OUTCOME_LEADS",
				Spend:       "49.90",
				Impressions: "500",
				Clicks:      "10",
				Actions:     []metadomain.Action{{ActionType: "lead", Value: "3"}},
			},
			{
				CampaignID:  "3",
				Objective:   "OUTCOME_AWARENESS",
				Spend:       "10",
				Impressions: "9000",
			},
		}, nil)

	summary, err := New(client).Aggregate(context.Background(), "act_123", testRange)
	require.NoError(t, err)

	assert.Equal(t, "160", summary.Spend.String())
	assert.Equal(t, int64(10500), summary.Impressions)
	assert.Equal(t, int64(50), summary.Clicks)
	assert.Equal(t, int64(15), summary.Results)
	require.True(t, summary.CostPerResult.Valid)
	assert.Equal(t, "10.67", summary.CostPerResult.Decimal.StringFixed(2))
	assert.Equal(t, testRange, summary.Range)
}

func TestMetaIntegrator_Aggregate_NoCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetCampaignInsights(gomock.Any(), gomock.Any(), gomock.Any()).Return([]metadomain.CampaignInsight{}, nil)

	summary, err := New(client).Aggregate(context.Background(), "act_123", testRange)
	require.NoError(t, err)

	assert.True(t, summary.Spend.IsZero())
	assert.False(t, summary.CostPerResult.Valid)
}

func TestMetaIntegrator_Aggregate_Errors(t *testing.T) {
	t.Run("erro do cliente é propagado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().
			GetCampaignInsights(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: código 17", domain.ErrUpstreamRateLimited))

		_, err := New(client).Aggregate(context.Background(), "act_123", testRange)
		assert.ErrorIs(t, err, domain.ErrUpstreamRateLimited)
	})

	t.Run("número inválido vira indisponibilidade", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().
			GetCampaignInsights(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]metadomain.CampaignInsight{{CampaignID: "1", Spend: "abc"}}, nil)

		_, err := New(client).Aggregate(context.Background(), "act_123", testRange)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})
}
