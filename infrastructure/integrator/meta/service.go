package meta

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta/metaclient"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type MetaIntegrator struct {
	Client metaclient.Client
}

var _ reporting.MetricsAggregator = (*MetaIntegrator)(nil)

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		Client: client,
	}
}

// Aggregate soma as métricas de todas as campanhas da conta no intervalo
func (s *MetaIntegrator) Aggregate(ctx context.Context, accountID string, dateRange domain.DateRange) (*domain.MetricsSummary, error) {
	insights, err := s.Client.GetCampaignInsights(ctx, accountID, dateRange)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"since":      dateRange.SinceDate(),
			"until":      dateRange.UntilDate(),
			"error":      err.Error(),
		}).Error("insights: failed to get campaign insights from API")
		return nil, err
	}

	spend := decimal.Zero
	var impressions, clicks, results int64

	for _, insight := range insights {
		campaignSpend, err := parseDecimal(insight.Spend)
		if err != nil {
			return nil, fmt.Errorf("%w: spend inválido na campanha %s: %v", domain.ErrUpstreamUnavailable, insight.CampaignID, err)
		}

		campaignImpressions, err := parseCount(insight.Impressions)
		if err != nil {
			return nil, fmt.Errorf("%w: impressions inválido na campanha %s: %v", domain.ErrUpstreamUnavailable, insight.CampaignID, err)
		}

		campaignClicks, err := parseCount(insight.Clicks)
		if err != nil {
			return nil, fmt.Errorf("%w: clicks inválido na campanha %s: %v", domain.ErrUpstreamUnavailable, insight.CampaignID, err)
		}

		campaignResults, err := insight.GetResult()
		if err != nil {
			return nil, fmt.Errorf("%w: ação inválida na campanha %s: %v", domain.ErrUpstreamUnavailable, insight.CampaignID, err)
		}

		spend = spend.Add(campaignSpend)
		impressions += campaignImpressions
		clicks += campaignClicks
		results += campaignResults
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"campaigns":  len(insights),
		"since":      dateRange.SinceDate(),
		"until":      dateRange.UntilDate(),
	}).Debug("insights: successfully aggregated campaign insights")

	return domain.NewMetricsSummary(accountID, dateRange, spend, impressions, clicks, results), nil
}

// Campos ausentes na resposta contam como zero
func parseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func parseCount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
