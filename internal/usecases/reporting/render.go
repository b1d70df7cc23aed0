package reporting

import (
	"net/url"
	"strings"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Render monta o relatório comparando o período atual com o anterior.
// Não altera o cliente nem os resumos recebidos.
func Render(
	client *domain.Client,
	current *domain.MetricsSummary,
	previous *domain.MetricsSummary,
	period *ResolvedPeriod,
	deepLink string,
	now time.Time,
) *domain.ReportPayload {
	targets := client.Targets

	metrics := []domain.MetricComparison{
		compare(domain.MetricSpend, "Investimento",
			decimal.NewNullDecimal(current.Spend), decimal.NewNullDecimal(previous.Spend)),
		compare(domain.MetricImpressions, "Impressões",
			intValue(current.Impressions), intValue(previous.Impressions)),
		compare(domain.MetricClicks, "Cliques",
			intValue(current.Clicks), intValue(previous.Clicks)),
		compare(domain.MetricResults, "Resultados",
			intValue(current.Results), intValue(previous.Results)),
		compare(domain.MetricCostPerResult, "Custo por resultado",
			current.CostPerResult, previous.CostPerResult),
	}

	breaches := make([]domain.MetricKey, 0)
	for i := range metrics {
		m := &metrics[i]

		switch m.Metric {
		case domain.MetricSpend:
			m.Monetary = true
			if targets.MaxSpend != nil {
				m.Target = decimal.NewNullDecimal(*targets.MaxSpend)
				m.Breached = m.Current.Valid && m.Current.Decimal.GreaterThan(*targets.MaxSpend)
			}
		case domain.MetricResults:
			if targets.MinResults != nil {
				target := decimal.NewFromInt(*targets.MinResults)
				m.Target = decimal.NewNullDecimal(target)
				m.Breached = m.Current.Valid && m.Current.Decimal.LessThan(target)
			}
		case domain.MetricCostPerResult:
			m.Monetary = true
			m.LowerIsBetter = true
			if targets.MaxCostPerResult != nil {
				m.Target = decimal.NewNullDecimal(*targets.MaxCostPerResult)
				// Sem resultados o custo é "sem dados" e não conta como estouro
				m.Breached = m.Current.Valid && m.Current.Decimal.GreaterThan(*targets.MaxCostPerResult)
			}
		}

		if m.Breached {
			breaches = append(breaches, m.Metric)
		}
	}

	return &domain.ReportPayload{
		ClientID:      client.ID,
		ClientName:    client.Name,
		ClientColor:   client.Color,
		PeriodToken:   period.Token,
		PeriodLabel:   period.Label,
		CurrentRange:  period.Current,
		PreviousRange: period.Previous,
		Current:       *current,
		Previous:      *previous,
		Metrics:       metrics,
		Breaches:      breaches,
		DeepLink:      deepLink,
		GeneratedAt:   now.In(domain.CivilLocation),
	}
}

func intValue(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// compare calcula as variações absoluta e percentual. A percentual fica nil
// quando o valor anterior é zero ou não existe.
func compare(key domain.MetricKey, label string, current, previous decimal.NullDecimal) domain.MetricComparison {
	m := domain.MetricComparison{
		Metric:   key,
		Label:    label,
		Current:  current,
		Previous: previous,
		Trend:    domain.TrendUnknown,
	}

	if !current.Valid || !previous.Valid {
		return m
	}

	delta := current.Decimal.Sub(previous.Decimal)
	m.Delta = decimal.NewNullDecimal(delta)

	switch delta.Sign() {
	case 1:
		m.Trend = domain.TrendUp
	case -1:
		m.Trend = domain.TrendDown
	default:
		m.Trend = domain.TrendFlat
	}

	if !previous.Decimal.IsZero() {
		pct := delta.Div(previous.Decimal.Abs()).Mul(hundred).Round(2).InexactFloat64()
		m.DeltaPercent = &pct
	}

	return m
}

// ResolveDeepLink decide o link do relatório, nesta ordem: agenda sem link
// pedido -> sem link; URL própria do cliente; URL base padrão + id do cliente.
func ResolveDeepLink(includeLink bool, client *domain.Client, defaultBaseURL string) string {
	if !includeLink || client == nil {
		return ""
	}

	if link := strings.TrimSpace(client.DashboardURL); link != "" {
		return link
	}

	base := strings.TrimSpace(defaultBaseURL)
	if base == "" {
		return ""
	}

	link, err := url.JoinPath(base, "clients", client.ID)
	if err != nil {
		return ""
	}

	return link
}
