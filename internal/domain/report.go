package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MetricKey string

const (
	MetricSpend         MetricKey = "spend"
	MetricImpressions   MetricKey = "impressions"
	MetricClicks        MetricKey = "clicks"
	MetricResults       MetricKey = "results"
	MetricCostPerResult MetricKey = "cost_per_result"
)

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
	// TrendUnknown é usado quando um dos lados não tem dados
	TrendUnknown Trend = "unknown"
)

// MetricComparison compara uma métrica entre o período atual e o anterior.
// DeltaPercent é nil quando o valor anterior é zero ou inexistente.
type MetricComparison struct {
	Metric        MetricKey           `json:"metric"`
	Label         string              `json:"label"`
	Current       decimal.NullDecimal `json:"current"`
	Previous      decimal.NullDecimal `json:"previous"`
	Delta         decimal.NullDecimal `json:"delta"`
	DeltaPercent  *float64            `json:"delta_percent"`
	Trend         Trend               `json:"trend"`
	LowerIsBetter bool                `json:"lower_is_better"`
	Monetary      bool                `json:"monetary"`
	Target        decimal.NullDecimal `json:"target"`
	Breached      bool                `json:"breached"`
}

// ReportPayload é o relatório renderizado, pronto para entrega
type ReportPayload struct {
	ClientID      string             `json:"client_id"`
	ClientName    string             `json:"client_name"`
	ClientColor   string             `json:"client_color,omitempty"`
	PeriodToken   string             `json:"period"`
	PeriodLabel   string             `json:"period_label"`
	CurrentRange  DateRange          `json:"current_range"`
	PreviousRange DateRange          `json:"previous_range"`
	Current       MetricsSummary     `json:"current"`
	Previous      MetricsSummary     `json:"previous"`
	Metrics       []MetricComparison `json:"metrics"`
	Breaches      []MetricKey        `json:"breaches,omitempty"`
	DeepLink      string             `json:"deep_link,omitempty"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

func (p *ReportPayload) HasBreach() bool {
	return len(p.Breaches) > 0
}

// Metric busca a comparação de uma métrica específica
func (p *ReportPayload) Metric(key MetricKey) *MetricComparison {
	for i := range p.Metrics {
		if p.Metrics[i].Metric == key {
			return &p.Metrics[i]
		}
	}
	return nil
}
