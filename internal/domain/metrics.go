package domain

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// CivilLocation é o fuso fixo (UTC-3) usado em todos os cálculos de dia e hora,
// independente do fuso do processo.
var CivilLocation = time.FixedZone("UTC-3", -3*60*60)

// CivilDate retorna a meia-noite do dia civil de t
func CivilDate(t time.Time) time.Time {
	y, m, d := t.In(CivilLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, CivilLocation)
}

// DateRange é um intervalo fechado de datas civis [Since, Until]
type DateRange struct {
	Since time.Time
	Until time.Time
	Label string
}

func NewDateRange(since, until time.Time, label string) DateRange {
	return DateRange{Since: CivilDate(since), Until: CivilDate(until), Label: label}
}

// Days retorna a quantidade de dias do intervalo, incluindo as pontas
func (r DateRange) Days() int {
	return int(r.Until.Sub(r.Since).Hours()/24) + 1
}

func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Until.Before(other.Since) && !other.Until.Before(r.Since)
}

func (r DateRange) SinceDate() string {
	return r.Since.Format(time.DateOnly)
}

func (r DateRange) UntilDate() string {
	return r.Until.Format(time.DateOnly)
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(struct {
		Since string `json:"since"`
		Until string `json:"until"`
		Label string `json:"label,omitempty"`
		Days  int    `json:"days"`
	}{
		Since: r.SinceDate(),
		Until: r.UntilDate(),
		Label: r.Label,
		Days:  r.Days(),
	})
}

// MetricsSummary consolida a performance de uma conta em um intervalo
type MetricsSummary struct {
	AccountID     string              `json:"account_id"`
	Range         DateRange           `json:"range"`
	Spend         decimal.Decimal     `json:"spend"`
	Impressions   int64               `json:"impressions"`
	Clicks        int64               `json:"clicks"`
	Results       int64               `json:"results"`
	CostPerResult decimal.NullDecimal `json:"cost_per_result"`
}

func NewMetricsSummary(accountID string, dateRange DateRange, spend decimal.Decimal, impressions, clicks, results int64) *MetricsSummary {
	return &MetricsSummary{
		AccountID:     accountID,
		Range:         dateRange,
		Spend:         spend,
		Impressions:   impressions,
		Clicks:        clicks,
		Results:       results,
		CostPerResult: CostPerResult(spend, results),
	}
}

// CostPerResult divide o investimento pelos resultados. Sem resultados o valor
// fica inválido ("sem dados"), nunca zero.
func CostPerResult(spend decimal.Decimal, results int64) decimal.NullDecimal {
	if results <= 0 {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(spend.Div(decimal.NewFromInt(results)).Round(2))
}
