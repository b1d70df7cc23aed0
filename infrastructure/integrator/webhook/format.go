package webhook

import (
	"fmt"
	"strings"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/shopspring/decimal"
)

const noData = "sem dados"

// FormatMessage monta o texto do relatório no formato aceito pelos chats
func FormatMessage(p *domain.ReportPayload) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("*Relatório de performance: %s*\n", p.ClientName))
	b.WriteString(fmt.Sprintf("Período: %s (%s)\n", p.PeriodLabel, formatRange(p.CurrentRange)))
	b.WriteString(fmt.Sprintf("Comparado com: %s\n\n", formatRange(p.PreviousRange)))

	for _, m := range p.Metrics {
		b.WriteString(formatMetric(m))
		b.WriteString("\n")
	}

	if p.HasBreach() {
		b.WriteString("\n*Metas fora do limite:*\n")
		for _, m := range p.Metrics {
			if !m.Breached {
				continue
			}
			b.WriteString(fmt.Sprintf("⚠️ %s: %s (meta %s)\n",
				m.Label, formatValue(m.Current, m.Monetary), formatValue(m.Target, m.Monetary)))
		}
	}

	if p.DeepLink != "" {
		b.WriteString(fmt.Sprintf("\nVer painel: %s\n", p.DeepLink))
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatRange(r domain.DateRange) string {
	since := r.Since.Format("02/01/2006")
	until := r.Until.Format("02/01/2006")
	if since == until {
		return since
	}
	return fmt.Sprintf("%s a %s", since, until)
}

func formatMetric(m domain.MetricComparison) string {
	line := fmt.Sprintf("• %s: %s", m.Label, formatValue(m.Current, m.Monetary))

	if !m.Current.Valid || !m.Previous.Valid {
		return line
	}

	return fmt.Sprintf("%s %s (anterior %s)", line, formatChange(m), formatValue(m.Previous, m.Monetary))
}

// formatChange mostra a seta da tendência e a variação percentual. Sem base
// de comparação a variação aparece como "n/d".
func formatChange(m domain.MetricComparison) string {
	arrow := trendArrow(m.Trend)

	if m.DeltaPercent == nil {
		return fmt.Sprintf("%s n/d", arrow)
	}

	pct := decimal.NewFromFloat(*m.DeltaPercent)
	sign := ""
	if pct.Sign() > 0 {
		sign = "+"
	}

	return fmt.Sprintf("%s %s%s%%", arrow, sign, brazilianDecimal(pct.StringFixed(1)))
}

func trendArrow(t domain.Trend) string {
	switch t {
	case domain.TrendUp:
		return "▲"
	case domain.TrendDown:
		return "▼"
	case domain.TrendFlat:
		return "="
	default:
		return "?"
	}
}

func formatValue(v decimal.NullDecimal, monetary bool) string {
	if !v.Valid {
		return noData
	}

	if monetary {
		return "R$ " + brazilianDecimal(v.Decimal.StringFixed(2))
	}

	return v.Decimal.StringFixed(0)
}

func brazilianDecimal(s string) string {
	return strings.Replace(s, ".", ",", 1)
}
