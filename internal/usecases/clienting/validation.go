package clienting

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
)

// normalizeClient limpa espaços e padroniza dias e horários das agendas
func normalizeClient(client *domain.Client) {
	client.Name = strings.TrimSpace(client.Name)
	client.AdAccountID = strings.TrimSpace(client.AdAccountID)
	client.Color = strings.TrimSpace(client.Color)
	client.WebhookURL = strings.TrimSpace(client.WebhookURL)
	client.DashboardURL = strings.TrimSpace(client.DashboardURL)

	if client.Schedules == nil {
		client.Schedules = make([]domain.ScheduleEntry, 0)
	}

	for i := range client.Schedules {
		entry := &client.Schedules[i]
		entry.Period = strings.TrimSpace(entry.Period)

		days := make([]string, 0, len(entry.Days))
		for _, day := range entry.Days {
			days = append(days, strings.ToLower(strings.TrimSpace(day)))
		}
		entry.Days = days

		if hour, minute, err := domain.ParseClock(entry.Time); err == nil {
			entry.Time = fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}
}

// validateClient devolve os campos inválidos, vazio quando o cliente é válido
func validateClient(client *domain.Client) map[string]string {
	fields := make(map[string]string)

	if client.Name == "" {
		fields["name"] = "nome é obrigatório"
	}

	if client.WebhookURL != "" && !isHTTPURL(client.WebhookURL) {
		fields["webhook_url"] = "webhook deve ser uma URL http(s) válida"
	}

	if client.DashboardURL != "" && !isHTTPURL(client.DashboardURL) {
		fields["dashboard_url"] = "link do painel deve ser uma URL http(s) válida"
	}

	if t := client.Targets; t.MaxSpend != nil && t.MaxSpend.IsNegative() {
		fields["targets.max_spend"] = "meta não pode ser negativa"
	}
	if t := client.Targets; t.MaxCostPerResult != nil && t.MaxCostPerResult.IsNegative() {
		fields["targets.max_cost_per_result"] = "meta não pode ser negativa"
	}
	if t := client.Targets; t.MinResults != nil && *t.MinResults < 0 {
		fields["targets.min_results"] = "meta não pode ser negativa"
	}

	for i, entry := range client.Schedules {
		prefix := fmt.Sprintf("schedules[%d]", i)

		if _, _, err := domain.ParseClock(entry.Time); err != nil {
			fields[prefix+".time"] = err.Error()
		}

		if !reporting.IsValidPeriod(entry.Period) {
			fields[prefix+".period"] = fmt.Sprintf("período desconhecido %q", entry.Period)
		}

		if len(entry.Days) == 0 {
			fields[prefix+".days"] = "informe ao menos um dia da semana"
		}
		for _, day := range entry.Days {
			if !domain.IsWeekdayToken(day) {
				fields[prefix+".days"] = fmt.Sprintf("dia da semana inválido %q", day)
				break
			}
		}
	}

	return fields
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
