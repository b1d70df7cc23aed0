package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Targets guarda os limites opcionais de performance definidos para o cliente
type Targets struct {
	MaxCostPerResult *decimal.Decimal `json:"max_cost_per_result,omitempty"`
	MaxSpend         *decimal.Decimal `json:"max_spend,omitempty"`
	MinResults       *int64           `json:"min_results,omitempty"`
}

func (t Targets) IsEmpty() bool {
	return t.MaxCostPerResult == nil && t.MaxSpend == nil && t.MinResults == nil
}

type Client struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	AdAccountID  string          `json:"ad_account_id"`
	Color        string          `json:"color"`
	Targets      Targets         `json:"targets"`
	WebhookURL   string          `json:"webhook_url,omitempty"`
	DashboardURL string          `json:"dashboard_url,omitempty"`
	Schedules    []ScheduleEntry `json:"schedules"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HasWebhook indica se o cliente pode receber relatórios
func (c *Client) HasWebhook() bool {
	return c != nil && strings.TrimSpace(c.WebhookURL) != ""
}

// WithoutSecrets retorna uma cópia sem a URL do webhook, que funciona como
// credencial de escrita no destino
func (c *Client) WithoutSecrets() *Client {
	if c == nil {
		return nil
	}
	redacted := *c
	redacted.WebhookURL = ""
	return &redacted
}

func (c *Client) HasAdAccount() bool {
	return c != nil && strings.TrimSpace(c.AdAccountID) != ""
}

type ScheduleEntry struct {
	Enabled     bool     `json:"enabled"`
	Days        []string `json:"days"`
	Time        string   `json:"time"`
	Period      string   `json:"period"`
	IncludeLink bool     `json:"include_link"`
}

// Hour retorna a hora do horário de disparo ("08:45" -> 8). Os minutos são
// validados mas não participam da decisão de disparo.
func (e ScheduleEntry) Hour() (int, error) {
	hour, _, err := ParseClock(e.Time)
	return hour, err
}

// RunsOn verifica se o token do dia da semana está entre os dias configurados
func (e ScheduleEntry) RunsOn(weekday string) bool {
	for _, day := range e.Days {
		if strings.EqualFold(strings.TrimSpace(day), weekday) {
			return true
		}
	}
	return false
}

// ParseClock interpreta um horário no formato HH:MM
func ParseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("horário inválido %q: formato esperado HH:MM", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("horário inválido %q: hora fora do intervalo 00-23", value)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("horário inválido %q: minuto fora do intervalo 00-59", value)
	}

	return hour, minute, nil
}

var weekdayTokens = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayToken converte um time.Weekday no token usado pelas agendas
func WeekdayToken(day time.Weekday) string {
	return weekdayTokens[day]
}

func IsWeekdayToken(token string) bool {
	for _, t := range weekdayTokens {
		if strings.EqualFold(strings.TrimSpace(token), t) {
			return true
		}
	}
	return false
}

// HourToken formata a hora com dois dígitos ("08")
func HourToken(hour int) string {
	return fmt.Sprintf("%02d", hour)
}

type CreateClientRequest struct {
	Name         string          `json:"name"`
	AdAccountID  string          `json:"ad_account_id"`
	Color        string          `json:"color"`
	Targets      Targets         `json:"targets"`
	WebhookURL   string          `json:"webhook_url"`
	DashboardURL string          `json:"dashboard_url"`
	Schedules    []ScheduleEntry `json:"schedules"`
}

type UpdateClientRequest struct {
	ID           string           `json:"id"`
	Name         *string          `json:"name,omitempty"`
	AdAccountID  *string          `json:"ad_account_id,omitempty"`
	Color        *string          `json:"color,omitempty"`
	Targets      *Targets         `json:"targets,omitempty"`
	WebhookURL   *string          `json:"webhook_url,omitempty"`
	DashboardURL *string          `json:"dashboard_url,omitempty"`
	Schedules    *[]ScheduleEntry `json:"schedules,omitempty"`
}

// Apply aplica os campos presentes na requisição sobre o cliente
func (r *UpdateClientRequest) Apply(client *Client) {
	if r.Name != nil {
		client.Name = *r.Name
	}
	if r.AdAccountID != nil {
		client.AdAccountID = *r.AdAccountID
	}
	if r.Color != nil {
		client.Color = *r.Color
	}
	if r.Targets != nil {
		client.Targets = *r.Targets
	}
	if r.WebhookURL != nil {
		client.WebhookURL = *r.WebhookURL
	}
	if r.DashboardURL != nil {
		client.DashboardURL = *r.DashboardURL
	}
	if r.Schedules != nil {
		client.Schedules = *r.Schedules
	}
}
