package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
)

// Tokens de período aceitos pelas agendas e pelo envio manual
const (
	PeriodYesterday = "yesterday"
	PeriodLast7d    = "last_7d"
	PeriodLast30d   = "last_30d"
	PeriodThisMonth = "this_month"
)

var periodLabels = map[string]string{
	PeriodYesterday: "Ontem",
	PeriodLast7d:    "Últimos 7 dias",
	PeriodLast30d:   "Últimos 30 dias",
	PeriodThisMonth: "Este mês",
}

// ResolvedPeriod é o resultado da resolução de um token de período
type ResolvedPeriod struct {
	Token    string           `json:"token"`
	Label    string           `json:"label"`
	Current  domain.DateRange `json:"current"`
	Previous domain.DateRange `json:"previous"`
}

// PeriodTokens lista os tokens conhecidos, na ordem em que aparecem no painel
func PeriodTokens() []string {
	return []string{PeriodYesterday, PeriodLast7d, PeriodLast30d, PeriodThisMonth}
}

func IsValidPeriod(token string) bool {
	_, ok := periodLabels[token]
	return ok
}

// ResolvePeriod converte um token em intervalo atual e intervalo anterior
// comparável, usando a data civil (UTC-3) de ref. O intervalo anterior sempre
// tem a mesma quantidade de dias e nunca se sobrepõe ao atual.
func ResolvePeriod(token string, ref time.Time) (*ResolvedPeriod, error) {
	label, ok := periodLabels[token]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, token)
	}

	today := domain.CivilDate(ref)
	yesterday := today.AddDate(0, 0, -1)

	var since, until time.Time
	switch token {
	case PeriodYesterday:
		since, until = yesterday, yesterday
	case PeriodLast7d:
		since, until = today.AddDate(0, 0, -7), yesterday
	case PeriodLast30d:
		since, until = today.AddDate(0, 0, -30), yesterday
	case PeriodThisMonth:
		since = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, domain.CivilLocation)
		until = yesterday
		// No dia 1 ainda não há dias fechados no mês: usa o mês anterior inteiro
		if until.Before(since) {
			since = since.AddDate(0, -1, 0)
		}
	}

	current := domain.NewDateRange(since, until, label)

	var previous domain.DateRange
	if token == PeriodThisMonth {
		previous = previousMonthSpan(current)
	} else {
		previous = precedingSpan(current)
	}
	previous.Label = fmt.Sprintf("%s (anterior)", label)

	return &ResolvedPeriod{
		Token:    token,
		Label:    label,
		Current:  current,
		Previous: previous,
	}, nil
}

// ResolveManualPeriod aplica o único padrão permitido: sem token, "yesterday".
// Um token informado nunca é trocado por outro.
func ResolveManualPeriod(token string, ref time.Time) (*ResolvedPeriod, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = PeriodYesterday
	}

	return ResolvePeriod(token, ref)
}

// precedingSpan retorna os N dias imediatamente anteriores ao intervalo
func precedingSpan(r domain.DateRange) domain.DateRange {
	days := r.Days()
	until := r.Since.AddDate(0, 0, -1)
	since := until.AddDate(0, 0, -(days - 1))
	return domain.NewDateRange(since, until, "")
}

// previousMonthSpan desloca o intervalo um mês para trás. Se o mês anterior for
// mais curto e o intervalo deslocado invadir o atual, ele é recuado até
// terminar no dia anterior ao início do atual.
func previousMonthSpan(r domain.DateRange) domain.DateRange {
	days := r.Days()
	since := r.Since.AddDate(0, -1, 0)
	until := since.AddDate(0, 0, days-1)

	if !until.Before(r.Since) {
		return precedingSpan(r)
	}

	return domain.NewDateRange(since, until, "")
}

// ParseReference interpreta uma data de referência: 2006-01-02 lida no fuso
// civil ou um horário RFC3339
func ParseReference(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, value, domain.CivilLocation); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, value)
}
