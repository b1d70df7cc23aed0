package reporting

import (
	"errors"
	"fmt"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
)

// ReportError carrega o contexto de uma falha de despacho de relatório
type ReportError struct {
	Err      error  // Erro base (um dos domain.Err*)
	Code     string // Código de erro para API
	ClientID string
	Details  string
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError cria um ReportError escolhendo o código de API pelo tipo do erro
func NewReportError(err error, clientID string, details string) *ReportError {
	return &ReportError{
		Err:      err,
		Code:     ErrorCode(err),
		ClientID: clientID,
		Details:  details,
	}
}

// ErrorCode mapeia os tipos de erro do pipeline para os códigos da API
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod):
		return apiErrors.ErrInvalidPeriod
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return apiErrors.ErrUpstreamRateLimited
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return apiErrors.ErrUpstreamUnavailable
	case errors.Is(err, domain.ErrDeliveryFailed):
		return apiErrors.ErrDeliveryFailed
	case errors.Is(err, domain.ErrNotConfigured):
		return apiErrors.ErrNotConfigured
	case errors.Is(err, domain.ErrClientNotFound):
		return apiErrors.ErrClientNotFound
	default:
		return apiErrors.ErrInternalServer
	}
}
