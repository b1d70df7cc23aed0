package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// Códigos de erro da API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken          = "AUTH_001" // Token inválido
	ErrExpiredToken          = "AUTH_002" // Token expirado
	ErrInsufficientPrivilege = "AUTH_003" // Privilégios insuficientes
	ErrInvalidSecret         = "AUTH_004" // Segredo administrativo inválido

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrResourceNotFound    = "VAL_004" // Rota inexistente
	ErrMethodNotAllowed    = "VAL_005" // Método não suportado pela rota

	// Erros de clientes (3000-3999)
	ErrClientNotFound = "CLI_001" // Cliente não encontrado
	ErrInvalidClient  = "CLI_002" // Dados do cliente inválidos

	// Erros de relatórios (4000-4999)
	ErrInvalidPeriod       = "REP_001" // Token de período desconhecido
	ErrUpstreamUnavailable = "REP_002" // Plataforma de anúncios indisponível
	ErrUpstreamRateLimited = "REP_003" // Limite de requisições da plataforma atingido
	ErrDeliveryFailed      = "REP_004" // Falha ao entregar no webhook
	ErrNotConfigured       = "REP_005" // Cliente sem webhook ou conta de anúncios
	ErrDispatchRunning     = "REP_006" // Disparo já em execução

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
	ErrCommunication     = "SRV_004" // Erro de comunicação
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrResourceNotFound:      http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrInvalidSecret:         http.StatusUnauthorized,
	ErrClientNotFound:        http.StatusNotFound,
	ErrInvalidClient:         http.StatusBadRequest,
	ErrInvalidPeriod:         http.StatusBadRequest,
	ErrUpstreamUnavailable:   http.StatusBadGateway,
	ErrUpstreamRateLimited:   http.StatusTooManyRequests,
	ErrDeliveryFailed:        http.StatusBadGateway,
	ErrNotConfigured:         http.StatusUnprocessableEntity,
	ErrDispatchRunning:       http.StatusConflict,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
// Útil para quando você quer envolver um erro existente em um erro de API
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}

// StatusFor retorna o status HTTP associado a um código de erro
func StatusFor(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
