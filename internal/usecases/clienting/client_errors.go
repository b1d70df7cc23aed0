package clienting

import (
	"errors"
	"fmt"

	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
)

// Erros específicos para o cadastro de clientes
var (
	ErrClientIDRequired  = errors.New("client ID is required")
	ErrInvalidClient     = errors.New("invalid client")
	ErrDatabaseOperation = errors.New("database operation error")
	ErrGenerateID        = errors.New("error generating client ID")
)

// ClientError é um erro com contexto adicional para clientes
type ClientError struct {
	Err      error  // Erro base
	Code     string // Código de erro para API
	ClientID string
	Details  string
	Fields   map[string]string // Campos inválidos (validação)
}

func (e *ClientError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func NewClientError(err error, code string, clientID string, details string) *ClientError {
	return &ClientError{
		Err:      err,
		Code:     code,
		ClientID: clientID,
		Details:  details,
	}
}

func newValidationError(clientID string, fields map[string]string) *ClientError {
	return &ClientError{
		Err:      ErrInvalidClient,
		Code:     apiErrors.ErrInvalidClient,
		ClientID: clientID,
		Details:  "dados do cliente inválidos",
		Fields:   fields,
	}
}
