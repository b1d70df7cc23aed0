package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/authenticating"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/clienting"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}

// writeServiceError traduz os erros tipados dos casos de uso para a resposta
// padronizada da API
func writeServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	var clientErr *clienting.ClientError
	if errors.As(err, &clientErr) {
		var details any
		if len(clientErr.Fields) > 0 {
			details = clientErr.Fields
		}
		apiErrors.WriteError(w, clientErr.Code, clientErr.Error(), details)
		return
	}

	var reportErr *reporting.ReportError
	if errors.As(err, &reportErr) {
		var details any
		if reportErr.ClientID != "" {
			details = map[string]string{"client_id": reportErr.ClientID}
		}
		apiErrors.WriteError(w, reportErr.Code, reportErr.Error(), details)
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		apiErrors.WriteError(w, authErr.Code, authErr.Err.Error(), nil)
		return
	}

	if errors.Is(err, domain.ErrClientNotFound) {
		apiErrors.WriteError(w, apiErrors.ErrClientNotFound, "Cliente não encontrado", nil)
		return
	}

	logrus.WithError(err).Error(fallbackMessage)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
}

// decodeBody aceita corpo vazio quando allowEmpty é verdadeiro
func decodeBody(r *http.Request, target any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return io.EOF
	}

	err := json.NewDecoder(r.Body).Decode(target)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
