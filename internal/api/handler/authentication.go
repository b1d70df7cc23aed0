package handler

import (
	"net/http"

	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/authenticating"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

type LoginRequest struct {
	Secret string `json:"secret"`
}

// Login troca o segredo administrativo por um token de sessão
func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := decodeBody(r, &req, false); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if req.Secret == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "O segredo é obrigatório", nil)
			return
		}

		session, err := service.Login(req.Secret)
		if err != nil {
			logrus.WithField("remote_addr", r.RemoteAddr).Warn("Tentativa de login recusada")
			writeServiceError(w, err, "Erro ao autenticar")
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}
