package middleware

import (
	"net/http"

	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// AdminOnly restringe a rota a sessões administrativas (token de login ou
// segredo estático). Deve rodar depois do AuthMiddleware.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logrus.WithField("path", r.URL.Path).Warning("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !claims.Admin {
				logrus.WithField("subject", claims.Subject).Warning("Acesso negado para sessão sem privilégio administrativo")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
