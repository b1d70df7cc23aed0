package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/authenticating"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"

	// SecretHeader carrega o segredo estático usado por automações (cron externo)
	SecretHeader = "X-Admin-Secret"
)

var publicPaths = map[string]bool{
	"/healthcheck": true,
	"/v1/login":    true,
}

// AuthMiddleware libera leituras para o painel e exige o token de sessão ou o
// segredo estático em qualquer escrita.
func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authenticate(authService, r)
			if err != nil {
				if isReadOnly(r.Method) && errors.Is(err, errNoCredentials) {
					next.ServeHTTP(w, r)
					return
				}

				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var errNoCredentials = errors.New("credenciais ausentes")

func authenticate(authService authenticating.Authenticator, r *http.Request) (*domain.Claims, error) {
	if secret := r.Header.Get(SecretHeader); secret != "" {
		return authService.ValidateSecret(secret)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errNoCredentials
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, authenticating.NewAuthError(authenticating.ErrInvalidToken, apiErrors.ErrInvalidToken, "Bearer token is required")
	}

	return authService.ValidateToken(tokenString)
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNoCredentials) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Authorization header is required", nil)
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		logrus.WithField("error", authErr.Error()).Warn("Falha de autenticação")
		apiErrors.WriteError(w, authErr.Code, authErr.Err.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Invalid token", nil)
}

// ClaimsFromContext retorna a sessão autenticada, se houver
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}
