package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/sirupsen/logrus"
)

const refreshInterval = 23 * time.Hour

// TokenManager guarda o token de acesso do Meta e o renova quando o app id e o
// app secret estão configurados.
type TokenManager struct {
	cfg        config.Meta
	httpClient *http.Client
	mu         sync.RWMutex
	token      string
	expiresAt  time.Time
	noExpiry   bool
	now        func() time.Time
}

func NewTokenManager(cfg config.Meta, httpClient *http.Client) *TokenManager {
	return &TokenManager{
		cfg:        cfg,
		httpClient: httpClient,
		token:      cfg.AccessToken,
		expiresAt:  cfg.TokenExpiresAt,
		now:        time.Now,
	}
}

// AccessToken retorna o token atual
func (tm *TokenManager) AccessToken() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.token
}

func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.expiresAt
}

// CanRefresh indica se há credenciais do app para trocar o token
func (tm *TokenManager) CanRefresh() bool {
	return tm.cfg.TokenAutoRefresh && tm.cfg.AppID != "" && tm.cfg.AppSecret != ""
}

// EnsureValidToken renova o token quando ele expira em menos de 24 horas.
// Sem credenciais do app o token configurado é usado como está.
func (tm *TokenManager) EnsureValidToken(ctx context.Context) error {
	if tm.AccessToken() == "" {
		return fmt.Errorf("meta: token de acesso não configurado")
	}

	if !tm.CanRefresh() {
		return nil
	}

	tm.mu.RLock()
	noExpiry, expiresAt := tm.noExpiry, tm.expiresAt
	tm.mu.RUnlock()

	if noExpiry {
		return nil
	}

	if expiresAt.Sub(tm.now()) < 24*time.Hour {
		logrus.Info("meta: token expira em menos de 24 horas. Renovando proativamente...")
		return tm.RefreshToken(ctx)
	}

	return nil
}

// RefreshToken obtém um novo token de longa duração
func (tm *TokenManager) RefreshToken(ctx context.Context) error {
	if !tm.CanRefresh() {
		return fmt.Errorf("meta: renovação de token não configurada")
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tokenResponse, err := GetLongLivedToken(
		ctx,
		tm.httpClient,
		tm.token,
		tm.cfg.AppID,
		tm.cfg.AppSecret,
		tm.cfg.BaseURL,
		tm.cfg.Version,
	)
	if err != nil {
		return fmt.Errorf("erro ao obter novo token de longa duração: %w", err)
	}

	changed := tokenResponse.AccessToken != tm.token
	tm.token = tokenResponse.AccessToken
	tm.expiresAt = CalculateTokenExpiration(tm.now(), tokenResponse.ExpiresIn)
	tm.noExpiry = tokenResponse.ExpiresIn <= 0

	if changed {
		logrus.WithField("expires_at", tm.expiresAt.Format(time.RFC3339)).Info("meta: token de longa duração atualizado")
	} else {
		logrus.Info("meta: token renovado, mas não mudou")
	}

	return nil
}

// StartAutoRefresh renova o token periodicamente até o contexto ser cancelado
func (tm *TokenManager) StartAutoRefresh(ctx context.Context) {
	if !tm.CanRefresh() {
		return
	}

	if err := tm.EnsureValidToken(ctx); err != nil {
		logrus.WithError(err).Error("meta: erro ao validar token na inicialização")
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("meta: iniciando renovação periódica do token")
			if err := tm.RefreshToken(ctx); err != nil {
				logrus.WithError(err).Error("meta: erro na renovação periódica do token")

				// Se falhar, tente novamente em um intervalo mais curto
				ticker.Reset(time.Hour)
			} else {
				ticker.Reset(refreshInterval)
			}
		case <-ctx.Done():
			logrus.Info("meta: encerrando renovação periódica do token")
			return
		}
	}
}
