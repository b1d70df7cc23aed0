package metaclient

//go:generate mockgen -source=client.go -destination=../mocks/metaclient_mock.go -package=mocks

import (
	"context"
	"net/http"

	metadomain "github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"golang.org/x/time/rate"
)

type Client interface {
	// GetCampaignInsights busca as métricas por campanha da conta no intervalo,
	// seguindo a paginação até o fim
	GetCampaignInsights(ctx context.Context, accountID string, dateRange domain.DateRange) ([]metadomain.CampaignInsight, error)
}

type MetaClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	httpClient   *http.Client
	limiter      *rate.Limiter
}

func NewClient(cfg *config.Config, tokenManager *TokenManager, httpClient *http.Client) *MetaClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Meta.RequestTimeout}
	}

	limit := rate.Inf
	if cfg.Meta.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.Meta.RequestsPerSecond)
	}

	return &MetaClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(limit, 1),
	}
}
