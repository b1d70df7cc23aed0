package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	metadomain "github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	insightFields = "campaign_id,campaign_name,objective,spend,impressions,clicks,actions"
	pageLimit     = "500"
	maxPages      = 50
)

var errTokenExpired = errors.New("token expirado")

func (c *MetaClient) GetCampaignInsights(ctx context.Context, accountID string, dateRange domain.DateRange) ([]metadomain.CampaignInsight, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.TokenManager.EnsureValidToken(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	insights, err := c.fetchAllPages(ctx, accountID, dateRange)
	if errors.Is(err, errTokenExpired) && c.TokenManager.CanRefresh() {
		if refreshErr := c.TokenManager.RefreshToken(ctx); refreshErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, refreshErr)
		}
		return c.fetchAllPages(ctx, accountID, dateRange)
	}

	return insights, err
}

func (c *MetaClient) fetchAllPages(ctx context.Context, accountID string, dateRange domain.DateRange) ([]metadomain.CampaignInsight, error) {
	nextURL := c.insightsURL(accountID, dateRange)
	insights := make([]metadomain.CampaignInsight, 0)

	for page := 0; nextURL != "" && page < maxPages; page++ {
		body, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var response metadomain.InsightsPage
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("meta: resposta de insights em formato inesperado")
			return nil, fmt.Errorf("%w: resposta inválida: %v", domain.ErrUpstreamUnavailable, err)
		}
		if response.Data == nil {
			return nil, fmt.Errorf("%w: resposta sem campo data", domain.ErrUpstreamUnavailable)
		}

		insights = append(insights, response.Data...)

		nextURL = ""
		if response.Paging != nil {
			nextURL = withoutAccessToken(response.Paging.Next)
		}
	}

	// Um resultado parcial seria agregado como se fosse o total da conta
	if nextURL != "" {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"max_pages":  maxPages,
		}).Error("meta: limite de paginação de insights atingido")
		return nil, fmt.Errorf("%w: paginação excedeu %d páginas", domain.ErrUpstreamUnavailable, maxPages)
	}

	return insights, nil
}

func (c *MetaClient) insightsURL(accountID string, dateRange domain.DateRange) string {
	accountID = strings.TrimPrefix(strings.TrimSpace(accountID), "act_")

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", dateRange.SinceDate(), dateRange.UntilDate())

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", insightFields)
	params.Add("time_range", timeRange)
	params.Add("limit", pageLimit)

	return fmt.Sprintf("%s/act_%s/insights?%s", c.Cfg.Meta.URL, accountID, params.Encode())
}

// get faz uma chamada respeitando o limite de requisições e classifica os erros
func (c *MetaClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao criar a requisição: %v", domain.ErrUpstreamUnavailable, stripURL(err))
	}
	req.Header.Set("Authorization", "Bearer "+c.TokenManager.AccessToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = stripURL(err)
		logrus.WithError(err).Error("meta: erro ao fazer a requisição")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler resposta: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	return nil, classifyError(resp.StatusCode, body)
}

// withoutAccessToken remove o token dos links de paginação devolvidos pelo
// Meta. O token segue no cabeçalho Authorization.
func withoutAccessToken(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := parsed.Query()
	if !query.Has("access_token") {
		return rawURL
	}
	query.Del("access_token")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// stripURL descarta a URL de um *url.Error. A URL pode carregar credenciais
// na query e não deve chegar a logs nem a mensagens de erro.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

// classifyError converte uma resposta de erro da Graph API em um dos tipos de
// erro do pipeline
func classifyError(status int, body []byte) error {
	var errorResp metadomain.ErrorResponse
	parseErr := json.Unmarshal(body, &errorResp)

	if status == http.StatusTooManyRequests || (parseErr == nil && errorResp.IsRateLimited()) {
		logrus.WithFields(logrus.Fields{
			"status": status,
			"code":   errorResp.Error.Code,
		}).Warn("meta: limite de requisições atingido")
		return fmt.Errorf("%w: status %d, código %d", domain.ErrUpstreamRateLimited, status, errorResp.Error.Code)
	}

	if parseErr == nil && errorResp.IsTokenExpired() {
		logrus.WithFields(logrus.Fields{
			"code":    errorResp.Error.Code,
			"subcode": errorResp.Error.ErrorSubcode,
		}).Warn("meta: token expirado detectado pela API")
		return fmt.Errorf("%w: %w: %s", domain.ErrUpstreamUnavailable, errTokenExpired, errorResp.Error.Message)
	}

	message := strings.TrimSpace(string(body))
	if parseErr == nil && errorResp.Error.Message != "" {
		message = errorResp.Error.Message
	}

	return fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, status, message)
}
