package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 10 * time.Second

// Message é o corpo enviado ao webhook. O campo text é o que os chats
// (Google Chat, Slack) exibem; report leva os dados estruturados.
type Message struct {
	Text   string                `json:"text"`
	Report *domain.ReportPayload `json:"report,omitempty"`
}

// WebhookNotifier entrega relatórios em webhooks de chat via HTTP POST
type WebhookNotifier struct {
	client     *http.Client
	attachData bool
	userAgent  string
}

func NewWebhookNotifier(timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &WebhookNotifier{
		client:     &http.Client{Timeout: timeout},
		attachData: true,
		userAgent:  "dashmilo-reporter/1.0",
	}
}

// WithoutReportData envia apenas o texto, para webhooks que rejeitam campos extras
func (n *WebhookNotifier) WithoutReportData() *WebhookNotifier {
	n.attachData = false
	return n
}

// Deliver faz uma única chamada ao webhook. Qualquer falha (rede, timeout ou
// status fora de 2xx) retorna domain.ErrDeliveryFailed.
func (n *WebhookNotifier) Deliver(ctx context.Context, destinationURL string, payload *domain.ReportPayload) error {
	if destinationURL == "" {
		return fmt.Errorf("%w: webhook não informado", domain.ErrDeliveryFailed)
	}
	if payload == nil {
		return fmt.Errorf("%w: relatório vazio", domain.ErrDeliveryFailed)
	}

	message := Message{Text: FormatMessage(payload)}
	if n.attachData {
		message.Report = payload
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%w: erro ao serializar mensagem: %v", domain.ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destinationURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: erro ao criar requisição: %v", domain.ErrDeliveryFailed, withoutURL(err))
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", n.userAgent)

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		// A URL do webhook carrega o segredo do destino
		err = withoutURL(err)
		logrus.WithFields(logrus.Fields{
			"client_id": payload.ClientID,
			"error":     err.Error(),
		}).Error("webhook: erro ao enviar relatório")
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	// O corpo da resposta não é interpretado, só descartado
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"client_id":   payload.ClientID,
			"status_code": resp.StatusCode,
		}).Error("webhook: resposta inesperada do destino")
		return fmt.Errorf("%w: status %d", domain.ErrDeliveryFailed, resp.StatusCode)
	}

	logrus.WithFields(logrus.Fields{
		"client_id":   payload.ClientID,
		"status_code": resp.StatusCode,
		"duration":    time.Since(start).String(),
	}).Debug("webhook: relatório entregue")

	return nil
}

func withoutURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

var _ reporting.Notifier = (*WebhookNotifier)(nil)
