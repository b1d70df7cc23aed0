package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/api/handler"
	"github.com/gouveiaesilva/dashmilo-api/internal/api/handler/router"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/authenticating"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/clienting"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/gouveiaesilva/dashmilo-api/pkg/middleware"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

// NewHandler monta o roteador com a cadeia de middlewares global
func NewHandler(
	config *config.Config,
	clientService clienting.ClientService,
	reporter reporting.Reporter,
	authenticator authenticating.Authenticator,
	dispatcher handler.ReportDispatcher,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.Clients(clientService)...),
		router.WithRoutes(handler.Reports(reporter)...),
		router.WithRoutes(handler.Periods(time.Now)...),
		router.WithRoutes(handler.CronJobs(dispatcher)...),
	)

	logrus.WithField("routes", rt.Routes()).Debug("Rotas registradas")

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	config *config.Config,
	clientService clienting.ClientService,
	reporter reporting.Reporter,
	authenticator authenticating.Authenticator,
	dispatcher handler.ReportDispatcher,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, clientService, reporter, authenticator, dispatcher),
			ReadHeaderTimeout: 2 * time.Second,
			// O envio manual aguarda a plataforma de anúncios e o webhook
			WriteTimeout: config.Meta.RequestTimeout + config.Webhook.Timeout + 30*time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
