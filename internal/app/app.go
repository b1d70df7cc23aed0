// Package app monta as dependências compartilhadas pelo servidor HTTP e pela
// linha de comando.
package app

import (
	"context"
	"net/http"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/database/postgres"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/meta/metaclient"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/webhook"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/kvstore"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/migration"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/scheduler"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/authenticating"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/clienting"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type App struct {
	Config        *config.Config
	Clients       *clienting.Service
	Reporter      *reporting.Service
	Authenticator *authenticating.Service
	Dispatcher    *scheduler.ReportDispatchService
	TokenManager  *metaclient.TokenManager

	closers []func() error
}

type Option func(*options)

type options struct {
	migrate bool
}

// WithMigrations aplica os scripts pendentes ao abrir o PostgreSQL
func WithMigrations() Option {
	return func(o *options) {
		o.migrate = true
	}
}

// New abre o armazenamento escolhido em STORE_DRIVER e monta os serviços
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg}

	clientRepo, ledger, err := a.openStore(ctx, o)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.TokenManager = metaclient.NewTokenManager(cfg.Meta, &http.Client{Timeout: cfg.Meta.RequestTimeout})
	metaClient := metaclient.NewClient(cfg, a.TokenManager, nil)
	aggregator := meta.New(metaClient)

	notifier := webhook.NewWebhookNotifier(cfg.Webhook.Timeout)

	a.Reporter = reporting.NewService(cfg, clientRepo, aggregator, notifier)
	a.Clients = clienting.NewService(clientRepo)
	a.Authenticator = authenticating.NewService(cfg)
	a.Dispatcher = scheduler.NewReportDispatchService(clientRepo, ledger, a.Reporter, cfg)

	return a, nil
}

func (a *App) openStore(ctx context.Context, o *options) (repository.ClientRepository, repository.DispatchLedger, error) {
	cfg := a.Config

	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		rdb, err := kvstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, errors.Wrap(err, "erro ao conectar ao Redis")
		}
		a.closers = append(a.closers, rdb.Close)

		logrus.WithField("addr", cfg.Redis.Addr).Info("Diretório de clientes no Redis")

		return kvstore.NewClientStore(rdb, cfg.Redis.KeyPrefix),
			kvstore.NewDispatchLedger(rdb, cfg.Redis.KeyPrefix, cfg.ReportDispatch.IdempotencyTTL),
			nil
	default:
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, nil, errors.Wrap(err, "erro ao conectar ao PostgreSQL")
		}
		a.closers = append(a.closers, conn.Close)

		if o.migrate {
			applied, err := migration.Up(ctx, conn)
			if err != nil {
				return nil, nil, err
			}
			logrus.WithField("applied", applied).Info("Migrações verificadas")
		}

		logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")

		return repository.NewClientRepository(conn), repository.NewDispatchLedger(conn), nil
	}
}

// Close libera as conexões abertas em New
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão")
		}
	}
	a.closers = nil
}
