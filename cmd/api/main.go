package main

import (
	"context"

	"github.com/gouveiaesilva/dashmilo-api/internal/api"
	"github.com/gouveiaesilva/dashmilo-api/internal/app"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/pkg/log"
	"github.com/sirupsen/logrus"
)

func main() {
	// Formato dos logs antes da configuração; o nível é ajustado depois
	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := log.Setup(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
	}
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, app.WithMigrations())
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar dependências")
	}
	defer application.Close()

	go application.TokenManager.StartAutoRefresh(ctx)

	if err := application.Dispatcher.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de relatórios")
	} else {
		logrus.Info("Agendador de relatórios iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		application.Clients,
		application.Reporter,
		application.Authenticator,
		application.Dispatcher,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}
