// Package cli expõe as operações do disparo de relatórios na linha de comando,
// para uso em cron externo e em depuração.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gouveiaesilva/dashmilo-api/internal/app"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	logLevel  string
	cfg       *config.Config
	appHandle *app.App
)

var rootCmd = &cobra.Command{
	Use:           "reporter",
	Short:         "Relatórios de performance agendados para os clientes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logrus.SetOutput(os.Stderr)

		if cfg != nil {
			return nil
		}

		loaded, err := config.NewConfig()
		if err != nil {
			return err
		}

		level := loaded.App.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		if _, err := log.Setup(level); err != nil {
			return fmt.Errorf("nível de log inválido: %s", level)
		}

		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appHandle != nil {
			appHandle.Close()
			appHandle = nil
		}
	},
}

// Execute roda o comando raiz
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Sobrescreve o LOG_LEVEL da configuração")

	rootCmd.AddCommand(tickCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(migrateCmd)
}

// getApp abre o armazenamento sob demanda: "period" não precisa dele
func getApp(cmd *cobra.Command, opts ...app.Option) (*app.App, error) {
	if appHandle != nil {
		return appHandle, nil
	}

	a, err := app.New(cmd.Context(), cfg, opts...)
	if err != nil {
		return nil, err
	}

	appHandle = a
	return appHandle, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}
