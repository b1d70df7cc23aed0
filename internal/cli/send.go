package cli

import (
	"fmt"
	"strings"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/integrator/webhook"
	"github.com/spf13/cobra"
)

var (
	sendClientID    string
	sendPeriod      string
	sendIncludeLink bool

	previewClientID string
	previewPeriod   string
	previewText     bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Envia agora o relatório de um cliente para o webhook configurado",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(sendClientID) == "" {
			return fmt.Errorf("--client é obrigatório")
		}

		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		result, err := a.Reporter.SendNow(cmd.Context(), sendClientID, sendPeriod, sendIncludeLink)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), result)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Monta o relatório de um cliente sem enviá-lo",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(previewClientID) == "" {
			return fmt.Errorf("--client é obrigatório")
		}

		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		payload, err := a.Reporter.Preview(cmd.Context(), previewClientID, previewPeriod)
		if err != nil {
			return err
		}

		if previewText {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), webhook.FormatMessage(payload))
			return err
		}

		return printJSON(cmd.OutOrStdout(), payload)
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendClientID, "client", "", "ID do cliente")
	sendCmd.Flags().StringVar(&sendPeriod, "period", "", "Token do período (padrão: yesterday)")
	sendCmd.Flags().BoolVar(&sendIncludeLink, "link", false, "Inclui o link do painel na mensagem")

	previewCmd.Flags().StringVar(&previewClientID, "client", "", "ID do cliente")
	previewCmd.Flags().StringVar(&previewPeriod, "period", "", "Token do período (padrão: yesterday)")
	previewCmd.Flags().BoolVar(&previewText, "text", false, "Mostra a mensagem como seria entregue no webhook")
}
