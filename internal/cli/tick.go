package cli

import (
	"github.com/spf13/cobra"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Avalia as agendas da hora civil atual e envia os relatórios devidos",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		report, err := a.Dispatcher.Tick(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), report)
	},
}
