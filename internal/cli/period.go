package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/spf13/cobra"
)

var periodAt string

var periodCmd = &cobra.Command{
	Use:   "period <token>",
	Short: "Mostra os intervalos atual e anterior de um token de período",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := time.Now()
		if at := strings.TrimSpace(periodAt); at != "" {
			parsed, err := reporting.ParseReference(at)
			if err != nil {
				return fmt.Errorf("--at inválido: use 2006-01-02 ou RFC3339")
			}
			ref = parsed
		}

		period, err := reporting.ResolvePeriod(args[0], ref)
		if err != nil {
			return fmt.Errorf("%w (aceitos: %s)", err, strings.Join(reporting.PeriodTokens(), ", "))
		}

		return printJSON(cmd.OutOrStdout(), period)
	},
}

func init() {
	periodCmd.Flags().StringVar(&periodAt, "at", "", "Data de referência (padrão: agora)")
}
