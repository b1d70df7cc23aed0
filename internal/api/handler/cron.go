package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gouveiaesilva/dashmilo-api/internal/scheduler"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// ReportDispatcher é a parte do agendador de relatórios exposta pela API
type ReportDispatcher interface {
	TriggerManualSync(ctx context.Context) error
	GetStatus() map[string]any
}

// RunReportDispatch dispara uma avaliação das agendas fora do horário do cron
func RunReportDispatch(dispatcher ReportDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunReportDispatch")

		if dispatcher == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de disparo de relatórios não disponível", nil)
			return
		}

		if err := dispatcher.TriggerManualSync(r.Context()); err != nil {
			if errors.Is(err, scheduler.ErrTickRunning) {
				apiErrors.WriteError(w, apiErrors.ErrDispatchRunning, "Já existe um disparo de relatórios em andamento", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao iniciar disparo de relatórios")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar disparo de relatórios", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Disparo de relatórios iniciado com sucesso",
		})
	}
}

// GetCronStatus retorna o status do agendador de relatórios
func GetCronStatus(dispatcher ReportDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dispatcher == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de disparo de relatórios não disponível", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"reports": dispatcher.GetStatus(),
		})
	}
}
