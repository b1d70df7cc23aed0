package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/gouveiaesilva/dashmilo-api/pkg/log"
	"github.com/julienschmidt/httprouter"
)

type SendReportRequest struct {
	Period      string `json:"period"`
	IncludeLink bool   `json:"include_link"`
}

type SendReportResponse struct {
	Message string                    `json:"message"`
	Result  *reporting.DispatchResult `json:"result"`
}

// PreviewInsights monta o relatório de um cliente sem enviá-lo ao webhook
func PreviewInsights(reporter reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		clientID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		period := r.URL.Query().Get("period")

		payload, err := reporter.Preview(r.Context(), clientID, period)
		if err != nil {
			logger.WithFields(log.Fields{
				"client_id": clientID,
				"period":    period,
				"error":     err.Error(),
			}).Warn("Erro ao montar prévia do relatório")
			writeServiceError(w, err, "Erro ao montar prévia do relatório")
			return
		}

		writeJSON(w, http.StatusOK, payload)
	})
}

// SendReport executa o envio manual e devolve o resultado da entrega
func SendReport(reporter reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req SendReportRequest
		if err := decodeBody(r, &req, true); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		clientID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		result, err := reporter.SendNow(r.Context(), clientID, req.Period, req.IncludeLink)
		if err != nil {
			logger.WithFields(log.Fields{
				"client_id": clientID,
				"period":    req.Period,
				"error":     err.Error(),
			}).Error("Erro no envio manual de relatório")
			writeServiceError(w, err, "Erro ao enviar relatório")
			return
		}

		writeJSON(w, http.StatusOK, SendReportResponse{
			Message: "Relatório enviado com sucesso",
			Result:  result,
		})
	})
}

// ListPeriods lista os tokens aceitos já resolvidos para a data atual
func ListPeriods(now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ref := now()

		periods := make([]*reporting.ResolvedPeriod, 0, len(reporting.PeriodTokens()))
		for _, token := range reporting.PeriodTokens() {
			period, err := reporting.ResolvePeriod(token, ref)
			if err != nil {
				writeServiceError(w, err, "Erro ao resolver períodos")
				return
			}
			periods = append(periods, period)
		}

		writeJSON(w, http.StatusOK, periods)
	})
}

// ResolvePeriod mostra os intervalos de um token. O parâmetro "at" aceita uma
// data (2006-01-02, lida no fuso civil) ou um horário RFC3339.
func ResolvePeriod(now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := httprouter.ParamsFromContext(r.Context()).ByName("token")

		ref := now()
		if at := strings.TrimSpace(r.URL.Query().Get("at")); at != "" {
			parsed, err := reporting.ParseReference(at)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro at inválido: use 2006-01-02 ou RFC3339", nil)
				return
			}
			ref = parsed
		}

		period, err := reporting.ResolvePeriod(token, ref)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, err.Error(), map[string]any{
				"accepted": reporting.PeriodTokens(),
			})
			return
		}

		writeJSON(w, http.StatusOK, period)
	})
}
