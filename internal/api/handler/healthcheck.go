package handler

import (
	"net/http"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
)

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(domain.CivilLocation).Format(time.RFC3339),
		})
	})
}
