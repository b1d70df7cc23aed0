package handler

import (
	"net/http"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/api/handler/router"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/authenticating"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/clienting"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/reporting"
	"github.com/gouveiaesilva/dashmilo-api/pkg/middleware"
	"github.com/justinas/alice"
)

func adminOnly() []alice.Constructor {
	return []alice.Constructor{middleware.AdminOnly()}
}

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Clients(service clienting.ClientService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/clients",
			Method:  http.MethodGet,
			Handler: ListClients(service),
		},
		{
			Path:        "/v1/clients",
			Method:      http.MethodPost,
			Handler:     CreateClient(service),
			Middlewares: adminOnly(),
		},
		{
			Path:    "/v1/clients/:id",
			Method:  http.MethodGet,
			Handler: GetClient(service),
		},
		{
			Path:        "/v1/clients/:id",
			Method:      http.MethodPut,
			Handler:     UpdateClient(service),
			Middlewares: adminOnly(),
		},
		{
			Path:        "/v1/clients/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteClient(service),
			Middlewares: adminOnly(),
		},
	}
}

func Reports(reporter reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/clients/:id/insights",
			Method:  http.MethodGet,
			Handler: PreviewInsights(reporter),
		},
		{
			Path:        "/v1/clients/:id/reports/send",
			Method:      http.MethodPost,
			Handler:     SendReport(reporter),
			Middlewares: adminOnly(),
		},
	}
}

func Periods(now func() time.Time) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/periods",
			Method:  http.MethodGet,
			Handler: ListPeriods(now),
		},
		{
			Path:    "/v1/periods/:token",
			Method:  http.MethodGet,
			Handler: ResolvePeriod(now),
		},
	}
}

func CronJobs(dispatcher ReportDispatcher) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/reports/run",
			Method:      http.MethodPost,
			Handler:     RunReportDispatch(dispatcher),
			Middlewares: adminOnly(),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(dispatcher),
		},
	}
}
