package handler

import (
	"net/http"

	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/internal/usecases/clienting"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/gouveiaesilva/dashmilo-api/pkg/middleware"
	"github.com/julienschmidt/httprouter"
)

func ListClients(service clienting.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clients, err := service.ListClients(r.Context())
		if err != nil {
			writeServiceError(w, err, "Erro ao listar clientes")
			return
		}

		if clients == nil {
			clients = []*domain.Client{}
		}

		if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
			redacted := make([]*domain.Client, 0, len(clients))
			for _, client := range clients {
				redacted = append(redacted, client.WithoutSecrets())
			}
			clients = redacted
		}

		writeJSON(w, http.StatusOK, clients)
	})
}

func GetClient(service clienting.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		client, err := service.GetClient(r.Context(), clientID)
		if err != nil {
			writeServiceError(w, err, "Erro ao buscar cliente")
			return
		}

		// Leitura sem sessão não recebe o webhook
		if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
			client = client.WithoutSecrets()
		}

		writeJSON(w, http.StatusOK, client)
	})
}

func CreateClient(service clienting.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateClientRequest
		if err := decodeBody(r, &req, false); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		client, err := service.CreateClient(r.Context(), &req)
		if err != nil {
			writeServiceError(w, err, "Erro ao criar cliente")
			return
		}

		writeJSON(w, http.StatusCreated, client)
	})
}

func UpdateClient(service clienting.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.UpdateClientRequest
		if err := decodeBody(r, &req, false); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		// O id da URL prevalece sobre qualquer id enviado no corpo
		req.ID = httprouter.ParamsFromContext(r.Context()).ByName("id")

		client, err := service.UpdateClient(r.Context(), &req)
		if err != nil {
			writeServiceError(w, err, "Erro ao atualizar cliente")
			return
		}

		writeJSON(w, http.StatusOK, client)
	})
}

func DeleteClient(service clienting.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteClient(r.Context(), clientID); err != nil {
			writeServiceError(w, err, "Erro ao remover cliente")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
