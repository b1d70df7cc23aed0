package clienting

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/gouveiaesilva/dashmilo-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ClientService interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	CreateClient(ctx context.Context, request *domain.CreateClientRequest) (*domain.Client, error)
	UpdateClient(ctx context.Context, request *domain.UpdateClientRequest) (*domain.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
}

type Service struct {
	clientRepository repository.ClientRepository
	generateID       func() (string, error)
	now              func() time.Time
}

func NewService(clientRepository repository.ClientRepository) *Service {
	return &Service{
		clientRepository: clientRepository,
		generateID:       utils.GenerateID,
		now:              time.Now,
	}
}

func (s *Service) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clientRepository.ListClients(ctx)
	if err != nil {
		logrus.WithField("error", err).Error("clients: erro ao listar clientes")
		return nil, NewClientError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "", "Falha ao listar clientes no banco de dados")
	}

	return clients, nil
}

func (s *Service) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	if clientID == "" {
		return nil, NewClientError(ErrClientIDRequired, apiErrors.ErrMissingRequiredData, "", "ID do cliente é obrigatório")
	}

	client, err := s.clientRepository.GetClient(ctx, clientID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err,
		}).Error("clients: erro ao buscar cliente")
		return nil, NewClientError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, clientID, "Erro ao buscar cliente no banco de dados")
	}

	if client == nil {
		return nil, NewClientError(domain.ErrClientNotFound, apiErrors.ErrClientNotFound, clientID, "Cliente não encontrado")
	}

	return client, nil
}

func (s *Service) CreateClient(ctx context.Context, request *domain.CreateClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		Name:         request.Name,
		AdAccountID:  request.AdAccountID,
		Color:        request.Color,
		Targets:      request.Targets,
		WebhookURL:   request.WebhookURL,
		DashboardURL: request.DashboardURL,
		Schedules:    request.Schedules,
	}

	normalizeClient(client)
	if fields := validateClient(client); len(fields) > 0 {
		return nil, newValidationError("", fields)
	}

	clientID, err := s.generateID()
	if err != nil {
		return nil, NewClientError(ErrGenerateID, apiErrors.ErrInternalServer, "", "Falha ao gerar identificador único para cliente")
	}

	now := s.now().UTC()
	client.ID = clientID
	client.CreatedAt = now
	client.UpdatedAt = now

	if err := s.clientRepository.CreateClient(ctx, client); err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err,
		}).Error("clients: erro ao salvar cliente")
		return nil, NewClientError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, clientID, "Falha ao salvar cliente")
	}

	logrus.WithFields(logrus.Fields{
		"client_id":   client.ID,
		"client_name": client.Name,
		"schedules":   len(client.Schedules),
	}).Info("clients: cliente criado")

	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, request *domain.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.GetClient(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	request.Apply(client)

	normalizeClient(client)
	if fields := validateClient(client); len(fields) > 0 {
		return nil, newValidationError(client.ID, fields)
	}

	client.UpdatedAt = s.now().UTC()

	if err := s.clientRepository.UpdateClient(ctx, client); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, NewClientError(domain.ErrClientNotFound, apiErrors.ErrClientNotFound, client.ID, "Cliente não encontrado")
		}

		logrus.WithFields(logrus.Fields{
			"client_id": client.ID,
			"error":     err,
		}).Error("clients: erro ao atualizar cliente")
		return nil, NewClientError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, client.ID, "Falha ao atualizar cliente")
	}

	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, clientID string) error {
	if clientID == "" {
		return NewClientError(ErrClientIDRequired, apiErrors.ErrMissingRequiredData, "", "ID do cliente é obrigatório")
	}

	if err := s.clientRepository.DeleteClient(ctx, clientID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewClientError(domain.ErrClientNotFound, apiErrors.ErrClientNotFound, clientID, "Cliente não encontrado")
		}

		logrus.WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err,
		}).Error("clients: erro ao remover cliente")
		return NewClientError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, clientID, "Falha ao remover cliente")
	}

	logrus.WithField("client_id", clientID).Info("clients: cliente removido")

	return nil
}
