package kvstore

import (
	"context"
	"fmt"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ClientStore guarda os clientes em um hash (id -> JSON) e mantém a ordem de
// cadastro em uma lista auxiliar.
type ClientStore struct {
	rdb      *redis.Client
	hashKey  string
	orderKey string
}

var _ repository.ClientRepository = (*ClientStore)(nil)

func NewClientStore(rdb *redis.Client, prefix string) *ClientStore {
	base := keyPrefix(prefix)
	return &ClientStore{
		rdb:      rdb,
		hashKey:  base + ":clients",
		orderKey: base + ":clients:order",
	}
}

func (s *ClientStore) ListClients(ctx context.Context) ([]*domain.Client, error) {
	ids, err := s.rdb.LRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("kvstore: erro ao ler ordem dos clientes: %w", err)
	}

	clients := make([]*domain.Client, 0, len(ids))
	if len(ids) == 0 {
		return clients, nil
	}

	values, err := s.rdb.HMGet(ctx, s.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("kvstore: erro ao ler clientes: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// id órfão na lista de ordem
			continue
		}

		client, err := decodeClient(raw)
		if err != nil {
			return nil, fmt.Errorf("kvstore: cliente %s corrompido: %w", ids[i], err)
		}
		clients = append(clients, client)
	}

	return clients, nil
}

func (s *ClientStore) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	raw, err := s.rdb.HGet(ctx, s.hashKey, clientID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: erro ao buscar cliente: %w", err)
	}

	client, err := decodeClient(raw)
	if err != nil {
		return nil, fmt.Errorf("kvstore: cliente %s corrompido: %w", clientID, err)
	}

	return client, nil
}

func (s *ClientStore) CreateClient(ctx context.Context, client *domain.Client) error {
	data, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("kvstore: erro ao serializar cliente: %w", err)
	}

	created, err := s.rdb.HSetNX(ctx, s.hashKey, client.ID, data).Result()
	if err != nil {
		return fmt.Errorf("kvstore: erro ao salvar cliente: %w", err)
	}
	if !created {
		return fmt.Errorf("kvstore: cliente %s já existe", client.ID)
	}

	if err := s.rdb.RPush(ctx, s.orderKey, client.ID).Err(); err != nil {
		return fmt.Errorf("kvstore: erro ao registrar ordem do cliente: %w", err)
	}

	return nil
}

func (s *ClientStore) UpdateClient(ctx context.Context, client *domain.Client) error {
	exists, err := s.rdb.HExists(ctx, s.hashKey, client.ID).Result()
	if err != nil {
		return fmt.Errorf("kvstore: erro ao buscar cliente: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrClientNotFound, client.ID)
	}

	data, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("kvstore: erro ao serializar cliente: %w", err)
	}

	if err := s.rdb.HSet(ctx, s.hashKey, client.ID, data).Err(); err != nil {
		return fmt.Errorf("kvstore: erro ao atualizar cliente: %w", err)
	}

	return nil
}

func (s *ClientStore) DeleteClient(ctx context.Context, clientID string) error {
	var removed *redis.IntCmd

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, s.hashKey, clientID)
		pipe.LRem(ctx, s.orderKey, 0, clientID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kvstore: erro ao remover cliente: %w", err)
	}

	if removed.Val() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrClientNotFound, clientID)
	}

	return nil
}

func decodeClient(raw string) (*domain.Client, error) {
	client := &domain.Client{}
	if err := json.UnmarshalFromString(raw, client); err != nil {
		return nil, err
	}

	if client.Schedules == nil {
		client.Schedules = make([]domain.ScheduleEntry, 0)
	}

	return client, nil
}
