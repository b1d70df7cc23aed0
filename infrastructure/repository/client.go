package repository

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/database/postgres"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const clientsTable = "clients"

var clientColumns = []string{
	"id", "name", "ad_account_id", "color", "targets",
	"webhook_url", "dashboard_url", "schedules", "created_at", "updated_at",
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ClientRepository é o diretório de clientes lido pelo agendador e mantido pela API
type ClientRepository interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	// GetClient retorna nil, nil quando o cliente não existe
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	CreateClient(ctx context.Context, client *domain.Client) error
	UpdateClient(ctx context.Context, client *domain.Client) error
	DeleteClient(ctx context.Context, clientID string) error
}

type clientRepository struct {
	conn postgres.Queryer
}

func NewClientRepository(conn postgres.Queryer) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		OrderBy("name ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "erro ao listar clientes")
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := deserializeClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro ao iterar sobre os clientes")
	}

	return clients, nil
}

func (r *clientRepository) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	client, err := deserializeClient(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) CreateClient(ctx context.Context, client *domain.Client) error {
	targets, schedules, err := encodeClientJSON(client)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Insert(clientsTable).
		Columns(clientColumns...).
		Values(
			client.ID,
			client.Name,
			client.AdAccountID,
			client.Color,
			targets,
			nullableString(client.WebhookURL),
			nullableString(client.DashboardURL),
			schedules,
			client.CreatedAt,
			client.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapDBError(err, "erro ao inserir cliente")
	}

	return nil
}

func (r *clientRepository) UpdateClient(ctx context.Context, client *domain.Client) error {
	targets, schedules, err := encodeClientJSON(client)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Update(clientsTable).
		Set("name", client.Name).
		Set("ad_account_id", client.AdAccountID).
		Set("color", client.Color).
		Set("targets", targets).
		Set("webhook_url", nullableString(client.WebhookURL)).
		Set("dashboard_url", nullableString(client.DashboardURL)).
		Set("schedules", schedules).
		Set("updated_at", client.UpdatedAt).
		Where(squirrel.Eq{"id": client.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDBError(err, "erro ao atualizar cliente")
	}

	return checkAffected(result, client.ID)
}

func (r *clientRepository) DeleteClient(ctx context.Context, clientID string) error {
	query, args, err := squirrel.
		Delete(clientsTable).
		Where(squirrel.Eq{"id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDBError(err, "erro ao remover cliente")
	}

	return checkAffected(result, clientID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func deserializeClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}

	var (
		targets      []byte
		schedules    []byte
		webhookURL   sql.NullString
		dashboardURL sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.AdAccountID,
		&client.Color,
		&targets,
		&webhookURL,
		&dashboardURL,
		&schedules,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if len(targets) > 0 {
		if err := json.Unmarshal(targets, &client.Targets); err != nil {
			return nil, errors.Wrapf(err, "metas inválidas para o cliente %s", client.ID)
		}
	}

	client.Schedules = make([]domain.ScheduleEntry, 0)
	if len(schedules) > 0 {
		if err := json.Unmarshal(schedules, &client.Schedules); err != nil {
			return nil, errors.Wrapf(err, "agendas inválidas para o cliente %s", client.ID)
		}
	}

	client.WebhookURL = webhookURL.String
	client.DashboardURL = dashboardURL.String
	client.CreatedAt = createdAt
	client.UpdatedAt = updatedAt

	return client, nil
}

func encodeClientJSON(client *domain.Client) ([]byte, []byte, error) {
	targets, err := json.Marshal(client.Targets)
	if err != nil {
		return nil, nil, errors.Wrap(err, "erro ao serializar metas")
	}

	schedules := client.Schedules
	if schedules == nil {
		schedules = []domain.ScheduleEntry{}
	}

	encoded, err := json.Marshal(schedules)
	if err != nil {
		return nil, nil, errors.Wrap(err, "erro ao serializar agendas")
	}

	return targets, encoded, nil
}

func checkAffected(result sql.Result, clientID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error getting rows affected")
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrClientNotFound, clientID)
	}

	return nil
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func wrapDBError(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.Wrapf(err, "%s (code: %s)", message, pqErr.Code)
	}
	return errors.Wrap(err, message)
}
