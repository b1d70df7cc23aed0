package repository

//go:generate mockgen -source=dispatch_ledger.go -destination=mocks/dispatch_ledger_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/gouveiaesilva/dashmilo-api/infrastructure/database/postgres"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/pkg/errors"
)

const dispatchesTable = "report_dispatches"

// ClaimLease é quanto tempo uma reserva sem confirmação segura o disparo. Se o
// processo morrer entre Claim e Confirm, a reserva volta a valer depois disso.
const ClaimLease = 15 * time.Minute

// DispatchLedger registra os disparos já feitos para que uma agenda não seja
// enviada duas vezes na mesma hora civil.
type DispatchLedger interface {
	// Claim reserva o disparo. Retorna false quando ele já foi confirmado ou
	// está reservado há menos de ClaimLease.
	Claim(ctx context.Context, key domain.DispatchKey) (bool, error)
	// Confirm marca o disparo reservado como entregue
	Confirm(ctx context.Context, key domain.DispatchKey) error
	// Release desfaz a reserva de um disparo que falhou
	Release(ctx context.Context, key domain.DispatchKey) error
}

type dispatchLedger struct {
	conn postgres.Queryer
	now  func() time.Time
}

func NewDispatchLedger(conn postgres.Queryer) DispatchLedger {
	return &dispatchLedger{
		conn: conn,
		now:  time.Now,
	}
}

func (l *dispatchLedger) Claim(ctx context.Context, key domain.DispatchKey) (bool, error) {
	now := l.now().UTC()

	// Só uma reserva vencida e nunca confirmada é tomada de volta
	query, args, err := squirrel.
		Insert(dispatchesTable).
		Columns("dispatch_key", "client_id", "schedule_index", "period", "slot", "claimed_at").
		Values(key.String(), key.ClientID, key.ScheduleIndex, key.Period, key.Slot, now).
		Suffix("ON CONFLICT (dispatch_key) DO UPDATE SET claimed_at = EXCLUDED.claimed_at "+
			"WHERE report_dispatches.confirmed_at IS NULL AND report_dispatches.claimed_at < ?", now.Add(-ClaimLease)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "failed to build query")
	}

	result, err := l.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapDBError(err, "erro ao reservar disparo")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "error getting rows affected")
	}

	return rowsAffected == 1, nil
}

func (l *dispatchLedger) Confirm(ctx context.Context, key domain.DispatchKey) error {
	query, args, err := squirrel.
		Update(dispatchesTable).
		Set("confirmed_at", l.now().UTC()).
		Where(squirrel.Eq{"dispatch_key": key.String()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	if _, err := l.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapDBError(err, "erro ao confirmar disparo")
	}

	return nil
}

func (l *dispatchLedger) Release(ctx context.Context, key domain.DispatchKey) error {
	query, args, err := squirrel.
		Delete(dispatchesTable).
		Where(squirrel.Eq{"dispatch_key": key.String()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	if _, err := l.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapDBError(err, "erro ao liberar disparo")
	}

	return nil
}
