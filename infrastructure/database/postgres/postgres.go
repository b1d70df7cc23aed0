package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	maxOpenConns  = 10
	maxIdleTime   = 5 * time.Minute
	pingAttempts  = 5
	pingRetryStep = 2 * time.Second
)

// Conn é a conexão usada pelos repositórios e pelas migrações
type Conn interface {
	Queryer
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
}

type Connection struct {
	*sql.DB
}

// NewConnection abre o pool e espera o banco responder. Bancos gerenciados
// que hibernam costumam recusar as primeiras conexões.
func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: falha ao abrir conexão")
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(maxIdleTime)

	conn := &Connection{DB: db}
	if err := conn.waitReady(ctx, pingAttempts, pingRetryStep); err != nil {
		_ = db.Close()
		return nil, err
	}

	return conn, nil
}

// NewFromDB envolve um *sql.DB já aberto (usado nos testes com sqlmock)
func NewFromDB(db *sql.DB) *Connection {
	return &Connection{DB: db}
}

func (c *Connection) waitReady(ctx context.Context, attempts int, step time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.Ping(ctx); err == nil {
			return nil
		}

		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("postgres: banco ainda não respondeu ao ping")

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "postgres: conexão cancelada")
		case <-time.After(time.Duration(attempt) * step):
		}
	}

	return errors.Wrapf(err, "postgres: banco não respondeu após %d tentativas", attempts)
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction executa fn em uma transação: erro ou panic desfazem tudo
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "postgres: erro ao iniciar transação")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback falhou: %v", rbErr)
		}
		return err
	}

	return errors.Wrap(tx.Commit(), "postgres: erro ao confirmar transação")
}
