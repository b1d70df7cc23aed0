package migration

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/database/postgres"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var scripts embed.FS

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT        PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const (
	selectVersions = `SELECT version FROM schema_migrations`
	insertVersion  = `INSERT INTO schema_migrations (version) VALUES ($1)`
)

// Migration é um script SQL versionado pelo prefixo do nome do arquivo
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Load lê os scripts embutidos em ordem de versão
func Load() ([]Migration, error) {
	return loadFrom(scripts, "sql")
}

func loadFrom(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(err, "migration: erro ao listar scripts")
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "migration: erro ao ler %s", entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".sql")
		version, _, _ := strings.Cut(name, "_")

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// Up aplica, cada um em sua transação, os scripts que ainda não constam em
// schema_migrations. Retorna quantos foram aplicados.
func Up(ctx context.Context, conn postgres.Conn) (int, error) {
	migrations, err := Load()
	if err != nil {
		return 0, err
	}

	return apply(ctx, conn, migrations)
}

func apply(ctx context.Context, conn postgres.Conn, migrations []Migration) (int, error) {
	if _, err := conn.ExecContext(ctx, createVersionsTable); err != nil {
		return 0, errors.Wrap(err, "migration: erro ao criar schema_migrations")
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			logrus.WithField("migration", m.Name).Debug("Migração já aplicada")
			continue
		}

		err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, insertVersion, m.Version)
			return err
		})
		if err != nil {
			return count, errors.Wrapf(err, "migration: erro ao aplicar %s", m.Name)
		}

		logrus.WithField("migration", m.Name).Info("Migração aplicada")
		count++
	}

	return count, nil
}

func appliedVersions(ctx context.Context, conn postgres.Queryer) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, selectVersions)
	if err != nil {
		return nil, errors.Wrap(err, "migration: erro ao consultar versões aplicadas")
	}
	defer rows.Close()

	versions := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, errors.Wrap(err, "migration: erro ao ler versão")
		}
		versions[version] = true
	}

	return versions, rows.Err()
}
