package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/dbx"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/migrations"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/subscriptions"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/users"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/videos"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	subscriptions subscriptions.Repository
	videos        videos.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Subscriptions() subscriptions.Repository {
	return m.subscriptions
}

func (m *PostgresRepositoryManager) Videos() videos.Repository {
	return m.videos
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tm RepositoryManager) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{
			db:            m.db,
			users:         users.NewPostgresRepository(tx),
			subscriptions: subscriptions.NewPostgresRepository(tx),
			videos:        videos.NewPostgresRepository(tx),
		})
	})
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		subscriptions: subscriptions.NewPostgresRepository(db),
		videos:        videos.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
