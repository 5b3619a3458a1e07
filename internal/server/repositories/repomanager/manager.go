// Package repomanager wires the per-table repositories to a shared database
// handle and runs schema migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/subscriptions"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/users"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/videos"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Subscriptions() subscriptions.Repository
	Videos() videos.Repository
	RunMigrations(ctx context.Context) error

	// WithTx runs fn with a manager whose repositories share one
	// transaction, committing on success and rolling back on error.
	WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error
}
