// Package storage provides the persistence adapters behind the feedback
// repository and the catalog stores. SQLite backs local use; PostgreSQL backs
// shared deployments. Both enforce the same optimistic-concurrency contract
// on feedback updates.
package storage

import (
	"github.com/archmeta/archmeta-go/internal/catalog"
	"github.com/archmeta/archmeta-go/internal/feedback"
)

// Store is the full persistence surface a backend must provide.
type Store interface {
	feedback.Repository
	catalog.Store

	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
