// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook. Handing repositories a DBTX lets the
// service run the same repository code inside or outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
)

// RepositoryManager is the factory contract consumed by the services.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
