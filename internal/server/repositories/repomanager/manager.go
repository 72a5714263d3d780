package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/acmeadmin/internal/dbx"
	"github.com/dmitrijs2005/acmeadmin/internal/server/repositories/customers"
	"github.com/dmitrijs2005/acmeadmin/internal/server/repositories/invoices"
	"github.com/dmitrijs2005/acmeadmin/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/acmeadmin/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Invoices(db dbx.DBTX) invoices.Repository
	Customers(db dbx.DBTX) customers.Repository
}
