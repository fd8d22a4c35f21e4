package sqlite

import (
	"database/sql"

	"github.com/azmin8744/soliloquio/internal/auth/store"
)

// storeTx is a transaction-scoped view over the same repositories.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Users() store.Users                           { return &usersRepo{q: t.tx} }
func (t *storeTx) RefreshTokens() store.RefreshTokens           { return &refreshTokensRepo{q: t.tx} }
func (t *storeTx) VerificationTokens() store.VerificationTokens { return &verificationTokensRepo{q: t.tx} }

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

var _ store.Tx = (*storeTx)(nil)
