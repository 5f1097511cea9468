package postgres

import (
	"database/sql"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/jugadores-api/internal/domain/player"
)

// classifyError keeps the driver error in the chain and marks it so callers
// can tell server-side rejections from connectivity problems.
func classifyError(err error, msg string) error {
	if err == nil {
		return nil
	}

	wrapped := crerr.Wrap(err, msg)
	var pqErr *pq.Error
	if crerr.As(err, &pqErr) {
		return crerr.Mark(wrapped, player.ErrQuery)
	}
	return crerr.Mark(wrapped, player.ErrConnectivity)
}

func wrapBuildError(err error, msg string) error {
	return crerr.Mark(crerr.Wrap(err, msg), player.ErrQuery)
}

func nullStringToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
