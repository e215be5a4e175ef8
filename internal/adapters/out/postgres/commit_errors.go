package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"slices"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE codes after which a COMMIT may or may not have been applied.
var ambiguousSQLStates = []string{
	"25P02", // in_failed_sql_transaction
	"08000", // connection_exception
	"08003", // connection_does_not_exist
	"08006", // connection_failure
}

// classifyCommitError wraps driver signals that leave the commit outcome
// unknown into errs.AmbiguousCommitError. Both database/sql drivers the
// service can run on (pgx stdlib and lib/pq) are recognised.
func classifyCommitError(err error) error {
	if err == nil {
		return nil
	}
	if isAmbiguous(err) {
		return errs.NewAmbiguousCommitError(err)
	}
	return err
}

func isAmbiguous(err error) bool {
	switch {
	case errors.Is(err, sql.ErrTxDone),
		errors.Is(err, gorm.ErrInvalidTransaction),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, pgx.ErrTxClosed),
		errors.Is(err, pgx.ErrTxCommitRollback),
		errors.Is(err, pq.ErrInFailedTransaction):
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return slices.Contains(ambiguousSQLStates, pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return slices.Contains(ambiguousSQLStates, string(pqErr.Code))
	}

	return false
}
