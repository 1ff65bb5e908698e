package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

// trapNoRowsErr maps sql "no rows" err to a core.NotFoundError
func trapNoRowsErr(err error, resource, key, msg string) error {
	if err == sql.ErrNoRows {
		return core.NewNotFoundError(resource, key)
	}
	return errors.Wrap(err, msg)
}

// uniqueViolation reports whether err is a unique constraint failure, along with
// the driver's description of the violated constraint.
func uniqueViolation(err error) (string, bool) {
	switch e := errors.Cause(err).(type) {
	case *pq.Error:
		if e.Code == "23505" {
			return e.Constraint + " " + e.Detail, true
		}
	case sqlite3.Error:
		if e.ExtendedCode == sqlite3.ErrConstraintUnique || e.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return e.Error(), true
		}
	}
	return "", false
}

func orderBy(ords ...core.DBOrdering) string {
	if len(ords) == 0 {
		return ""
	}
	list := make([]string, 0, len(ords))
	for _, ord := range ords {
		list = append(list, ord.String())
	}
	return " ORDER BY " + strings.Join(list, ", ")
}

// rollback is deferred right after BeginTxx; it is a no-op once the tx is committed.
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}

func checkAffected(res sql.Result, resource, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return core.NewNotFoundError(resource, key)
	}
	return nil
}
