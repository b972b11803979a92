package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/fsnd-projects/fsnd/core"
)

// repo holds the default executor of a repository; services may pass a transaction instead.
type repo struct {
	exec core.DBExecutor
}

func (r repo) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return r.exec
}

// Queries are built with `?` placeholders and rebound to the driver's bindvar on execution.

func (r repo) get(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.GetContext(ctx, dest, exec.Rebind(q), args...)
}

func (r repo) selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.SelectContext(ctx, dest, exec.Rebind(q), args...)
}

// execute runs b and returns the number of affected rows.
func (r repo) execute(ctx context.Context, exec core.DBExecutor, b sq.Sqlizer) (int, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := exec.ExecContext(ctx, exec.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	cnt, err := res.RowsAffected()
	return int(cnt), err
}

// trapNoRowsErr maps the "no rows" err to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// isUniqueViolation tells whether err comes from a UNIQUE constraint of either engine.
func isUniqueViolation(err error) bool {
	switch e := errors.Cause(err).(type) {
	case *pq.Error:
		return e.Code == "23505"
	case *sqlite.Error:
		return e.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFold matches rows whose col contains term, ignoring case. LIKE wildcards in term are literal.
func containsFold(col, term string) sq.Sqlizer {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return sq.Expr("LOWER("+col+") LIKE ? ESCAPE '\\'", pattern)
}

// dbTime normalizes times to UTC seconds so that they compare the same way on every engine.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// orderBy ends with tiebreaker unless ordering already sorts on id.
func orderBy(ordering []core.DBOrdering, tiebreaker string) []string {
	out := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if ord.Field == "id" {
			return append(out, ord.String())
		}
		out = append(out, ord.String())
	}
	return append(out, tiebreaker)
}
