package cockroach

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-db"
)

//go:embed migrations/*.sql
var MigrationsFS embed.FS

type Cockroach struct {
	db *db.DB
}

func New(pool *pgxpool.Pool) *Cockroach {
	return &Cockroach{
		db: db.New(pool),
	}
}

// sqlErr wraps err with msg and marks infrastructure failures
// with [types.ErrStoreUnavailable].
func sqlErr(msg string, err error) error {
	err = fmt.Errorf("%s: %w", msg, err)
	if isUnavailable(err) {
		return types.StoreUnavailable(err)
	}

	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, types.ErrStoreUnavailable) {
		return false // already marked
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception, 57P01: admin shutdown,
		// 40001: serialization failure left for the caller to retry.
		return pgErr.Code == "40001" || pgErr.Code == "57P01" || (len(pgErr.Code) == 5 && pgErr.Code[:2] == "08")
	}

	return false
}
