package store

import (
	"context"
	"errors"

	"github.com/ougirez/aquagas/internal/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	tableCustomer = "customer"
	tableMeasures = "measures"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel SQL builder with postgres placeholders.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// exists runs the query and reports whether it produced at least one row.
func (s *store) exists(ctx context.Context, query sq.Sqlizer) (bool, error) {
	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found := rows.Next()
	return found, rows.Err()
}

// has_confirmed is persisted as 0/1; encoding and decoding happens only
// here at the store boundary.
func encodeBool(b bool) int16 {
	if b {
		return 1
	}
	return 0
}

func decodeBool(v int16) bool {
	return v != 0
}
