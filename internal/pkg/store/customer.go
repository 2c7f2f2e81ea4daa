package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/aquagas/internal/domain"
	"github.com/ougirez/aquagas/internal/pkg/store/xpgx"
)

var customerColumns = []string{"id", "customer_code"}

// EnsureCustomer inserts the customer on first sight and returns its id.
// Idempotent: repeat calls for the same code just resolve the id.
func (s *store) EnsureCustomer(ctx context.Context, customerCode string) (int64, error) {
	query := builder().Insert(tableCustomer).
		Columns("customer_code").
		Values(customerCode).
		Suffix(`on conflict (customer_code) do nothing`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}

	selectQuery := builder().Select(customerColumns...).
		From(tableCustomer).
		Where(sq.Eq{"customer_code": customerCode})

	selected, err := xpgx.Getx[domain.Customer](ctx, s.pool, selectQuery)
	if err != nil {
		return 0, fmt.Errorf("select customer: %w", wrapErr(err))
	}

	return selected.ID, nil
}

func (s *store) CustomerExists(ctx context.Context, customerCode string) (bool, error) {
	query := builder().Select("id").
		From(tableCustomer).
		Where(sq.Eq{"customer_code": customerCode}).
		Limit(1)

	return s.exists(ctx, query)
}
