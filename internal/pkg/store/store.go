package store

import (
	"context"
	"time"

	"github.com/ougirez/aquagas/internal/domain"
	"github.com/ougirez/aquagas/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	Bootstrap(ctx context.Context) error

	EnsureCustomer(ctx context.Context, customerCode string) (int64, error)
	CustomerExists(ctx context.Context, customerCode string) (bool, error)

	ExistsForPeriod(ctx context.Context, customerCode string, measureType domain.MeasureType, at time.Time) (bool, error)
	ExistsByUUID(ctx context.Context, measureUUID string) (bool, error)
	IsConfirmed(ctx context.Context, measureUUID string) (bool, error)
	InsertMeasure(ctx context.Context, customerCode string, measure *domain.Measure) error
	ConfirmMeasure(ctx context.Context, measureUUID string, value int64) (bool, error)
	ListForCustomer(ctx context.Context, customerCode string, measureType *domain.MeasureType) ([]domain.MeasureSummary, error)
}

type store struct {
	pool *Pool
}

func NewStore(pool *Pool) Store {
	return &store{pool}
}
