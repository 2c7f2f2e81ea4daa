package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/aquagas/internal/domain"
	"github.com/ougirez/aquagas/internal/pkg/store/xpgx"
)

var measureColumns = []string{
	"id", "upload_name", "image_url", "has_confirmed", "measure_value",
	"measure_type", "measure_datetime", "measure_uuid", "customer_id",
}

// measureSummaryRow carries has_confirmed in its raw 0/1 form; decoding to
// bool happens before the row leaves the store.
type measureSummaryRow struct {
	ImageURL        string             `db:"image_url"`
	MeasureDatetime time.Time          `db:"measure_datetime"`
	HasConfirmed    int16              `db:"has_confirmed"`
	MeasureType     domain.MeasureType `db:"measure_type"`
	MeasureUUID     string             `db:"measure_uuid"`
}

func (r measureSummaryRow) toDomain() domain.MeasureSummary {
	return domain.MeasureSummary{
		ImageURL:        r.ImageURL,
		MeasureDatetime: r.MeasureDatetime,
		HasConfirmed:    decodeBool(r.HasConfirmed),
		MeasureType:     r.MeasureType,
		MeasureUUID:     r.MeasureUUID,
	}
}

// ExistsForPeriod reports whether the customer already has a reading of
// this type within the calendar month of at. The check is scoped by
// customer and type on purpose: a reading must only block further readings
// for the same meter, not for the whole table.
func (s *store) ExistsForPeriod(ctx context.Context, customerCode string, measureType domain.MeasureType, at time.Time) (bool, error) {
	query := builder().Select("m.id").
		From(tableMeasures + " m").
		Join(tableCustomer + " c on c.id = m.customer_id").
		Where(sq.Eq{"c.customer_code": customerCode}).
		Where(sq.Eq{"m.measure_type": measureType}).
		Where(sq.Expr("date_trunc('month', m.measure_datetime) = date_trunc('month', ?::timestamptz)", at)).
		Limit(1)

	return s.exists(ctx, query)
}

func (s *store) ExistsByUUID(ctx context.Context, measureUUID string) (bool, error) {
	query := builder().Select("id").
		From(tableMeasures).
		Where(sq.Eq{"measure_uuid": measureUUID}).
		Limit(1)

	return s.exists(ctx, query)
}

// IsConfirmed fails with a not-found error when no reading matches the
// uuid; callers check ExistsByUUID first.
func (s *store) IsConfirmed(ctx context.Context, measureUUID string) (bool, error) {
	query := builder().Select("has_confirmed").
		From(tableMeasures).
		Where(sq.Eq{"measure_uuid": measureUUID}).
		Limit(1)

	type row struct {
		HasConfirmed int16 `db:"has_confirmed"`
	}

	selected, err := xpgx.Getx[row](ctx, s.pool, query)
	if err != nil {
		return false, wrapErr(err)
	}

	return decodeBool(selected.HasConfirmed), nil
}

// InsertMeasure persists the reading, creating the owning customer first
// if this code has never been seen.
func (s *store) InsertMeasure(ctx context.Context, customerCode string, measure *domain.Measure) error {
	customerID, err := s.EnsureCustomer(ctx, customerCode)
	if err != nil {
		return fmt.Errorf("EnsureCustomer: %w", err)
	}

	query := builder().Insert(tableMeasures).
		Columns(measureColumns[1:]...).
		Values(
			measure.UploadName,
			measure.ImageURL,
			encodeBool(measure.HasConfirmed),
			measure.MeasureValue,
			measure.MeasureType,
			measure.MeasureDatetime,
			measure.MeasureUUID,
			customerID,
		)

	if _, err = s.pool.Execx(ctx, query); err != nil {
		return fmt.Errorf("insert measure: %w", err)
	}

	measure.CustomerID = customerID
	return nil
}

// ConfirmMeasure locks in the final value. Reports whether exactly one row
// changed so the caller can tell a vanished record apart from success.
func (s *store) ConfirmMeasure(ctx context.Context, measureUUID string, value int64) (bool, error) {
	query := builder().Update(tableMeasures).
		Set("has_confirmed", encodeBool(true)).
		Set("measure_value", value).
		Where(sq.Eq{"measure_uuid": measureUUID})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return false, fmt.Errorf("update measure: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *store) ListForCustomer(ctx context.Context, customerCode string, measureType *domain.MeasureType) ([]domain.MeasureSummary, error) {
	query := builder().Select(
		"m.image_url", "m.measure_datetime", "m.has_confirmed", "m.measure_type", "m.measure_uuid").
		From(tableMeasures + " m").
		Join(tableCustomer + " c on c.id = m.customer_id").
		Where(sq.Eq{"c.customer_code": customerCode}).
		OrderBy("m.id")

	if measureType != nil {
		query = query.Where(sq.Eq{"m.measure_type": *measureType})
	}

	rows, err := xpgx.Selectx[measureSummaryRow](ctx, s.pool, query)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.MeasureSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, r.toDomain())
	}

	return summaries, nil
}
