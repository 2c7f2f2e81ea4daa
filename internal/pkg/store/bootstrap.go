package store

import (
	"context"
	"fmt"
)

// Bootstrap creates the schema on startup if it does not exist yet.
func (s *store) Bootstrap(ctx context.Context) error {
	ddl := []string{
		`create table if not exists customer(
			id bigserial primary key,
			customer_code text not null unique
		)`,
		`create table if not exists measures(
			id bigserial primary key,
			upload_name text not null,
			image_url text not null,
			has_confirmed int not null default 0,
			measure_value bigint not null,
			measure_type text not null,
			measure_datetime timestamptz not null,
			measure_uuid text not null unique,
			customer_id bigint not null references customer(id)
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	return nil
}
