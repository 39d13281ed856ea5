//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// SeedReferenceData inserts the floor plan, tables and tariffs shared by all
// e2e tests. Sessions are created by the tests themselves.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		insert into table_layouts (name, width, height, grid_size, is_active)
		select 'Main Floor', 1200, 800, 20, true
		where not exists (select 1 from table_layouts where name = 'Main Floor');
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		insert into tables (layout_id, name, group_name, position_x, position_y, width, height)
		select l.id, t.name, t.group_name, t.x, t.y, 200, 100
		from table_layouts l,
		     (values
		         ('Table 1', 'main', 40.0, 40.0),
		         ('Table 2', 'main', 300.0, 40.0),
		         ('Table 3', 'back', 40.0, 220.0),
		         ('Table 4', 'back', 300.0, 220.0)
		     ) as t(name, group_name, x, y)
		where l.name = 'Main Floor'
		  and not exists (select 1 from tables where tables.name = t.name);
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		insert into tariffs (name, rate, rate_type, min_duration, max_duration, free_minutes)
		select t.name, t.rate::numeric, t.rate_type, t.min_duration, 0, t.free_minutes
		from (values
		    ('Standard Hourly', 15.00, 'hourly', 0, 10),
		    ('Evening Fixed', 25.00, 'fixed', 0, 0)
		) as t(name, rate, rate_type, min_duration, free_minutes)
		where not exists (select 1 from tariffs where tariffs.name = t.name);
	`)
	return err
}

// ResetDB wipes session state between subtests. Reference data stays; tables
// go back to available.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, "truncate table_sessions"); err != nil {
		return err
	}
	_, err := pool.Exec(ctx, "update tables set status = 'available'")
	return err
}

func TableIDByName(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(context.Background(), "select id from tables where name = $1", name).Scan(&id)
	require.NoError(t, err)
	return id
}

func TariffIDByName(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(context.Background(), "select id from tariffs where name = $1", name).Scan(&id)
	require.NoError(t, err)
	return id
}

func TableStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()
	var status string
	err := db.QueryRow(context.Background(), "select status from tables where id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}
