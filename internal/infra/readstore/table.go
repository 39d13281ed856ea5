package readstore

import (
	"context"

	"cuetab/internal/infra"
	"cuetab/internal/infra/db"
	"cuetab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TableReadStore struct {
	db db.DBTX
}

func NewTableReadStore(dbtx db.DBTX) *TableReadStore {
	return &TableReadStore{db: dbtx}
}

const tableViewColumns = `
    id, layout_id, name, group_name, status, position_x, position_y, rotation, width, height`

func (r *TableReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TableView, error) {
	row := r.db.QueryRow(ctx, `select`+tableViewColumns+` from tables where id = $1`, id)
	view, err := scanTableView(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table", err)
	}
	return view, nil
}

func (r *TableReadStore) FindAll(ctx context.Context) ([]*queries.TableView, error) {
	rows, err := r.db.Query(ctx, `select`+tableViewColumns+` from tables order by name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query tables", err)
	}
	defer rows.Close()
	return collectTableViews(rows)
}

func collectTableViews(rows pgx.Rows) ([]*queries.TableView, error) {
	views := []*queries.TableView{}
	for rows.Next() {
		view, err := scanTableView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan table row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read table rows", err)
	}
	return views, nil
}

func scanTableView(row rowScanner) (*queries.TableView, error) {
	var v queries.TableView
	if err := row.Scan(
		&v.ID, &v.LayoutID, &v.Name, &v.Group, &v.Status,
		&v.PositionX, &v.PositionY, &v.Rotation, &v.Width, &v.Height,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
