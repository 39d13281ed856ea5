package readstore

import (
	"context"

	"cuetab/internal/infra"
	"cuetab/internal/infra/db"
	"cuetab/internal/usecase/queries"
)

type LayoutReadStore struct {
	db db.DBTX
}

func NewLayoutReadStore(dbtx db.DBTX) *LayoutReadStore {
	return &LayoutReadStore{db: dbtx}
}

const activeLayoutQuery = `
select id, name, width, height, grid_size
from table_layouts
where is_active
order by updated_at desc
limit 1`

// FindActive returns the active floor plan with its tables attached.
func (r *LayoutReadStore) FindActive(ctx context.Context) (*queries.LayoutView, error) {
	var layout queries.LayoutView
	err := r.db.QueryRow(ctx, activeLayoutQuery).Scan(
		&layout.ID, &layout.Name, &layout.Width, &layout.Height, &layout.GridSize,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("no active layout", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find active layout", err)
	}

	rows, err := r.db.Query(ctx,
		`select`+tableViewColumns+` from tables where layout_id = $1 order by name`,
		layout.ID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query layout tables", err)
	}
	defer rows.Close()

	views, err := collectTableViews(rows)
	if err != nil {
		return nil, err
	}
	layout.Tables = make([]queries.TableView, len(views))
	for i, v := range views {
		layout.Tables[i] = *v
	}
	return &layout, nil
}
