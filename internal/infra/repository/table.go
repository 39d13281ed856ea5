package repository

import (
	"context"

	"cuetab/internal/domain/table"
	"cuetab/internal/infra"
	"cuetab/internal/infra/db"

	"github.com/google/uuid"
)

type TableRepository struct {
	db db.DBTX
}

func NewTableRepository(dbtx db.DBTX) *TableRepository {
	return &TableRepository{db: dbtx}
}

const tableForUpdateQuery = `
select id, layout_id, name, group_name, status, position_x, position_y, rotation, width, height
from tables
where id = $1
for update`

// FindForUpdate locks the table row for the remainder of the transaction so
// concurrent session starts serialize on the same table.
func (r *TableRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	var (
		tableID  uuid.UUID
		layoutID uuid.UUID
		name     string
		group    string
		status   string
		pos      table.Position
	)
	err := r.db.QueryRow(ctx, tableForUpdateQuery, id).Scan(
		&tableID, &layoutID, &name, &group, &status,
		&pos.X, &pos.Y, &pos.Rotation, &pos.Width, &pos.Height,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table for update", err)
	}
	entity, err := table.ReconstructTable(tableID, layoutID, name, group, table.Status(status), pos)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid table row", err)
	}
	return entity, nil
}

// Claim flips an available table to occupied. The conditional update is the
// last line of defense against two sessions claiming the same table; a zero
// row count surfaces as a conflict.
func (r *TableRepository) Claim(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`update tables set status = 'occupied', updated_at = now() where id = $1 and status = 'available'`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to claim table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepositoryError("table is not available", infra.KindConflict)
	}
	return nil
}

func (r *TableRepository) Release(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`update tables set status = 'available', updated_at = now() where id = $1`,
		id,
	); err != nil {
		return infra.WrapRepoErr("failed to release table", err)
	}
	return nil
}
