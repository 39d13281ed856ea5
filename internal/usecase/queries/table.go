package queries

import (
	"context"

	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra"
	"cuetab/internal/pkg/errs"

	"github.com/google/uuid"
)

type TableReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TableView, error)
	FindAll(ctx context.Context) ([]*TableView, error)
}

type LayoutReadStore interface {
	FindActive(ctx context.Context) (*LayoutView, error)
}

type TariffReadStore interface {
	FindActive(ctx context.Context) ([]*tariff.Tariff, error)
}

type TableQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TableView, error)
	List(ctx context.Context) ([]*TableView, error)
	ActiveLayout(ctx context.Context) (*LayoutView, error)
	ActiveTariffs(ctx context.Context) ([]*tariff.Tariff, error)
}

type tableQueriesImpl struct {
	tables  TableReadStore
	layouts LayoutReadStore
	tariffs TariffReadStore
}

func NewTableQueries(tables TableReadStore, layouts LayoutReadStore, tariffs TariffReadStore) TableQueries {
	return &tableQueriesImpl{tables: tables, layouts: layouts, tariffs: tariffs}
}

func (q *tableQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*TableView, error) {
	view, err := q.tables.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrTableNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *tableQueriesImpl) List(ctx context.Context) ([]*TableView, error) {
	views, err := q.tables.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}

func (q *tableQueriesImpl) ActiveLayout(ctx context.Context) (*LayoutView, error) {
	layout, err := q.layouts.FindActive(ctx)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return layout, nil
}

func (q *tableQueriesImpl) ActiveTariffs(ctx context.Context) ([]*tariff.Tariff, error) {
	tariffs, err := q.tariffs.FindActive(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return tariffs, nil
}
