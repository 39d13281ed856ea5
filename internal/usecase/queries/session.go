package queries

import (
	"context"

	"cuetab/internal/domain/session"
	"cuetab/internal/infra"
	"cuetab/internal/pkg/clock"
	"cuetab/internal/pkg/errs"

	"github.com/google/uuid"
)

type SessionReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SessionRecord, error)
	FindOpen(ctx context.Context) ([]*SessionRecord, error)
	Find(ctx context.Context, filter SessionFilter) ([]*SessionRecord, error)
}

type SessionQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
	ListActive(ctx context.Context) ([]*SessionView, error)
	List(ctx context.Context, filter SessionFilter) ([]*SessionView, error)
}

type sessionQueriesImpl struct {
	store SessionReadStore
	clock clock.Clock
}

func NewSessionQueries(store SessionReadStore, clk clock.Clock) SessionQueries {
	return &sessionQueriesImpl{store: store, clock: clk}
}

func (q *sessionQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	rec, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return q.toView(rec), nil
}

func (q *sessionQueriesImpl) ListActive(ctx context.Context) ([]*SessionView, error) {
	recs, err := q.store.FindOpen(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return q.toViews(recs), nil
}

func (q *sessionQueriesImpl) List(ctx context.Context, filter SessionFilter) ([]*SessionView, error) {
	recs, err := q.store.Find(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return q.toViews(recs), nil
}

func (q *sessionQueriesImpl) toViews(recs []*SessionRecord) []*SessionView {
	views := make([]*SessionView, len(recs))
	for i, rec := range recs {
		views[i] = q.toView(rec)
	}
	return views
}

func (q *sessionQueriesImpl) toView(rec *SessionRecord) *SessionView {
	s := rec.Session
	quote := session.Price(s, rec.Tariff, q.clock.Now())
	meta := s.Metadata()

	return &SessionView{
		ID:              s.ID(),
		TableID:         s.TableID(),
		TableName:       rec.TableName,
		Status:          s.Status().String(),
		StartTime:       s.StartTime(),
		EndTime:         s.EndTime(),
		PlayerCount:     s.PlayerCount(),
		Notes:           s.Notes(),
		TotalMinutes:    quote.TotalMinutes,
		FreeMinutesUsed: quote.FreeMinutesUsed,
		PaidMinutes:     quote.BillableMinutes,
		CurrentCost:     quote.Cost,
		Services:        meta.Services,
		Discounts:       meta.Discounts,
		Tariff: TariffSummary{
			ID:       rec.Tariff.ID,
			Name:     rec.Tariff.Name,
			Rate:     rec.Tariff.Rate,
			RateType: rec.Tariff.RateType.String(),
		},
	}
}
