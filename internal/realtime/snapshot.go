package realtime

import (
	"context"

	"cuetab/internal/usecase/queries"
)

// QuerySnapshotSource answers request_update from the query layer, shaped the
// same way the broadcast events are.
type QuerySnapshotSource struct {
	tables   queries.TableQueries
	sessions queries.SessionQueries
}

func NewQuerySnapshotSource(tables queries.TableQueries, sessions queries.SessionQueries) *QuerySnapshotSource {
	return &QuerySnapshotSource{tables: tables, sessions: sessions}
}

func (s *QuerySnapshotSource) TablesSnapshot(ctx context.Context) (any, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"tables": tables}, nil
}

func (s *QuerySnapshotSource) SessionsSnapshot(ctx context.Context) (any, error) {
	sessions, err := s.sessions.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"sessions": sessions}, nil
}

func (s *QuerySnapshotSource) LayoutSnapshot(ctx context.Context) (any, error) {
	layout, err := s.tables.ActiveLayout(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"layout": layout}, nil
}
