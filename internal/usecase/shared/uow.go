package shared

import (
	"context"

	"cuetab/internal/domain/session"
	"cuetab/internal/domain/table"
	"cuetab/internal/domain/tariff"
	"cuetab/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork scopes every lifecycle operation: the precondition re-reads, the
// session mutation and the derived table mutation commit or fail together.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, q db.DBTX) error) error
}

type Tx interface {
	Sessions() SessionRepository
	Tables() TableRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the in-transaction reads commands validate against. The
// ForUpdate variants lock the row so the check and the commit race as one
// unit (two concurrent starts on a table serialize here; the loser sees the
// winner's committed status).
type CommandReads interface {
	TableForUpdate(ctx context.Context, id uuid.UUID) (*table.Table, error)
	TariffByID(ctx context.Context, id uuid.UUID) (*tariff.Tariff, error)
	SessionForUpdate(ctx context.Context, id uuid.UUID) (*SessionWithTariff, error)
	HasOpenSession(ctx context.Context, tableID uuid.UUID) (bool, error)
}

// SessionWithTariff pairs a session with the tariff values captured at start
// time. Pricing always uses the captured snapshot; editing a tariff never
// reprices a running session.
type SessionWithTariff struct {
	Session *session.Session
	Tariff  *tariff.Tariff
}

type SessionRepository interface {
	// Create persists a new session together with its tariff snapshot.
	Create(ctx context.Context, s *session.Session, snapshot *tariff.Tariff) error
	// Update rewrites the mutable row state (status, pause bookkeeping,
	// metadata document, final totals) in one statement.
	Update(ctx context.Context, s *session.Session) error
}

type TableRepository interface {
	// Claim flips an available table to occupied; it reports a conflict when
	// the row no longer says available.
	Claim(ctx context.Context, id uuid.UUID) error
	// Release returns the table to the available pool.
	Release(ctx context.Context, id uuid.UUID) error
}
