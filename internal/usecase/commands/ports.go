package commands

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TableDelta carries only what terminals need to re-render a table tile.
type TableDelta struct {
	ID     uuid.UUID
	Name   string
	Status string
}

// SessionDelta carries only the rendering-relevant slice of a session row.
type SessionDelta struct {
	ID          uuid.UUID
	TableID     uuid.UUID
	Status      string
	StartTime   time.Time
	EndTime     *time.Time
	PlayerCount int
	TotalAmount decimal.Decimal
}

// Notifier fans lifecycle deltas out to subscribed terminals. Implementations
// must never block the calling operation; delivery is best effort.
type Notifier interface {
	NotifyTableUpdated(delta TableDelta)
	NotifySessionUpdated(delta SessionDelta)
}
