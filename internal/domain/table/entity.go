package table

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid table status")
	ErrNotAvailable  = errors.New("table is not available")
)

// Position is kept only so terminals can render the floor plan; it plays no
// part in occupancy or billing.
type Position struct {
	X        float64
	Y        float64
	Rotation float64
	Width    float64
	Height   float64
}

type Table struct {
	id       uuid.UUID
	layoutID uuid.UUID
	name     string
	group    string
	status   Status
	position Position
}

func ReconstructTable(id, layoutID uuid.UUID, name, group string, status Status, pos Position) (*Table, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Table{
		id:       id,
		layoutID: layoutID,
		name:     name,
		group:    group,
		status:   status,
		position: pos,
	}, nil
}

func (t *Table) ID() uuid.UUID       { return t.id }
func (t *Table) LayoutID() uuid.UUID { return t.layoutID }
func (t *Table) Name() string        { return t.name }
func (t *Table) Group() string       { return t.group }
func (t *Table) Status() Status      { return t.status }
func (t *Table) Position() Position  { return t.position }

func (t *Table) IsAvailable() bool {
	return t.status == StatusAvailable
}

// Claim marks the table occupied. Callers must have re-read the row inside
// the same transaction that persists the new status; the table row is the
// arbiter of the one-open-session-per-table invariant.
func (t *Table) Claim() error {
	if t.status != StatusAvailable {
		return ErrNotAvailable
	}
	t.status = StatusOccupied
	return nil
}

// Release frees the table for the next session.
func (t *Table) Release() {
	t.status = StatusAvailable
}
