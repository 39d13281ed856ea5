package queries

import (
	"time"

	"cuetab/internal/domain/session"
	"cuetab/internal/domain/tariff"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TableView is the terminal-facing projection of a table row.
type TableView struct {
	ID        uuid.UUID `json:"id"`
	LayoutID  uuid.UUID `json:"layoutId"`
	Name      string    `json:"name"`
	Group     string    `json:"group,omitempty"`
	Status    string    `json:"status"`
	PositionX float64   `json:"positionX"`
	PositionY float64   `json:"positionY"`
	Rotation  float64   `json:"rotation"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
}

// TariffSummary is the slice of a tariff terminals show on a session card.
type TariffSummary struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"rate"`
	RateType string          `json:"rateType"`
}

// SessionView is a session with its live quote attached. CurrentCost moves
// with the as-of instant for open sessions and is frozen for ended ones.
type SessionView struct {
	ID              uuid.UUID          `json:"id"`
	TableID         uuid.UUID          `json:"tableId"`
	TableName       string             `json:"tableName,omitempty"`
	Status          string             `json:"status"`
	StartTime       time.Time          `json:"startTime"`
	EndTime         *time.Time         `json:"endTime,omitempty"`
	PlayerCount     int                `json:"playerCount"`
	Notes           string             `json:"notes,omitempty"`
	TotalMinutes    int                `json:"totalMinutes"`
	FreeMinutesUsed int                `json:"freeMinutesUsed"`
	PaidMinutes     int                `json:"paidMinutes"`
	CurrentCost     decimal.Decimal    `json:"currentCost"`
	Services        []session.Service  `json:"services"`
	Discounts       []session.Discount `json:"discounts"`
	Tariff          TariffSummary      `json:"tariff"`
}

// LayoutView is the active floor plan with its tables.
type LayoutView struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	GridSize int         `json:"gridSize"`
	Tables   []TableView `json:"tables"`
}

// SessionRecord is what read stores hand the query layer: the session, the
// tariff snapshot it is billed under, and the joined table name.
type SessionRecord struct {
	Session   *session.Session
	Tariff    *tariff.Tariff
	TableName string
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	Status       string
	TableID      *uuid.UUID
	StartedFrom  *time.Time
	StartedUntil *time.Time
	IncludeEnded bool
}
