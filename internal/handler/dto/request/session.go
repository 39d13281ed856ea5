package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StartSessionRequest struct {
	TableID     uuid.UUID `json:"tableId" binding:"required"`
	TariffID    uuid.UUID `json:"tariffId" binding:"required"`
	PlayerCount int       `json:"playerCount" binding:"omitempty,min=1"`
	Notes       string    `json:"notes"`
}

type PauseSessionRequest struct {
	Reason string `json:"reason"`
}

type EndSessionRequest struct {
	// EndTime lets the operator backdate a close after a terminal outage.
	// Empty means now.
	EndTime *time.Time `json:"endTime"`
	Notes   string     `json:"notes"`
}

type AddServiceRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" binding:"omitempty,min=1"`
	Notes    string          `json:"notes"`
}

type ListSessionsQuery struct {
	Status       string     `form:"status" binding:"omitempty,oneof=active paused ended"`
	TableID      *uuid.UUID `form:"tableId"`
	StartedFrom  *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartedUntil *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	IncludeEnded bool       `form:"includeEnded"`
}
