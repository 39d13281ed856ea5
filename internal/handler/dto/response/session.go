package response

import (
	"time"

	"cuetab/internal/domain/session"
	"cuetab/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteResponse struct {
	TotalMinutes    int             `json:"totalMinutes"`
	FreeMinutesUsed int             `json:"freeMinutesUsed"`
	PaidMinutes     int             `json:"paidMinutes"`
	Cost            decimal.Decimal `json:"cost"`
}

type SessionResponse struct {
	ID          uuid.UUID          `json:"id"`
	TableID     uuid.UUID          `json:"tableId"`
	TariffID    uuid.UUID          `json:"tariffId"`
	Status      string             `json:"status"`
	StartTime   time.Time          `json:"startTime"`
	EndTime     *time.Time         `json:"endTime,omitempty"`
	PlayerCount int                `json:"playerCount"`
	Notes       string             `json:"notes,omitempty"`
	PauseReason string             `json:"pauseReason,omitempty"`
	Services    []session.Service  `json:"services"`
	Discounts   []session.Discount `json:"discounts"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Quote       QuoteResponse      `json:"quote"`
}

func FromSessionResult(r *commands.SessionResult) *SessionResponse {
	s := r.Session
	meta := s.Metadata()
	return &SessionResponse{
		ID:          s.ID(),
		TableID:     s.TableID(),
		TariffID:    s.TariffID(),
		Status:      s.Status().String(),
		StartTime:   s.StartTime(),
		EndTime:     s.EndTime(),
		PlayerCount: s.PlayerCount(),
		Notes:       s.Notes(),
		PauseReason: meta.PauseReason,
		Services:    meta.Services,
		Discounts:   meta.Discounts,
		TotalAmount: s.TotalAmount(),
		Quote: QuoteResponse{
			TotalMinutes:    r.Quote.TotalMinutes,
			FreeMinutesUsed: r.Quote.FreeMinutesUsed,
			PaidMinutes:     r.Quote.BillableMinutes,
			Cost:            r.Quote.Cost,
		},
	}
}
