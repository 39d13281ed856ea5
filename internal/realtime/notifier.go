package realtime

import (
	"time"

	"cuetab/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type tablePayload struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name,omitempty"`
	Status string    `json:"status"`
}

type sessionPayload struct {
	ID          uuid.UUID       `json:"id"`
	TableID     uuid.UUID       `json:"tableId"`
	Status      string          `json:"status"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	PlayerCount int             `json:"playerCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// HubNotifier bridges lifecycle commands to the hub. Fan-out never blocks the
// command that triggered it.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) commands.Notifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyTableUpdated(delta commands.TableDelta) {
	n.hub.Broadcast(ResourceTables, ServerMessage{
		Type: MsgTableUpdated,
		Table: tablePayload{
			ID:     delta.ID,
			Name:   delta.Name,
			Status: delta.Status,
		},
		Timestamp: time.Now().UTC(),
	})
}

func (n *HubNotifier) NotifySessionUpdated(delta commands.SessionDelta) {
	n.hub.Broadcast(ResourceSessions, ServerMessage{
		Type: MsgSessionUpdated,
		Session: sessionPayload{
			ID:          delta.ID,
			TableID:     delta.TableID,
			Status:      delta.Status,
			StartTime:   delta.StartTime,
			EndTime:     delta.EndTime,
			PlayerCount: delta.PlayerCount,
			TotalAmount: delta.TotalAmount,
		},
		Timestamp: time.Now().UTC(),
	})
}
