package realtime

import "time"

// Client-to-server message types.
const (
	MsgPing          = "ping"
	MsgSubscribe     = "subscribe"
	MsgUnsubscribe   = "unsubscribe"
	MsgRequestUpdate = "request_update"
)

// Server-to-client message types.
const (
	MsgPong                  = "pong"
	MsgConnectionEstablished = "connection_established"
	MsgSubscriptionConfirmed = "subscription_confirmed"
	MsgUnsubscribeConfirmed  = "unsubscribe_confirmed"
	MsgUpdate                = "update"
	MsgError                 = "error"
	MsgTableUpdated          = "table_updated"
	MsgSessionUpdated        = "session_updated"
	MsgLayoutUpdated         = "layout_updated"
)

// Protocol error codes.
const (
	ErrCodeMissingResource = "missing_resource"
	ErrCodeInvalidResource = "invalid_resource"
	ErrCodeInvalidMessage  = "invalid_message"
	ErrCodeUpdateFailed    = "update_failed"
)

// Subscribable resources.
const (
	ResourceTables   = "tables"
	ResourceSessions = "sessions"
	ResourceLayout   = "layout"
)

func validResource(resource string) bool {
	switch resource {
	case ResourceTables, ResourceSessions, ResourceLayout:
		return true
	}
	return false
}

// ClientMessage is the envelope terminals send.
type ClientMessage struct {
	Type     string `json:"type"`
	Resource string `json:"resource,omitempty"`
}

// ServerMessage is the envelope the hub sends. Only the fields relevant to
// the message type are populated.
type ServerMessage struct {
	Type      string    `json:"type"`
	Resource  string    `json:"resource,omitempty"`
	ClientID  string    `json:"clientId,omitempty"`
	Data      any       `json:"data,omitempty"`
	Table     any       `json:"table,omitempty"`
	Session   any       `json:"session,omitempty"`
	Layout    any       `json:"layout,omitempty"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
