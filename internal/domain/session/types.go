package session

type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusEnded  Status = "ended"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusEnded:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the session still holds billing state that can
// change. An open session blocks its table from hosting another one.
func (s Status) IsOpen() bool {
	return s == StatusActive || s == StatusPaused
}
