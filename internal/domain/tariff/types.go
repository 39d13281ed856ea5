package tariff

type RateType string

const (
	RateHourly  RateType = "hourly"
	RateFixed   RateType = "fixed"
	RateSession RateType = "session"
)

func (r RateType) String() string {
	return string(r)
}

func (r RateType) IsValid() bool {
	switch r {
	case RateHourly, RateFixed, RateSession:
		return true
	default:
		return false
	}
}
