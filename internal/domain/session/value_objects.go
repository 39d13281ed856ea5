package session

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidService  = errors.New("service requires a name and a non-negative price")
	ErrInvalidDiscount = errors.New("discount amount cannot be negative")
)

// Service is an ad-hoc line item added during a session (cue rental, drinks).
type Service struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"addedAt"`
	Notes    string          `json:"notes,omitempty"`
}

func NewService(id, name string, price decimal.Decimal, quantity int, addedAt time.Time) (Service, error) {
	name = strings.TrimSpace(name)
	if name == "" || price.IsNegative() {
		return Service{}, ErrInvalidService
	}
	if quantity < 1 {
		quantity = 1
	}
	return Service{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		AddedAt:  addedAt,
	}, nil
}

func (s Service) Total() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type Discount struct {
	Name   string          `json:"name,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

func NewDiscount(name string, amount decimal.Decimal) (Discount, error) {
	if amount.IsNegative() {
		return Discount{}, ErrInvalidDiscount
	}
	return Discount{Name: name, Amount: amount}, nil
}

// Metadata is the session-owned collection of ad-hoc line items. It is
// persisted as one JSON document and replaced wholesale on every write so a
// single row update keeps the atomic-unit discipline.
type Metadata struct {
	Services    []Service  `json:"services"`
	Discounts   []Discount `json:"discounts"`
	PauseReason string     `json:"pauseReason,omitempty"`
}

func (m Metadata) ServicesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, svc := range m.Services {
		total = total.Add(svc.Total())
	}
	return total
}

func (m Metadata) DiscountsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range m.Discounts {
		total = total.Add(d.Amount)
	}
	return total
}
