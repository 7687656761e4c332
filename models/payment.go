package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod represents how a membership payment was made
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodEFT  PaymentMethod = "eft"
	PaymentMethodCard PaymentMethod = "card"
)

// Payment is an immutable record of a membership payment for a taxi.
// Recording a payment also advances the taxi's paid-until projection,
// in the same transaction.
type Payment struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	TaxiID     uuid.UUID     `json:"taxi_id" db:"taxi_id"`
	Amount     float64       `json:"amount" db:"amount"`
	Month      int           `json:"month" db:"month"`
	Year       int           `json:"year" db:"year"`
	Method     PaymentMethod `json:"method" db:"method"`
	RecordedBy uuid.UUID     `json:"recorded_by" db:"recorded_by"`
	RecordedAt time.Time     `json:"recorded_at" db:"recorded_at"`
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new Payment instance
func NewPayment(taxiID uuid.UUID, amount float64, month, year int, method PaymentMethod, recordedBy uuid.UUID) *Payment {
	return &Payment{
		ID:         uuid.New(),
		TaxiID:     taxiID,
		Amount:     amount,
		Month:      month,
		Year:       year,
		Method:     method,
		RecordedBy: recordedBy,
		RecordedAt: time.Now(),
	}
}

// CoveredMonth returns the first day of the month the payment covers
func (p *Payment) CoveredMonth() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}
