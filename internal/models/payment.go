package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment records a completed Stripe checkout session for a listing fee.
// StripeSessionID is the idempotency key for webhook processing.
type Payment struct {
	PaymentID       uuid.UUID      `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	StripeSessionID string         `gorm:"column:stripe_session_id;not null;uniqueIndex" json:"stripe_session_id"`
	StripeEventID   string         `gorm:"column:stripe_event_id" json:"stripe_event_id"`
	ListingID       uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BuyerEmail      string         `gorm:"column:buyer_email" json:"buyer_email"`
	AmountCents     int64          `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency        string         `gorm:"column:currency;type:varchar(8)" json:"currency"`
	Status          string         `gorm:"column:status;type:varchar(20)" json:"status"`
	RawEvent        datatypes.JSON `gorm:"column:raw_event;type:jsonb" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string {
	return "Payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
