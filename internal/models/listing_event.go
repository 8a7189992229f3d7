package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing event types.
const (
	EventListingCreated   = "created"
	EventListingActivated = "activated"
	EventPriceChanged     = "price_changed"
	EventListingSold      = "sold"
)

// ListingEvent is an append-only record of a listing lifecycle transition.
type ListingEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID  uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	ActorEmail *string        `gorm:"column:actor_email" json:"actor_email"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

func (le *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		le.EventID = uuid.New()
	}
	return nil
}
