package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is an opening/conversation message between a buyer and a seller
// about one listing. Sent-state rehydration derives from this table.
type Message struct {
	MessageID     uuid.UUID      `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	ListingID     uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	SenderID      uuid.UUID      `gorm:"column:sender_id;type:uuid;not null;index" json:"sender_id"`
	SenderEmail   string         `gorm:"column:sender_email;not null" json:"sender_email"`
	ReceiverEmail string         `gorm:"column:receiver_email;not null" json:"receiver_email"`
	Content       string         `gorm:"column:content;not null" json:"content"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string {
	return "Messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
