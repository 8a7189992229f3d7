package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a seller/buyer account. Private sellers arrive via /auth/sync with
// an external identity; dealers also carry a password hash for portal login.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	ExternalID   *string        `gorm:"column:external_id;uniqueIndex" json:"external_id,omitempty"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	AvatarURL    string         `gorm:"column:avatar_url" json:"avatar_url"`
	SellerType   string         `gorm:"column:seller_type;type:varchar(10);not null;default:private" json:"seller_type"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
