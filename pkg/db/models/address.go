package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is the single shipping address attached to a user.
type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Street    string    `gorm:"type:text;not null"`
	City      string    `gorm:"type:text;not null"`
	State     string    `gorm:"type:text;not null"`
	ZipCode   string    `gorm:"column:zip_code;type:text;not null"`
	Number    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
