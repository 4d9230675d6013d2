package models

import (
	"time"

	"github.com/google/uuid"
)

// Shelter is a partner organization that receives donated orders through
// its own portal login.
type Shelter struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:shelters_email_key"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Address      string    `gorm:"column:address"`
	Phone        string    `gorm:"column:phone"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name for GORM.
func (Shelter) TableName() string {
	return "shelters"
}
