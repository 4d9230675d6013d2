package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
)

// User is a platform account: customer, driver or admin.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         enums.MemberRole `gorm:"column:role;type:text;not null;default:'customer'"`

	DietPreference  enums.DietPreference  `gorm:"column:diet_preference;type:text;not null;default:'any'"`
	SugarPreference enums.SugarPreference `gorm:"column:sugar_preference;type:text;not null;default:'any'"`

	// CartData is the raw frontend cart blob, cleared after checkout.
	CartData []byte `gorm:"column:cart_data;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name for GORM.
func (User) TableName() string {
	return "users"
}
