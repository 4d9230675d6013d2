package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

// Reroute records an order handed to a shelter, awaiting the shelter's
// accept/reject decision.
type Reroute struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:reroutes_order_id_key" json:"orderId"`
	ShelterID uuid.UUID `gorm:"column:shelter_id;type:uuid;not null" json:"shelterId"`

	// Shelter is denormalized so the record stays readable after shelter
	// edits, mirroring the snapshot on the order itself.
	Shelter *types.ShelterSnapshot `gorm:"column:shelter;type:jsonb" json:"shelter,omitempty"`

	Items types.RerouteItems `gorm:"column:items;type:jsonb;not null" json:"items"`
	Total int64              `gorm:"column:total;not null;default:0" json:"total"`

	Status    enums.RerouteStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	Reason    *string             `gorm:"column:reason" json:"reason,omitempty"`
	DecidedAt *time.Time          `gorm:"column:decided_at" json:"decidedAt,omitempty"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName pins the table name for GORM.
func (Reroute) TableName() string {
	return "reroutes"
}
