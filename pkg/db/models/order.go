package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

// Order is a marketplace food order. The items and delivery address are
// denormalized snapshots taken at placement time.
type Order struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null" json:"userId"`

	// OriginalUserID/OriginalUserName snapshot who first placed the order.
	// They are filled when a claim transfers UserID to the new owner.
	OriginalUserID   *uuid.UUID `gorm:"column:original_user_id;type:uuid" json:"originalUserId,omitempty"`
	OriginalUserName *string    `gorm:"column:original_user_name" json:"originalUserName,omitempty"`

	// ClaimedBy is the user who picked the order up off redistribution;
	// after a claim it matches UserID.
	ClaimedBy     *uuid.UUID `gorm:"column:claimed_by;type:uuid" json:"claimedBy,omitempty"`
	ClaimedByName *string    `gorm:"column:claimed_by_name" json:"claimedByName,omitempty"`
	ClaimedAt     *time.Time `gorm:"column:claimed_at" json:"claimedAt,omitempty"`
	CancelledBy   *uuid.UUID `gorm:"column:cancelled_by;type:uuid" json:"cancelledBy,omitempty"`

	DriverID         *uuid.UUID `gorm:"column:driver_id;type:uuid" json:"driverId,omitempty"`
	DriverName       *string    `gorm:"column:driver_name" json:"driverName,omitempty"`
	DriverAssignedAt *time.Time `gorm:"column:driver_assigned_at" json:"driverAssignedAt,omitempty"`
	DeliveredAt      *time.Time `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`

	Items   types.OrderItems `gorm:"column:items;type:jsonb;not null" json:"items"`
	Address types.Address    `gorm:"column:address;type:jsonb;not null" json:"address"`

	// Amount is what the current holder owes; OriginalAmount is the price
	// at placement and survives claim discounts.
	Amount         int64 `gorm:"column:amount;not null" json:"amount"`
	OriginalAmount int64 `gorm:"column:original_amount;not null" json:"originalAmount"`

	Status  enums.OrderStatus `gorm:"column:status;type:text;not null;default:'Food Preparing'" json:"status"`
	Payment bool              `gorm:"column:payment;not null;default:false" json:"payment"`

	Shelter          *types.ShelterSnapshot `gorm:"column:shelter;type:jsonb" json:"shelter,omitempty"`
	DonationNotified bool                   `gorm:"column:donation_notified;not null;default:false" json:"donationNotified"`

	Rating   *int       `gorm:"column:rating" json:"rating,omitempty"`
	Feedback *string    `gorm:"column:feedback" json:"feedback,omitempty"`
	RatedAt  *time.Time `gorm:"column:rated_at" json:"ratedAt,omitempty"`

	PlacedAt  time.Time `gorm:"column:placed_at;not null" json:"placedAt"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName pins the table name for GORM.
func (Order) TableName() string {
	return "orders"
}

// OwnerID returns the user currently responsible for the order: the claimer
// when one exists, otherwise the placer.
func (o Order) OwnerID() uuid.UUID {
	if o.ClaimedBy != nil {
		return *o.ClaimedBy
	}
	return o.UserID
}
