package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.MemberRole

	// ShelterID is set for shelter portal logins only.
	ShelterID *uuid.UUID

	// JTI overrides the generated token id when non-empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID    uuid.UUID        `json:"user_id"`
	Role      enums.MemberRole `json:"role"`
	ShelterID *uuid.UUID       `json:"shelter_id,omitempty"`
	jwt.RegisteredClaims
}
