package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. Vendor
// accounts carry the vendor id their product and sub-order rights attach to.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.Role
	VendorID *uuid.UUID
}

// AccessTokenClaims represents the typed JWT issued by the identity
// collaborator and verified here.
type AccessTokenClaims struct {
	UserID   uuid.UUID  `json:"user_id"`
	Role     enums.Role `json:"role"`
	VendorID *uuid.UUID `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}
