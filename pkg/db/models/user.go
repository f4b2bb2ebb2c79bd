package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// User is the buyer account referenced by orders. Credential storage and
// session issuance live with the identity collaborator.
type User struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string     `gorm:"column:email;not null;uniqueIndex"`
	Name      string     `gorm:"column:name;not null"`
	Role      enums.Role `gorm:"column:role;type:text;not null;default:'user'"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
