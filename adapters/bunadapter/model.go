package bunadapter

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted user row. Fields the engine does not interpret live
// in Metadata so open payloads survive the round trip.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email        string         `bun:"email,notnull,unique" json:"email,omitempty"`
	Role         string         `bun:"user_role,notnull" json:"user_role,omitempty"`
	PasswordHash string         `bun:"password_hash" json:"password_hash,omitempty"`
	Metadata     map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt    *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
