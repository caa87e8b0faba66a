package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Access is a per-wallet allow-list entry for installing a gated asset. The
// unique index makes a duplicate grant fail as a conflict rather than an
// idempotent no-op.
type Access struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Wallet    string    `gorm:"not null;uniqueIndex:idx_access_asset_wallet" json:"wallet"`
	AssetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_access_asset_wallet" json:"asset_id"`
	Deposit   uint64    `gorm:"not null;default:0" json:"deposit"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Access) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
