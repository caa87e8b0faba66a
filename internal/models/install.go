package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Install is a per-user license record for an asset. Closing an install
// refunds its storage deposit but never rolls back the asset's install
// counter.
type Install struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Authority string    `gorm:"not null;uniqueIndex:idx_installs_asset_authority" json:"authority"`
	AssetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_installs_asset_authority" json:"asset_id"`
	Edition   uint64    `gorm:"not null" json:"edition"`
	Deposit   uint64    `gorm:"not null;default:0" json:"deposit"`
	CreatedAt time.Time `json:"created_at"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

func (i *Install) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
