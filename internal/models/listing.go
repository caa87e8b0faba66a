package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing escrows an asset's ownership token under a listing-controlled
// custodian pending a sale. One listing per asset.
type Listing struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Authority string    `gorm:"not null" json:"authority"`
	AssetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"asset_id"`
	Price     uint64    `gorm:"not null" json:"price"`
	Deposit   uint64    `gorm:"not null;default:0" json:"deposit"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CustodianAddress is the escrow owner used while the listing is live.
func (l *Listing) CustodianAddress() string {
	return "listing:" + l.ID.String()
}
