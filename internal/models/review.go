package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review holds a 0-5 rating and a uri pointing at the off-chain comment
// body. One review per author per asset.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Author    string    `gorm:"not null;uniqueIndex:idx_reviews_asset_author" json:"author"`
	AssetID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_asset_author" json:"asset_id"`
	Rating    uint8     `gorm:"not null" json:"rating"`
	Uri       string    `gorm:"type:varchar(200);not null" json:"uri"`
	Deposit   uint64    `gorm:"not null;default:0" json:"deposit"`
	CreatedAt time.Time `json:"created_at"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
