package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenAccount is a holding of an ownership token. Exactly one unit of a
// mint exists per app asset; the holder of that unit is the asset's current
// authoritative owner. Frozen holdings cannot move outside a transfer.
type TokenAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Mint      string    `gorm:"not null;uniqueIndex:idx_token_accounts_mint_owner" json:"mint"`
	Owner     string    `gorm:"not null;uniqueIndex:idx_token_accounts_mint_owner" json:"owner"`
	Amount    uint64    `gorm:"not null;default:0" json:"amount"`
	Frozen    bool      `gorm:"not null;default:false" json:"frozen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TokenAccount) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
