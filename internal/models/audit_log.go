package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Protocol event names recorded in the audit log.
const (
	ActionAssetCreated        = "asset_created"
	ActionAssetUpdated        = "asset_updated"
	ActionAssetDeleted        = "asset_deleted"
	ActionInstallationCreated = "installation_created"
	ActionInstallationDeleted = "installation_deleted"
	ActionReviewCreated       = "review_created"
	ActionReviewDeleted       = "review_deleted"
	ActionAccessGranted       = "access_granted"
	ActionAccessRevoked       = "access_revoked"
	ActionCuratorSet          = "curator_set"
	ActionCuratorVerified     = "curator_verified"
	ActionSuspendedSet        = "suspended_set"
	ActionTransferred         = "transferred"
	ActionDonated             = "donated"
	ActionListingCreated      = "listing_created"
	ActionListingDeleted      = "listing_deleted"
	ActionWalletFunded        = "wallet_funded"
)

// AuditLog records every committed protocol operation for observability.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Actor      string    `gorm:"not null;index" json:"actor"`
	Action     string    `gorm:"not null;index" json:"action"`
	TargetType string    `gorm:"not null" json:"target_type"`
	TargetID   string    `gorm:"not null;index" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
