package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Creator is one entry of a metadata royalty split. Shares are whole
// percentages in [0, 100].
type Creator struct {
	Address  string `json:"address"`
	Share    uint8  `json:"share"`
	Verified bool   `json:"verified"`
}

// CreatorList is stored as a JSON column.
type CreatorList []Creator

func (c CreatorList) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *CreatorList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	default:
		return errors.New("unsupported creator list column type")
	}
}

// Metadata is the external metadata record keyed by the asset's ownership
// token mint.
type Metadata struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Mint                 string      `gorm:"uniqueIndex;not null" json:"mint"`
	Name                 string      `gorm:"type:varchar(30);not null" json:"name"`
	Symbol               string      `gorm:"type:varchar(10)" json:"symbol"`
	Uri                  string      `gorm:"type:varchar(200);not null" json:"uri"`
	SellerFeeBasisPoints uint16      `gorm:"not null;default:0" json:"seller_fee_basis_points"`
	Creators             CreatorList `gorm:"type:jsonb" json:"creators"`
	IsMutable            bool        `gorm:"not null;default:true" json:"is_mutable"`
	UpdateAuthority      string      `gorm:"not null" json:"update_authority"`
	PrimarySaleHappened  bool        `gorm:"not null;default:false" json:"primary_sale_happened"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (m *Metadata) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
