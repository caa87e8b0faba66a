package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Protocol bounds. Name length matches the maximum seed length of the
// original deployment; uri length matches the metadata standard.
const (
	MaxNameLength = 30
	MaxUriLength  = 200
	MinRating     = 0
	MaxRating     = 5
)

// Asset kinds. Apps are freshly minted executables, collectibles and
// collections wrap a pre-existing ownership token.
const (
	KindApp         = "app"
	KindCollectible = "collectible"
	KindCollection  = "collection"
)

const (
	TagNone = "none"
	TagDefi = "defi"
	TagGame = "game"
	TagNft  = "nft"
)

const (
	L1Solana   = "solana"
	L1Ethereum = "ethereum"
)

type Asset struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Publisher string    `gorm:"not null;uniqueIndex:idx_assets_publisher_name" json:"publisher"`
	Name      string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_assets_publisher_name" json:"name"`
	Kind      string    `gorm:"type:varchar(20);not null" json:"kind"`
	Tag       string    `gorm:"type:varchar(20);not null;default:'none'" json:"tag"`
	L1        string    `gorm:"type:varchar(20);not null;default:'solana'" json:"l1"`

	// The mint of the single-unit ownership token controlling the asset.
	MasterMint string `gorm:"not null;uniqueIndex" json:"master_mint"`

	InstallVault     string  `gorm:"not null" json:"install_vault"`
	InstallAuthority *string `json:"install_authority,omitempty"`
	InstallPrice     uint64  `gorm:"not null;default:0" json:"install_price"`
	Supply           *uint64 `json:"supply,omitempty"`
	TotalInstalls    uint64  `gorm:"not null;default:0" json:"total_installs"`
	Suspended        bool    `gorm:"not null;default:false" json:"suspended"`

	TotalRating uint64 `gorm:"not null;default:0" json:"total_rating"`
	NumRatings  uint32 `gorm:"not null;default:0" json:"num_ratings"`

	// Curator status embedded on the asset. Assigned unverified by the
	// publisher, verified only by the curator itself.
	CuratorAddress  *string `json:"curator,omitempty"`
	CuratorVerified bool    `gorm:"not null;default:false" json:"curator_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CheckSupply verifies that another installation can be issued. A zero or
// absent supply means the asset is uncapped.
func (a *Asset) CheckSupply() error {
	if a.Supply != nil && *a.Supply > 0 && a.TotalInstalls >= *a.Supply {
		return ErrInstallExceedsSupply
	}
	return nil
}

// VerifyInstallAuthority checks the signer against the gating authority, if
// one is set.
func (a *Asset) VerifyInstallAuthority(addr string) error {
	if a.InstallAuthority != nil && *a.InstallAuthority != addr {
		return ErrInstallAuthorityMismatch
	}
	return nil
}

// NextEdition hands out the next sequential edition number. Editions are
// assigned from TotalInstalls before the increment so they are unique,
// strictly increasing and never reused.
func (a *Asset) NextEdition() (uint64, error) {
	if a.TotalInstalls == math.MaxUint64 {
		return 0, ErrArithmeticOverflow
	}
	edition := a.TotalInstalls
	a.TotalInstalls++
	return edition, nil
}

// AddRating folds a new review rating into the aggregate with checked
// arithmetic.
func (a *Asset) AddRating(rating uint8) error {
	if a.TotalRating > math.MaxUint64-uint64(rating) {
		return ErrArithmeticOverflow
	}
	if a.NumRatings == math.MaxUint32 {
		return ErrArithmeticOverflow
	}
	a.TotalRating += uint64(rating)
	a.NumRatings++
	return nil
}

// RemoveRating backs a deleted review out of the aggregate. Underflow is a
// hard failure, never a silent wrap.
func (a *Asset) RemoveRating(rating uint8) error {
	if a.TotalRating < uint64(rating) || a.NumRatings == 0 {
		return ErrArithmeticUnderflow
	}
	a.TotalRating -= uint64(rating)
	a.NumRatings--
	return nil
}

// AverageRating computes the live average over all existing reviews.
func (a *Asset) AverageRating() float64 {
	if a.NumRatings == 0 {
		return 0
	}
	return float64(a.TotalRating) / float64(a.NumRatings)
}
