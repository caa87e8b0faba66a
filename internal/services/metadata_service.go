package services

import (
	"errors"

	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// MetadataService fronts the external metadata store: one mutable record per
// ownership-token mint holding the human-readable fields and royalty split.
type MetadataService struct {
	db *gorm.DB
}

func NewMetadataService(db *gorm.DB) *MetadataService {
	return &MetadataService{db: db}
}

func (s *MetadataService) Create(tx *gorm.DB, md *models.Metadata) error {
	return tx.Create(md).Error
}

func (s *MetadataService) Get(tx *gorm.DB, mint string) (*models.Metadata, error) {
	var md models.Metadata
	if err := tx.First(&md, "mint = ?", mint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("metadata not found for mint")
		}
		return nil, err
	}
	return &md, nil
}

func (s *MetadataService) Save(tx *gorm.DB, md *models.Metadata) error {
	return tx.Save(md).Error
}

// GetByAsset resolves the metadata record through the asset's master mint.
func (s *MetadataService) GetByAsset(asset *models.Asset) (*models.Metadata, error) {
	return s.Get(s.db, asset.MasterMint)
}
