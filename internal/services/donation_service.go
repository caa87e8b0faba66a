package services

import (
	"math"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// DonationService splits a payment among an asset's listed creators.
type DonationService struct {
	db       *gorm.DB
	metadata *MetadataService
	audit    *AuditService
}

func NewDonationService(db *gorm.DB, metadata *MetadataService, audit *AuditService) *DonationService {
	return &DonationService{db: db, metadata: metadata, audit: audit}
}

// Donate walks the metadata creator list and pays each creator
// floor(amount*share/100) from the donor. Every creator must appear in the
// supplied destinations or the whole donation aborts. Integer division
// leaves the dust with the donor on purpose.
func (s *DonationService) Donate(assetID uuid.UUID, donor string, amount uint64, destinations []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}
		if asset.Kind != models.KindApp {
			return models.ErrMustBeApp
		}

		md, err := s.metadata.Get(tx, asset.MasterMint)
		if err != nil {
			return err
		}
		if len(md.Creators) == 0 {
			return models.ErrUnknownCreator
		}

		supplied := make(map[string]bool, len(destinations))
		for _, d := range destinations {
			supplied[d] = true
		}

		available := amount
		for _, c := range md.Creators {
			if !supplied[c.Address] {
				return models.ErrUnknownCreator
			}
			if c.Share > 100 {
				return models.ErrArithmeticOverflow
			}

			if c.Share > 0 && amount > math.MaxUint64/uint64(c.Share) {
				return models.ErrArithmeticOverflow
			}
			partition := amount * uint64(c.Share) / 100

			if partition > available {
				return models.ErrArithmeticUnderflow
			}
			if err := sendPayment(tx, donor, c.Address, partition); err != nil {
				return err
			}
			available -= partition
		}

		return s.audit.Record(tx, donor, models.ActionDonated, "asset", asset.ID.String(), map[string]interface{}{
			"amount": amount,
		})
	})
}
