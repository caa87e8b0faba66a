package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"github.com/xnftlabs/backend/pkg/validation"
	"gorm.io/gorm"
)

type ReviewService struct {
	db      *gorm.DB
	cfg     *config.Config
	tokens  *TokenService
	storage *StorageService
	audit   *AuditService
}

func NewReviewService(db *gorm.DB, cfg *config.Config, tokens *TokenService, storage *StorageService, audit *AuditService) *ReviewService {
	return &ReviewService{db: db, cfg: cfg, tokens: tokens, storage: storage, audit: audit}
}

// CreateReview writes a review for an installed app asset and folds the
// rating into the asset's aggregate. When a comment body is supplied and
// off-chain storage is configured, the body is uploaded first and the
// resulting uri is stored on the review.
func (s *ReviewService) CreateReview(ctx context.Context, assetID uuid.UUID, author, uri string, rating uint8, comment string) (*models.Review, error) {
	if rating > models.MaxRating {
		return nil, models.ErrRatingOutOfBounds
	}

	// The upload happens before the transaction: the blob store is an
	// external collaborator, and an orphaned comment blob is harmless if
	// validation rejects the review afterwards.
	if comment != "" && s.storage != nil {
		uploaded, err := s.storage.UploadComment(ctx, assetID.String(), author, []byte(comment))
		if err != nil {
			return nil, fmt.Errorf("failed to store comment: %w", err)
		}
		uri = uploaded
	}
	if err := validation.ValidateUri(uri); err != nil {
		return nil, err
	}

	var review *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if asset.Kind != models.KindApp {
			return models.ErrMustBeApp
		}
		if asset.Publisher == author {
			return models.ErrCannotReviewOwned
		}
		owner, err := s.tokens.OwnerOf(tx, asset.MasterMint)
		if err != nil {
			return err
		}
		if owner == author {
			return models.ErrCannotReviewOwned
		}

		var install models.Install
		if err := tx.First(&install, "asset_id = ? AND authority = ?", asset.ID, author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrReviewInstallMismatch
			}
			return err
		}

		var existing models.Review
		if err := tx.First(&existing, "asset_id = ? AND author = ?", asset.ID, author).Error; err == nil {
			return models.Conflict("wallet has already reviewed this asset")
		}

		if err := chargeDeposit(tx, author, s.cfg.StorageDeposit); err != nil {
			return err
		}

		if err := asset.AddRating(rating); err != nil {
			return err
		}
		if err := tx.Save(asset).Error; err != nil {
			return err
		}

		review = &models.Review{
			Author:  author,
			AssetID: asset.ID,
			Rating:  rating,
			Uri:     uri,
			Deposit: s.cfg.StorageDeposit,
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, author, models.ActionReviewCreated, "review", review.ID.String(), map[string]interface{}{
			"asset_id": asset.ID.String(),
			"rating":   rating,
		})
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview closes a review and backs its rating out of the asset's
// aggregate with checked arithmetic.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uuid.UUID, author, receiver string) error {
	if receiver == "" {
		receiver = author
	}
	var assetID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The row lock keeps a racing delete of the same review from
		// decrementing the aggregate twice and double-refunding the
		// deposit: the loser re-reads after commit and finds nothing.
		var review models.Review
		if err := lockForUpdate(tx).First(&review, "id = ?", reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("review not found")
			}
			return err
		}
		if review.Author != author {
			return errors.New("only the review author can delete it")
		}

		asset, err := fetchAssetLocked(tx, review.AssetID)
		if err != nil {
			return err
		}
		assetID = asset.ID

		if err := asset.RemoveRating(review.Rating); err != nil {
			return err
		}
		if err := tx.Save(asset).Error; err != nil {
			return err
		}

		res := tx.Delete(&review)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("review not found")
		}
		if err := refundDeposit(tx, receiver, review.Deposit); err != nil {
			return err
		}

		return s.audit.Record(tx, author, models.ActionReviewDeleted, "review", review.ID.String(), nil)
	})
	if err != nil {
		return err
	}

	// Best effort: the orphaned comment blob costs nothing but space.
	if s.storage != nil {
		if derr := s.storage.DeleteComment(ctx, assetID.String(), author); derr != nil {
			log.Printf("WARN: failed to delete comment blob for review %s: %v", reviewID, derr)
		}
	}
	return nil
}

// GetAssetReviews lists the reviews of an asset.
func (s *ReviewService) GetAssetReviews(assetID uuid.UUID) ([]*models.Review, error) {
	var reviews []*models.Review
	err := s.db.Where("asset_id = ?", assetID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
