package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// TokenService is the ownership-token primitive: mint, freeze, thaw, move,
// burn. Exactly one unit of a mint exists per app asset. All methods join
// the caller's transaction so a failed step aborts the whole operation.
type TokenService struct {
	db *gorm.DB
}

func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{db: db}
}

// Mint creates a new single-unit token owned by the given wallet and
// returns the mint address.
func (s *TokenService) Mint(tx *gorm.DB, owner string) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	mint := hex.EncodeToString(bytes)

	holding := &models.TokenAccount{
		Mint:   mint,
		Owner:  owner,
		Amount: 1,
	}
	if err := tx.Create(holding).Error; err != nil {
		return "", err
	}
	return mint, nil
}

// Holding loads the token account for (mint, owner).
func (s *TokenService) Holding(tx *gorm.DB, mint, owner string) (*models.TokenAccount, error) {
	var holding models.TokenAccount
	if err := lockForUpdate(tx).First(&holding, "mint = ? AND owner = ?", mint, owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("token account not found")
		}
		return nil, err
	}
	return &holding, nil
}

// OwnerOf returns the wallet currently holding the single unit of a mint.
func (s *TokenService) OwnerOf(tx *gorm.DB, mint string) (string, error) {
	var holding models.TokenAccount
	if err := tx.First(&holding, "mint = ? AND amount = ?", mint, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("no holder for mint")
		}
		return "", err
	}
	return holding.Owner, nil
}

// Freeze marks a holding inert so the unit cannot move outside a transfer.
func (s *TokenService) Freeze(tx *gorm.DB, mint, owner string) error {
	holding, err := s.Holding(tx, mint, owner)
	if err != nil {
		return err
	}
	holding.Frozen = true
	return tx.Save(holding).Error
}

// Thaw lifts the freeze on a holding.
func (s *TokenService) Thaw(tx *gorm.DB, mint, owner string) error {
	holding, err := s.Holding(tx, mint, owner)
	if err != nil {
		return err
	}
	holding.Frozen = false
	return tx.Save(holding).Error
}

// Move transfers the single unit from one wallet's holding to another's,
// creating the destination holding if needed. The source must be thawed.
func (s *TokenService) Move(tx *gorm.DB, mint, from, to string) error {
	source, err := s.Holding(tx, mint, from)
	if err != nil {
		return err
	}
	if source.Amount != 1 {
		return errors.New("source token account is empty")
	}
	if source.Frozen {
		return errors.New("source token account is frozen")
	}

	var dest models.TokenAccount
	err = lockForUpdate(tx).First(&dest, "mint = ? AND owner = ?", mint, to).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		dest = models.TokenAccount{Mint: mint, Owner: to, Amount: 0}
		if err := tx.Create(&dest).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	}

	source.Amount = 0
	dest.Amount = 1
	if err := tx.Save(source).Error; err != nil {
		return err
	}
	return tx.Save(&dest).Error
}

// CloseHolding removes an empty token account, reclaiming its storage.
func (s *TokenService) CloseHolding(tx *gorm.DB, mint, owner string) error {
	holding, err := s.Holding(tx, mint, owner)
	if err != nil {
		return err
	}
	if holding.Amount != 0 {
		return errors.New("token account is not empty")
	}
	return tx.Delete(holding).Error
}

// Burn destroys the held unit and closes the account.
func (s *TokenService) Burn(tx *gorm.DB, mint, owner string) error {
	holding, err := s.Holding(tx, mint, owner)
	if err != nil {
		return err
	}
	if holding.Amount != 1 {
		return errors.New("token account is empty")
	}
	return tx.Delete(holding).Error
}
