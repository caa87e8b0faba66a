package models

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wallet is a funded account identified by an opaque address. The real
// signing and address-derivation scheme lives outside the protocol core;
// here accounts register and authenticate against the API instead.
type Wallet struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Address      string    `gorm:"uniqueIndex;not null" json:"address"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Balance      uint64    `gorm:"not null;default:0" json:"balance"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Address == "" {
		addr, err := generateAddress()
		if err != nil {
			return err
		}
		w.Address = addr
	}
	return nil
}

// Credit adds funds with checked arithmetic.
func (w *Wallet) Credit(amount uint64) error {
	if w.Balance > math.MaxUint64-amount {
		return ErrArithmeticOverflow
	}
	w.Balance += amount
	return nil
}

// Debit removes funds; an uncovered debit aborts the operation.
func (w *Wallet) Debit(amount uint64) error {
	if w.Balance < amount {
		return ErrInsufficientFunds
	}
	w.Balance -= amount
	return nil
}

// generateAddress creates an opaque 32-byte hex account address.
func generateAddress() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	WalletID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
