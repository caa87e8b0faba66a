package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Every protocol operation runs as one transaction and locks the asset row
// for its whole duration, so concurrent installs racing for the last supply
// slot serialize and exactly one wins.

// lockForUpdate applies a row lock on dialects that support it. SQLite
// serializes writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// fetchAssetLocked loads an asset under an exclusive row lock.
func fetchAssetLocked(tx *gorm.DB, assetID uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := lockForUpdate(tx).First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, err
	}
	return &asset, nil
}

// fetchWalletLocked loads a wallet row under an exclusive lock.
func fetchWalletLocked(tx *gorm.DB, address string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := lockForUpdate(tx).First(&wallet, "address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("wallet not found: " + address)
		}
		return nil, err
	}
	return &wallet, nil
}

// sendPayment moves funds between two wallets inside the caller's
// transaction. Wallets are locked in address order to avoid deadlocks.
func sendPayment(tx *gorm.DB, from, to string, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}

	first, second := from, to
	if second < first {
		first, second = second, first
	}

	wallets := make(map[string]*models.Wallet, 2)
	for _, addr := range []string{first, second} {
		w, err := fetchWalletLocked(tx, addr)
		if err != nil {
			return err
		}
		wallets[addr] = w
	}

	if err := wallets[from].Debit(amount); err != nil {
		return err
	}
	if err := wallets[to].Credit(amount); err != nil {
		return err
	}

	if err := tx.Save(wallets[from]).Error; err != nil {
		return err
	}
	return tx.Save(wallets[to]).Error
}

// chargeDeposit debits the refundable storage deposit for allocating a
// child record.
func chargeDeposit(tx *gorm.DB, payer string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	wallet, err := fetchWalletLocked(tx, payer)
	if err != nil {
		return err
	}
	if err := wallet.Debit(amount); err != nil {
		return err
	}
	return tx.Save(wallet).Error
}

// refundDeposit returns a closed record's storage deposit to the receiver.
func refundDeposit(tx *gorm.DB, receiver string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	wallet, err := fetchWalletLocked(tx, receiver)
	if err != nil {
		return err
	}
	if err := wallet.Credit(amount); err != nil {
		return err
	}
	return tx.Save(wallet).Error
}
