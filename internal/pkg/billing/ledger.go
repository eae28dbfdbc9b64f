package billing

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"lingohub_backend/app/models"
)

// Ledger owns balance mutation and the append-only transaction history for
// wallets. Debit must only be called with a wallet read through LockForUpdate
// on a transaction-scoped repository.
type Ledger struct {
	repo Repository
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// GetWallet loads a user's wallet without locking it.
func (l *Ledger) GetWallet(userID uint) (*models.Wallet, error) {
	wallet, err := l.repo.WalletByUserID(userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

// LockForUpdate acquires an exclusive row lock on the wallet and returns the
// authoritative balance.
func (l *Ledger) LockForUpdate(walletID uint) (*models.Wallet, error) {
	return l.repo.LockWallet(walletID)
}

// Debit subtracts amountMinor from the wallet and records one ledger row, both
// through the same repository (and therefore the same transaction). The
// balance check here is authoritative; the wallet must hold the row lock.
func (l *Ledger) Debit(wallet *models.Wallet, amountMinor int64, description string, meta models.TransactionMetadata) (*models.WalletTransaction, error) {
	if amountMinor < 0 {
		return nil, fmt.Errorf("ledger: negative debit amount %d", amountMinor)
	}
	if amountMinor > wallet.BalanceMinor {
		return nil, &InsufficientFundsError{
			RequiredMinor:  amountMinor,
			AvailableMinor: wallet.BalanceMinor,
			Currency:       wallet.Currency,
		}
	}

	after := wallet.BalanceMinor - amountMinor
	txn := &models.WalletTransaction{
		WalletID:           wallet.ID,
		Reference:          uuid.NewString(),
		Type:               models.TransactionTypeSubscription,
		AmountMinor:        -amountMinor,
		BalanceBeforeMinor: wallet.BalanceMinor,
		BalanceAfterMinor:  after,
		Status:             models.TransactionStatusCompleted,
		Description:        description,
		Metadata:           datatypes.NewJSONType(meta),
	}

	if err := l.repo.CreateWalletTransaction(txn); err != nil {
		return nil, err
	}
	if err := l.repo.UpdateWalletBalance(wallet.ID, after); err != nil {
		return nil, err
	}
	wallet.BalanceMinor = after

	return txn, nil
}
