package billing

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"lingohub_backend/app/models"
)

// fakeRepository is an in-memory Repository. Transaction serializes callers on
// a mutex the way the wallet row lock serializes them in Postgres, and rolls
// state back when the callback fails.
type fakeRepository struct {
	txMu    sync.Mutex
	stateMu sync.Mutex

	users   map[uint]bool
	tiers   []models.Tier
	wallets []models.Wallet
	txns    []models.WalletTransaction
	subs    []models.Subscription

	nextID        uint
	createSubErr  error
	enforceUnique bool

	// beforeTransaction, when set, runs before the transaction mutex is
	// taken. Tests use it to hold callers at the lock boundary after their
	// pre-transaction reads.
	beforeTransaction func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:         make(map[uint]bool),
		nextID:        1,
		enforceUnique: true,
	}
}

func (f *fakeRepository) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepository) addUser(userID uint) {
	f.users[userID] = true
}

func (f *fakeRepository) addTier(name, display string, monthlyCents, yearlyCents int64) models.Tier {
	t := models.Tier{
		ID:                f.id(),
		Name:              name,
		DisplayName:       display,
		PriceMonthlyCents: monthlyCents,
		PriceYearlyCents:  yearlyCents,
	}
	f.tiers = append(f.tiers, t)
	return t
}

func (f *fakeRepository) addWallet(userID uint, balanceMinor int64, curr string) models.Wallet {
	w := models.Wallet{
		ID:           f.id(),
		UserID:       userID,
		BalanceMinor: balanceMinor,
		Currency:     curr,
		Status:       models.WalletStatusActive,
	}
	f.wallets = append(f.wallets, w)
	return w
}

func (f *fakeRepository) addSubscription(sub models.Subscription) models.Subscription {
	sub.ID = f.id()
	f.subs = append(f.subs, sub)
	return sub
}

func (f *fakeRepository) UserExists(userID uint) (bool, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	return f.users[userID], nil
}

func (f *fakeRepository) TierByName(name string) (*models.Tier, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for _, t := range f.tiers {
		if t.Name == name {
			tier := t
			return &tier, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) TierByID(id uint) (*models.Tier, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for _, t := range f.tiers {
		if t.ID == id {
			tier := t
			return &tier, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) WalletByUserID(userID uint) (*models.Wallet, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for _, w := range f.wallets {
		if w.UserID == userID {
			wallet := w
			return &wallet, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) LockWallet(walletID uint) (*models.Wallet, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for _, w := range f.wallets {
		if w.ID == walletID {
			wallet := w
			return &wallet, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateWalletBalance(walletID uint, balanceMinor int64) error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for i := range f.wallets {
		if f.wallets[i].ID == walletID {
			f.wallets[i].BalanceMinor = balanceMinor
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) CreateWalletTransaction(txn *models.WalletTransaction) error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	txn.ID = f.id()
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeRepository) ActiveOrTrialSubscription(userID uint) (*models.Subscription, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	return f.entitledLocked(userID), nil
}

func (f *fakeRepository) entitledLocked(userID uint) *models.Subscription {
	for i := range f.subs {
		if f.subs[i].UserID == userID && f.subs[i].IsEntitling() {
			sub := f.subs[i]
			return &sub
		}
	}
	return nil
}

func (f *fakeRepository) CancelEntitledSubscriptions(userID uint) error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for i := range f.subs {
		if f.subs[i].UserID == userID && f.subs[i].IsEntitling() {
			f.subs[i].Status = models.SubscriptionStatusCancelled
			f.subs[i].CancelAtPeriodEnd = false
		}
	}
	return nil
}

func (f *fakeRepository) CreateSubscription(sub *models.Subscription) error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	if f.createSubErr != nil {
		return f.createSubErr
	}
	if f.enforceUnique && f.entitledLocked(sub.UserID) != nil {
		return gorm.ErrDuplicatedKey
	}
	sub.ID = f.id()
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	if f.beforeTransaction != nil {
		f.beforeTransaction()
	}
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.stateMu.Lock()
	snapWallets := append([]models.Wallet(nil), f.wallets...)
	snapTxns := append([]models.WalletTransaction(nil), f.txns...)
	snapSubs := append([]models.Subscription(nil), f.subs...)
	f.stateMu.Unlock()

	if err := fn(f); err != nil {
		f.stateMu.Lock()
		f.wallets = snapWallets
		f.txns = snapTxns
		f.subs = snapSubs
		f.stateMu.Unlock()
		return err
	}
	return nil
}

// ledgerSum returns the signed sum of all recorded rows for a wallet.
func (f *fakeRepository) ledgerSum(walletID uint) int64 {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	var sum int64
	for _, txn := range f.txns {
		if txn.WalletID == walletID {
			sum += txn.AmountMinor
		}
	}
	return sum
}

func (f *fakeRepository) walletBalance(walletID uint) int64 {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	for _, w := range f.wallets {
		if w.ID == walletID {
			return w.BalanceMinor
		}
	}
	return 0
}

func (f *fakeRepository) countEntitled(userID uint) int {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	n := 0
	for _, s := range f.subs {
		if s.UserID == userID && s.IsEntitling() {
			n++
		}
	}
	return n
}
