package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lingohub_backend/app/models"
	"lingohub_backend/internal/pkg/currency"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepository) *Service {
	svc := NewService(repo, currency.NewConverter())
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedCatalog(f *fakeRepository) map[string]models.Tier {
	out := map[string]models.Tier{
		"free":       f.addTier("free", "Free", 0, 0),
		"pro":        f.addTier("pro", "Pro", 999, 9990),
		"team":       f.addTier("team", "Team", 2999, 29990),
		"enterprise": f.addTier("enterprise", "Enterprise", 9999, 0),
	}
	return out
}

func TestUpgradeSucceeds(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 2000, models.CurrencyUSD)

	res, err := newTestService(repo).Upgrade(context.Background(), 1, "pro", "monthly")
	require.NoError(t, err)

	assert.Equal(t, "pro", res.TierName)
	assert.Equal(t, models.BillingCycleMonthly, res.BillingCycle)
	assert.Equal(t, int64(999), res.AmountMinor)
	assert.Equal(t, models.CurrencyUSD, res.Currency)
	assert.Equal(t, int64(1001), res.NewBalanceMinor)
	assert.Equal(t, testNow, res.PeriodStart)
	assert.Equal(t, testNow.AddDate(0, 1, 0), res.PeriodEnd)

	assert.Equal(t, int64(1001), repo.walletBalance(wallet.ID))
	assert.Equal(t, 1, repo.countEntitled(1))
	require.Len(t, repo.txns, 1)
	txn := repo.txns[0]
	assert.Equal(t, models.TransactionTypeSubscription, txn.Type)
	assert.Equal(t, int64(-999), txn.AmountMinor)
	assert.Equal(t, int64(2000), txn.BalanceBeforeMinor)
	assert.Equal(t, int64(1001), txn.BalanceAfterMinor)

	meta := txn.Metadata.Data()
	assert.Equal(t, "pro", meta.TierName)
	assert.Equal(t, int64(999), meta.PriceUSDCents)
	assert.Equal(t, int64(999), meta.AmountDeductedMinor)
}

func TestUpgradeInsufficientFunds(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 0, models.CurrencyUSD)

	_, err := newTestService(repo).Upgrade(context.Background(), 1, "pro", "monthly")

	var ife *InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(999), ife.RequiredMinor)
	assert.Equal(t, int64(0), ife.AvailableMinor)
	assert.Equal(t, models.CurrencyUSD, ife.Currency)

	// No side effects at all.
	assert.Empty(t, repo.txns)
	assert.Empty(t, repo.subs)
	assert.Equal(t, int64(0), repo.walletBalance(wallet.ID))
}

func TestUpgradeTierNotFound(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	repo.addWallet(1, 2000, models.CurrencyUSD)

	_, err := newTestService(repo).Upgrade(context.Background(), 1, "platinum", "monthly")
	assert.ErrorIs(t, err, ErrTierNotFound)
}

func TestUpgradeUserNotFound(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)

	_, err := newTestService(repo).Upgrade(context.Background(), 42, "pro", "monthly")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpgradeWalletNotFound(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)

	_, err := newTestService(repo).Upgrade(context.Background(), 1, "pro", "monthly")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestUpgradeDowngradeRejected(t *testing.T) {
	repo := newFakeRepository()
	catalog := seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 100000, models.CurrencyUSD)
	repo.addSubscription(models.Subscription{
		UserID:             1,
		TierID:             catalog["pro"].ID,
		Status:             models.SubscriptionStatusActive,
		BillingCycle:       models.BillingCycleMonthly,
		CurrentPeriodStart: testNow.AddDate(0, 0, -10),
		CurrentPeriodEnd:   testNow.AddDate(0, 0, 20),
	})

	_, err := newTestService(repo).Upgrade(context.Background(), 1, "free", "monthly")
	assert.ErrorIs(t, err, ErrDowngradeNotAllowed)

	// Zero ledger rows, zero subscription changes.
	assert.Empty(t, repo.txns)
	assert.Equal(t, int64(100000), repo.walletBalance(wallet.ID))
	assert.Equal(t, 1, repo.countEntitled(1))
}

func TestUpgradeSameTierStacksPeriod(t *testing.T) {
	repo := newFakeRepository()
	catalog := seedCatalog(repo)
	repo.addUser(1)
	repo.addWallet(1, 10000, models.CurrencyUSD)

	periodEnd := testNow.AddDate(0, 0, 12)
	repo.addSubscription(models.Subscription{
		UserID:             1,
		TierID:             catalog["pro"].ID,
		Status:             models.SubscriptionStatusActive,
		BillingCycle:       models.BillingCycleMonthly,
		CurrentPeriodStart: testNow.AddDate(0, -1, 12),
		CurrentPeriodEnd:   periodEnd,
	})

	res, err := newTestService(repo).Upgrade(context.Background(), 1, "pro", "monthly")
	require.NoError(t, err)

	// The paid-for remainder is kept: the new period starts where the old
	// one would have ended.
	assert.Equal(t, periodEnd, res.PeriodStart)
	assert.Equal(t, periodEnd.AddDate(0, 1, 0), res.PeriodEnd)
	assert.Equal(t, 1, repo.countEntitled(1))
}

func TestUpgradeTierChangeStartsImmediately(t *testing.T) {
	repo := newFakeRepository()
	catalog := seedCatalog(repo)
	repo.addUser(1)
	repo.addWallet(1, 10000, models.CurrencyUSD)
	repo.addSubscription(models.Subscription{
		UserID:             1,
		TierID:             catalog["pro"].ID,
		Status:             models.SubscriptionStatusActive,
		BillingCycle:       models.BillingCycleMonthly,
		CurrentPeriodStart: testNow.AddDate(0, -1, 12),
		CurrentPeriodEnd:   testNow.AddDate(0, 0, 12),
	})

	res, err := newTestService(repo).Upgrade(context.Background(), 1, "team", "monthly")
	require.NoError(t, err)

	assert.Equal(t, testNow, res.PeriodStart)
	assert.Equal(t, 1, repo.countEntitled(1), "old row must be cancelled")
}

func TestUpgradeDebitsRawConvertedVND(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 300000, models.CurrencyVND)

	conv := currency.NewConverter()
	conv.SetUSDToVND(24000)
	svc := NewService(repo, conv)
	svc.now = func() time.Time { return testNow }

	res, err := svc.Upgrade(context.Background(), 1, "pro", "monthly")
	require.NoError(t, err)

	// $9.99 * 24000 = 239,760 dong: the raw converter output, never the
	// display-rounded 240,000.
	assert.Equal(t, int64(239760), res.AmountMinor)
	assert.Equal(t, int64(300000-239760), repo.walletBalance(wallet.ID))

	meta := repo.txns[0].Metadata.Data()
	assert.Equal(t, int64(999), meta.PriceUSDCents)
	assert.Equal(t, int64(239760), meta.AmountDeductedMinor)
	assert.Equal(t, models.CurrencyVND, meta.Currency)
}

func TestUpgradeYearlyFallsBackToTwelveMonths(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	repo.addWallet(1, 200000, models.CurrencyUSD)

	// Enterprise has no dedicated yearly price.
	res, err := newTestService(repo).Upgrade(context.Background(), 1, "enterprise", "yearly")
	require.NoError(t, err)

	assert.Equal(t, int64(9999*12), res.AmountMinor)
	assert.Equal(t, testNow.AddDate(1, 0, 0), res.PeriodEnd)
}

func TestUpgradeRollsBackOnInsertFailure(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 2000, models.CurrencyUSD)
	repo.createSubErr = errors.New("insert failed")

	_, err := newTestService(repo).Upgrade(context.Background(), 1, "pro", "monthly")
	require.Error(t, err)

	// The debit from the same transaction must be gone: no partial rows.
	assert.Empty(t, repo.txns)
	assert.Equal(t, int64(2000), repo.walletBalance(wallet.ID))
	assert.Equal(t, int64(0), repo.ledgerSum(wallet.ID))
}

func TestUpgradeTranslatesDuplicateKey(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 2000, models.CurrencyUSD)
	repo.createSubErr = gorm.ErrDuplicatedKey

	_, err := newTestService(repo).Upgrade(context.Background(), 1, "pro", "monthly")
	assert.ErrorIs(t, err, ErrSubscriptionExists)

	// The debit was rolled back together with the failed insert.
	assert.Empty(t, repo.txns)
	assert.Equal(t, int64(2000), repo.walletBalance(wallet.ID))
}

func TestConcurrentUpgradesCannotDoubleSpend(t *testing.T) {
	repo := newFakeRepository()
	seedCatalog(repo)
	repo.addUser(1)
	// Two pro-monthly upgrades cost 999 each; the balance covers one.
	wallet := repo.addWallet(1, 1500, models.CurrencyUSD)
	svc := newTestService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Upgrade(context.Background(), 1, "pro", "monthly")
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			var ife *InsufficientFundsError
			if !errors.As(err, &ife) && !errors.Is(err, ErrSubscriptionExists) {
				t.Fatalf("unexpected error kind: %v", err)
			}
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two concurrent upgrades must fail")

	assert.Equal(t, int64(1500-999), repo.walletBalance(wallet.ID))
	assert.Len(t, repo.txns, 1)
	assert.Equal(t, 1, repo.countEntitled(1))
	assert.Equal(t, int64(-999), repo.ledgerSum(wallet.ID))
}

func TestConcurrentRenewalsStackBothPeriods(t *testing.T) {
	repo := newFakeRepository()
	catalog := seedCatalog(repo)
	repo.addUser(1)
	wallet := repo.addWallet(1, 10000, models.CurrencyUSD)

	periodEnd := testNow.AddDate(0, 0, 12)
	repo.addSubscription(models.Subscription{
		UserID:             1,
		TierID:             catalog["pro"].ID,
		Status:             models.SubscriptionStatusActive,
		BillingCycle:       models.BillingCycleMonthly,
		CurrentPeriodStart: testNow.AddDate(0, -1, 12),
		CurrentPeriodEnd:   periodEnd,
	})

	// Hold both renewals at the transaction boundary so each one's
	// pre-transaction read sees the original row. Stacking must still build
	// on whatever the first committer inserted, not on that stale read.
	var gate sync.WaitGroup
	gate.Add(2)
	repo.beforeTransaction = func() {
		gate.Done()
		gate.Wait()
	}

	svc := newTestService(repo)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Upgrade(context.Background(), 1, "pro", "monthly")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Two paid renewals buy two stacked months; neither may overwrite the
	// other's period.
	sub, err := repo.ActiveOrTrialSubscription(1)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, periodEnd.AddDate(0, 2, 0), sub.CurrentPeriodEnd)

	assert.Equal(t, int64(10000-2*999), repo.walletBalance(wallet.ID))
	assert.Len(t, repo.txns, 2)
	assert.Equal(t, int64(-2*999), repo.ledgerSum(wallet.ID))
	assert.Equal(t, 1, repo.countEntitled(1))
}

func TestNormalizeCycle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "monthly", want: models.BillingCycleMonthly},
		{in: "yearly", want: models.BillingCycleYearly},
		{in: "", want: models.BillingCycleMonthly},
		{in: "weekly", want: models.BillingCycleMonthly},
	}

	for _, tt := range tests {
		if got := normalizeCycle(tt.in); got != tt.want {
			t.Fatalf("normalizeCycle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
