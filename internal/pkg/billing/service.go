package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lingohub_backend/app/models"
	"lingohub_backend/internal/pkg/tiers"
)

// Service orchestrates wallet-funded subscription upgrades. All writes of one
// upgrade happen in a single database transaction serialized on the wallet
// row lock, so a debit can never commit without its subscription or vice
// versa.
type Service struct {
	repo      Repository
	converter Converter
	now       func() time.Time
}

// NewService creates an upgrade service from injected collaborators.
func NewService(repo Repository, converter Converter) *Service {
	return &Service{
		repo:      repo,
		converter: converter,
		now:       time.Now,
	}
}

// NewServiceFromDB creates an upgrade service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, converter Converter) *Service {
	return NewService(NewRepository(db), converter)
}

// Upgrade moves a user to the given tier, paying from their wallet.
//
// Validation (tier, ordering, wallet, optimistic balance check) happens before
// the write transaction and fails fast without side effects. The authoritative
// part re-reads the balance and the current subscription under the wallet row
// lock, debits, cancels any superseded subscription and inserts the new one,
// all-or-nothing.
func (s *Service) Upgrade(ctx context.Context, userID uint, tierName, billingCycle string) (*UpgradeResult, error) {
	cycle := normalizeCycle(billingCycle)

	tier, err := s.repo.TierByName(tiers.Normalize(tierName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	priceUSD := tier.PriceMonthlyCents
	if cycle == models.BillingCycleYearly {
		if tier.PriceYearlyCents > 0 {
			priceUSD = tier.PriceYearlyCents
		} else {
			priceUSD = tier.PriceMonthlyCents * 12
		}
	}

	prev, err := NewProvisioner(s.repo).FindActiveOrTrial(userID)
	if err != nil {
		return nil, err
	}

	currentTierName := models.TierFree
	if prev != nil {
		prevTier, err := s.repo.TierByID(prev.TierID)
		if err != nil {
			return nil, err
		}
		currentTierName = prevTier.Name
	} else {
		exists, err := s.repo.UserExists(userID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
	}

	if tiers.OrderRank(tier.Name) < tiers.OrderRank(currentTierName) {
		return nil, ErrDowngradeNotAllowed
	}

	ledger := NewLedger(s.repo)
	wallet, err := ledger.GetWallet(userID)
	if err != nil {
		return nil, err
	}

	amount, err := s.converter.Convert(priceUSD, models.CurrencyUSD, wallet.Currency)
	if err != nil {
		return nil, err
	}

	// Optimistic check so the common shortfall case returns without taking
	// the row lock. The authoritative check runs again inside Debit.
	if amount > wallet.BalanceMinor {
		return nil, &InsufficientFundsError{
			RequiredMinor:  amount,
			AvailableMinor: wallet.BalanceMinor,
			Currency:       wallet.Currency,
		}
	}

	description := fmt.Sprintf("Subscription upgrade to %s (%s)", tier.DisplayName, cycle)
	meta := models.TransactionMetadata{
		TierName:            tier.Name,
		BillingCycle:        cycle,
		PriceUSDCents:       priceUSD,
		AmountDeductedMinor: amount,
		Currency:            wallet.Currency,
	}

	var result *UpgradeResult
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		txLedger := NewLedger(tx)
		locked, err := txLedger.LockForUpdate(wallet.ID)
		if err != nil {
			return err
		}

		// Re-read under the wallet lock: a concurrent upgrade that committed
		// between the optimistic read and this lock has replaced the
		// subscription row, and stacking must build on the committed row,
		// not the stale one.
		prov := NewProvisioner(tx)
		cur, err := prov.FindActiveOrTrial(userID)
		if err != nil {
			return err
		}
		if cur != nil {
			curTier, err := tx.TierByID(cur.TierID)
			if err != nil {
				return err
			}
			if tiers.OrderRank(tier.Name) < tiers.OrderRank(curTier.Name) {
				return ErrDowngradeNotAllowed
			}
		}

		txn, err := txLedger.Debit(locked, amount, description, meta)
		if err != nil {
			return err
		}

		if cur != nil {
			if err := prov.CancelActive(userID); err != nil {
				return err
			}
		}

		start, end := ComputePeriod(cur, tier.ID, cycle, s.now())
		sub, err := prov.InsertActive(userID, tier.ID, cycle, start, end)
		if err != nil {
			// The wallet lock already serializes same-user upgrades; the
			// unique index is a defensive fallback for races it cannot see.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSubscriptionExists
			}
			return err
		}

		result = &UpgradeResult{
			TierName:        tier.Name,
			TierDisplayName: tier.DisplayName,
			Features:        tier.Features.Data(),
			BillingCycle:    cycle,
			AmountMinor:     amount,
			Currency:        wallet.Currency,
			NewBalanceMinor: txn.BalanceAfterMinor,
			PeriodStart:     sub.CurrentPeriodStart,
			PeriodEnd:       sub.CurrentPeriodEnd,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func normalizeCycle(cycle string) string {
	if cycle == models.BillingCycleYearly {
		return models.BillingCycleYearly
	}
	return models.BillingCycleMonthly
}
