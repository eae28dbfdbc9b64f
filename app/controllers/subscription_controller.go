package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lingohub_backend/app/repository"
	"lingohub_backend/internal/pkg/billing"
	"lingohub_backend/internal/pkg/metrics/counter"
	"lingohub_backend/internal/pkg/usercontext"
)

var validate = validator.New()

// billingService is wired at startup; see InitBilling.
var billingService *billing.Service

// InitBilling injects the upgrade service used by the subscription handlers.
func InitBilling(svc *billing.Service) {
	billingService = svc
}

type upgradeRequest struct {
	TierName     string `json:"tier_name" validate:"required"`
	BillingCycle string `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
}

// HandleUpgradeSubscription moves the authenticated user to a new tier, paid
// from their wallet.
func HandleUpgradeSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}
	if billingService == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Billing unavailable"})
	}

	var req upgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "tier_name is required and billing_cycle must be monthly or yearly"})
	}

	result, err := billingService.Upgrade(c.UserContext(), userCtx.UserID, req.TierName, req.BillingCycle)
	if err != nil {
		status, body := upgradeErrorResponse(err)
		if status == fiber.StatusInternalServerError {
			log.Printf("subscription upgrade failed for user %d: %v", userCtx.UserID, err)
			body["message"] = internalErrorMessage(err, "Upgrade failed")
		}
		if code, ok := body["error"].(string); ok {
			_ = counter.AddUpgradeFailure(code)
		}
		return c.Status(status).JSON(body)
	}

	_ = counter.AddUpgradeSuccess(result.TierName)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Subscription upgraded successfully",
		"tier": fiber.Map{
			"name":         result.TierName,
			"display_name": result.TierDisplayName,
			"features":     result.Features,
		},
		"payment": fiber.Map{
			"amount":        result.AmountMinor,
			"currency":      result.Currency,
			"new_balance":   result.NewBalanceMinor,
			"billing_cycle": result.BillingCycle,
		},
		"period": fiber.Map{
			"start": result.PeriodStart.UTC().Format(time.RFC3339),
			"end":   result.PeriodEnd.UTC().Format(time.RFC3339),
		},
	})
}

// upgradeErrorResponse maps engine errors to HTTP status and response body.
func upgradeErrorResponse(err error) (int, fiber.Map) {
	var ife *billing.InsufficientFundsError
	switch {
	case errors.Is(err, billing.ErrTierNotFound):
		return fiber.StatusNotFound, fiber.Map{"error": "tier_not_found", "message": "Unknown subscription tier"}
	case errors.Is(err, billing.ErrUserNotFound):
		return fiber.StatusNotFound, fiber.Map{"error": "user_not_found", "message": "User not found"}
	case errors.Is(err, billing.ErrWalletNotFound):
		return fiber.StatusNotFound, fiber.Map{"error": "wallet_not_found", "message": "Wallet not found"}
	case errors.Is(err, billing.ErrDowngradeNotAllowed):
		return fiber.StatusBadRequest, fiber.Map{"error": "downgrade_not_allowed", "message": "Downgrades must go through the cancel flow"}
	case errors.As(err, &ife):
		return fiber.StatusBadRequest, fiber.Map{
			"error":   "insufficient_funds",
			"message": "Wallet balance is too low for this upgrade",
			"details": fiber.Map{
				"required":  ife.RequiredMinor,
				"available": ife.AvailableMinor,
				"currency":  ife.Currency,
			},
		}
	case errors.Is(err, billing.ErrSubscriptionExists):
		return fiber.StatusConflict, fiber.Map{"error": "subscription_exists", "message": "A concurrent upgrade finished first; refresh and retry"}
	default:
		return fiber.StatusInternalServerError, fiber.Map{"error": "internal_server_error"}
	}
}

// HandleGetMySubscription returns the user's entitling subscription, or the
// free default when none exists.
func HandleGetMySubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repo := repository.GetGlobalFactory().GetSubscriptionRepository()
	sub, err := repo.FindActiveOrTrialByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load subscription")})
	}
	if sub == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"tier": "free", "status": "none"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"tier":                 sub.Tier.Name,
		"display_name":         sub.Tier.DisplayName,
		"status":               sub.Status,
		"billing_cycle":        sub.BillingCycle,
		"current_period_start": sub.CurrentPeriodStart.UTC().Format(time.RFC3339),
		"current_period_end":   sub.CurrentPeriodEnd.UTC().Format(time.RFC3339),
		"auto_renew":           sub.AutoRenew,
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
	})
}

// HandleCancelMySubscription schedules the entitling subscription to lapse at
// the end of the paid-for period.
func HandleCancelMySubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repo := repository.GetGlobalFactory().GetSubscriptionRepository()
	if err := repo.ScheduleCancelAtPeriodEnd(userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No active subscription to cancel"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to cancel subscription")})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Subscription will end at the current period end"})
}
