package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lingohub_backend/app/models"
	"lingohub_backend/app/repository"
	"lingohub_backend/internal/pkg/currency"
)

// displayConverter is wired at startup; see InitPricing.
var displayConverter *currency.Converter

// InitPricing injects the converter used for display pricing.
func InitPricing(conv *currency.Converter) {
	displayConverter = conv
}

// HandleListTiers returns the tier catalog with display prices in the
// requested currency. VND display prices are rounded up to the nearest 1000
// dong; the upgrade debit never uses these rounded values.
func HandleListTiers(c *fiber.Ctx) error {
	curr := strings.ToUpper(c.Query("currency", models.CurrencyUSD))
	if curr != models.CurrencyUSD && curr != models.CurrencyVND {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Unsupported currency"})
	}

	repo := repository.GetGlobalFactory().GetTierRepository()
	tiers, err := repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load tiers")})
	}

	items := make([]fiber.Map, 0, len(tiers))
	for _, tier := range tiers {
		monthly, yearly, err := displayPrices(tier, curr)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to price tiers")})
		}
		items = append(items, fiber.Map{
			"name":          tier.Name,
			"display_name":  tier.DisplayName,
			"order_rank":    tier.OrderRank,
			"features":      tier.Features.Data(),
			"price_monthly": monthly,
			"price_yearly":  yearly,
			"currency":      curr,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"tiers": items})
}

func displayPrices(tier models.Tier, curr string) (int64, int64, error) {
	if displayConverter == nil {
		return tier.PriceMonthlyCents, tier.PriceYearlyCents, nil
	}

	yearlyUSD := tier.PriceYearlyCents
	if yearlyUSD == 0 {
		yearlyUSD = tier.PriceMonthlyCents * 12
	}

	monthly, err := displayConverter.Convert(tier.PriceMonthlyCents, models.CurrencyUSD, curr)
	if err != nil {
		return 0, 0, err
	}
	yearly, err := displayConverter.Convert(yearlyUSD, models.CurrencyUSD, curr)
	if err != nil {
		return 0, 0, err
	}
	return currency.RoundUpForDisplay(monthly, curr), currency.RoundUpForDisplay(yearly, curr), nil
}
