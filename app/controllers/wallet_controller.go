package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lingohub_backend/app/models"
	"lingohub_backend/app/repository"
	"lingohub_backend/internal/pkg/usercontext"
)

// HandleGetWallet returns the authenticated user's balance snapshot.
func HandleGetWallet(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repo := repository.GetGlobalFactory().GetWalletRepository()
	wallet, err := repo.GetByUserID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet_not_found", "message": "Wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load wallet")})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"balance":  wallet.BalanceMinor,
		"currency": wallet.Currency,
		"status":   wallet.Status,
	})
}

// HandleListWalletTransactions returns the append-only ledger history, newest
// first.
func HandleListWalletTransactions(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repo := repository.GetGlobalFactory().GetWalletRepository()
	wallet, err := repo.GetByUserID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet_not_found", "message": "Wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load wallet")})
	}

	offset, limit := parsePaging(c)
	txns, err := repo.ListTransactions(wallet.ID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load transactions")})
	}
	total, err := repo.CountTransactions(wallet.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load transactions")})
	}

	items := make([]fiber.Map, 0, len(txns))
	for _, txn := range txns {
		items = append(items, transactionResponse(txn))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"transactions": items,
		"total":        total,
		"offset":       offset,
		"limit":        limit,
	})
}

func transactionResponse(txn models.WalletTransaction) fiber.Map {
	return fiber.Map{
		"reference":      txn.Reference,
		"type":           txn.Type,
		"amount":         txn.AmountMinor,
		"balance_before": txn.BalanceBeforeMinor,
		"balance_after":  txn.BalanceAfterMinor,
		"status":         txn.Status,
		"description":    txn.Description,
		"metadata":       txn.Metadata.Data(),
		"created_at":     txn.CreatedAt.UTC().Format(time.RFC3339),
	}
}
