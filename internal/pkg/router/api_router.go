package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"lingohub_backend/app/controllers"
	"lingohub_backend/internal/pkg/constants"
	"lingohub_backend/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Public catalog
	v1.Get(constants.TiersRoute, controllers.HandleListTiers)

	// Authenticated wallet + subscription routes
	protected := v1.Group("", middleware.APITokenAuthMiddleware())
	protected.Get(constants.WalletRoute, controllers.HandleGetWallet)
	protected.Get(constants.WalletTransactionsRoute, controllers.HandleListWalletTransactions)
	protected.Get(constants.MySubscriptionRoute, controllers.HandleGetMySubscription)
	protected.Delete(constants.MySubscriptionRoute, controllers.HandleCancelMySubscription)
	protected.Post(constants.UpgradeRoute, controllers.HandleUpgradeSubscription)
	protected.Get(constants.UpgradeStatsRoute, controllers.HandleUpgradeStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
