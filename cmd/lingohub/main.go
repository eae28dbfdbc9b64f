package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"lingohub_backend/app/controllers"
	"lingohub_backend/app/repository"
	"lingohub_backend/internal/pkg/billing"
	"lingohub_backend/internal/pkg/cache"
	"lingohub_backend/internal/pkg/constants"
	"lingohub_backend/internal/pkg/currency"
	"lingohub_backend/internal/pkg/database"
	"lingohub_backend/internal/pkg/env"
	"lingohub_backend/internal/pkg/jobs"
	"lingohub_backend/internal/pkg/router"
	"lingohub_backend/internal/pkg/seed"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)
	if err := seed.SeedTiers(db); err != nil {
		log.Fatalf("failed to seed tier catalog: %v", err)
	}

	converter := currency.NewConverter()
	controllers.InitBilling(billing.NewServiceFromDB(db, converter))
	controllers.InitPricing(converter)

	jobs.Start(repository.GetGlobalRepositories(), converter)

	app := fiber.New(fiber.Config{
		AppName: "lingohub",
	})

	app.Use(recover.New(), logger.New())
	app.Get(constants.MetricsRoute, monitor.New())

	router.InstallRouter(app)

	return app
}
