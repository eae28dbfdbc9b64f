package jobs

import (
	"log"

	"github.com/robfig/cron/v3"

	"lingohub_backend/app/repository"
	"lingohub_backend/internal/pkg/currency"
)

// Start registers the background jobs and starts the scheduler:
// an hourly subscription expiry sweep and a currency rate refresh.
func Start(repos *repository.Repositories, conv *currency.Converter) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("5 * * * *", func() {
		sweepExpiredSubscriptions(repos.Subscription)
	}); err != nil {
		log.Printf("Could not register subscription expiry job: %v", err)
	}

	if _, err := c.AddFunc("*/10 * * * *", func() {
		refreshRates(conv)
	}); err != nil {
		log.Printf("Could not register rate refresh job: %v", err)
	}

	// Prime the rate table so the first requests don't run on the default.
	refreshRates(conv)

	c.Start()
	return c
}
