package jobs

import (
	"log"
	"time"

	"lingohub_backend/app/repository"
)

// sweepExpiredSubscriptions cancels entitling rows whose paid-for period has
// ended and which will not renew. Renewal charging itself is a separate flow;
// the sweep only retires lapsed rows.
func sweepExpiredSubscriptions(repo repository.SubscriptionRepository) {
	n, err := repo.ExpireDue(time.Now())
	if err != nil {
		log.Printf("subscription expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("subscription expiry sweep cancelled %d lapsed subscriptions", n)
	}
}
