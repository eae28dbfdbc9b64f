package jobs

import (
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"

	"lingohub_backend/internal/pkg/cache"
	"lingohub_backend/internal/pkg/currency"
	"lingohub_backend/internal/pkg/env"
)

// RateCacheKey is where the out-of-band rate importer publishes the current
// VND-per-USD rate.
const RateCacheKey = "rates:usd_vnd"

// refreshRates pulls the USD->VND rate from the cache into the converter's
// in-memory snapshot. A missing key falls back to the RATE_USD_VND env value;
// other cache failures keep the last known rate.
func refreshRates(conv *currency.Converter) {
	rate, err := cache.GetInt64(RateCacheKey)
	if err == redis.Nil {
		rate = envRate()
	} else if err != nil {
		log.Printf("rate refresh failed, keeping last rate %d: %v", conv.USDToVND(), err)
		return
	}

	if rate > 0 && rate != conv.USDToVND() {
		conv.SetUSDToVND(rate)
		log.Printf("USD->VND rate updated to %d", rate)
	}
}

func envRate() int64 {
	rate, err := strconv.ParseInt(env.GetEnv("RATE_USD_VND", ""), 10, 64)
	if err != nil {
		return 0
	}
	return rate
}
