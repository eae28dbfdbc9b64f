package counter

import (
	"context"
	"strconv"

	"lingohub_backend/internal/pkg/cache"
)

const (
	upgradeSuccessKey = "billing:counters:upgrade_success"
	upgradeFailureKey = "billing:counters:upgrade_failure"
)

// AddUpgradeSuccess increments the per-tier success counter in Redis.
// Counters are best-effort operational telemetry, not billing state.
func AddUpgradeSuccess(tierName string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, upgradeSuccessKey, tierName, 1).Err()
}

// AddUpgradeFailure increments the per-error failure counter in Redis.
func AddUpgradeFailure(errorCode string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, upgradeFailureKey, errorCode, 1).Err()
}

// UpgradeSuccesses reads the current per-tier success counters.
func UpgradeSuccesses() (map[string]int64, error) {
	ctx := context.Background()
	raw, err := cache.GetClient().HGetAll(ctx, upgradeSuccessKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for tier, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[tier] = n
	}
	return out, nil
}
