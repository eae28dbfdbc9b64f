package currency

import (
	"fmt"
	"sync"

	"lingohub_backend/app/models"
)

// DefaultUSDToVND is the fallback VND-per-USD rate used until the rate table
// has been refreshed from the cache.
const DefaultUSDToVND int64 = 24000

// minorUnitsPerMajor maps a currency to how many minor units make one major
// unit. VND has no minor unit in practice.
var minorUnitsPerMajor = map[string]int64{
	models.CurrencyUSD: 100,
	models.CurrencyVND: 1,
}

// Converter converts fixed-point amounts between wallet currencies using an
// in-memory rate snapshot. The snapshot is refreshed out-of-band (see the
// rates refresh job); reads never block on the refresh path.
type Converter struct {
	mu       sync.RWMutex
	usdToVND int64
}

func NewConverter() *Converter {
	return &Converter{usdToVND: DefaultUSDToVND}
}

// SetUSDToVND replaces the VND-per-USD rate. Non-positive rates are ignored so
// a bad refresh can never zero out pricing.
func (c *Converter) SetUSDToVND(rate int64) {
	if rate <= 0 {
		return
	}
	c.mu.Lock()
	c.usdToVND = rate
	c.mu.Unlock()
}

func (c *Converter) USDToVND() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.usdToVND
}

// Convert converts an amount in minor units from one currency to another.
// Identity when the currencies match. The USD->VND result rounds up on any
// division remainder so a conversion can never undercharge.
func (c *Converter) Convert(amountMinor int64, from, to string) (int64, error) {
	if from == to {
		return amountMinor, nil
	}

	if from == models.CurrencyUSD && to == models.CurrencyVND {
		rate := c.USDToVND()
		v := amountMinor * rate
		per := minorUnitsPerMajor[models.CurrencyUSD]
		out := v / per
		if v%per != 0 {
			out++
		}
		return out, nil
	}

	return 0, fmt.Errorf("currency: unsupported conversion %s->%s", from, to)
}

// RoundUpForDisplay rounds a VND amount up to the nearest 1000 dong for
// user-facing price tags. Display only: the debit path always uses the raw
// converter output.
func RoundUpForDisplay(amountMinor int64, currency string) int64 {
	if currency != models.CurrencyVND {
		return amountMinor
	}
	const step = 1000
	if rem := amountMinor % step; rem != 0 {
		return amountMinor + step - rem
	}
	return amountMinor
}
