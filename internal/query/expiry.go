package query

import (
	"math"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// ExpiringSoonDays is the horizon of the "expiring" filter.
const ExpiringSoonDays = 30

// DaysUntil returns the number of days from now until the start of expiry,
// rounding any fractional day up.
func DaysUntil(expiry model.Date, now time.Time) int {
	diff := expiry.Midnight(now.Location()).Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// IsExpiringSoon reports whether expiry falls within (0, 30] days of now.
func IsExpiringSoon(expiry model.Date, now time.Time) bool {
	days := DaysUntil(expiry, now)
	return days > 0 && days <= ExpiringSoonDays
}

// ExpiringWindow returns the inclusive calendar window matched by IsExpiringSoon.
func ExpiringWindow(now time.Time) (from, to model.Date) {
	today := model.DateOf(now)
	return today.AddDays(1), today.AddDays(ExpiringSoonDays)
}
