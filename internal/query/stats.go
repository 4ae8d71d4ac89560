package query

import (
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// Aggregate counts customers by plan and expiry over the full set.
func Aggregate(customers []model.Customer, now time.Time) *model.Stats {
	stats := &model.Stats{Total: len(customers)}
	for _, c := range customers {
		switch c.MembershipType {
		case model.MembershipPrestige:
			stats.Prestige++
		case model.MembershipPremier:
			stats.Premier++
		}
		if IsExpiringSoon(c.ExpiryDate, now) {
			stats.ExpiringSoon++
		}
	}
	return stats
}
