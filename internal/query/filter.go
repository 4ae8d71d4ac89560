package query

import (
	"sort"
	"strings"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// NormalizeFilter maps an empty filter to FilterAll and lower-cases the rest.
func NormalizeFilter(filter model.MembershipFilter) model.MembershipFilter {
	f := model.MembershipFilter(strings.ToLower(strings.TrimSpace(string(filter))))
	if f == "" {
		return model.FilterAll
	}
	return f
}

// MatchesSearch reports whether term is a case-insensitive substring of the
// customer's full name, email or membership number.
func MatchesSearch(c model.Customer, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.FullName()), term) ||
		strings.Contains(strings.ToLower(c.Email), term) ||
		strings.Contains(strings.ToLower(c.MembershipNumber), term)
}

// MatchesFilter applies the membership filter.
func MatchesFilter(c model.Customer, filter model.MembershipFilter, now time.Time) bool {
	switch f := NormalizeFilter(filter); f {
	case model.FilterAll:
		return true
	case model.FilterExpiring:
		return IsExpiringSoon(c.ExpiryDate, now)
	default:
		return string(c.MembershipType) == string(f)
	}
}

// Matches combines search and filter.
func Matches(c model.Customer, term string, filter model.MembershipFilter, now time.Time) bool {
	return MatchesSearch(c, term) && MatchesFilter(c, filter, now)
}

// SortByCreatedDesc orders customers newest first, in place.
func SortByCreatedDesc(customers []model.Customer) {
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
}
