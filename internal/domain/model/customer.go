package model

import (
	"strings"
	"time"
)

// MembershipType is the customer's membership plan.
type MembershipType string

const (
	MembershipPrestige MembershipType = "prestige"
	MembershipPremier  MembershipType = "premier"
)

// MembershipTypes lists plans in display order.
var MembershipTypes = []MembershipType{MembershipPrestige, MembershipPremier}

// Valid reports whether m is a known plan.
func (m MembershipType) Valid() bool {
	return m == MembershipPrestige || m == MembershipPremier
}

// Customer is a member record.
type Customer struct {
	ID               string         `json:"id"`
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Email            string         `json:"email"`
	Phone            *string        `json:"phone,omitempty"`
	MembershipType   MembershipType `json:"membershipType"`
	MembershipNumber string         `json:"membershipNumber"`
	ExpiryDate       Date           `json:"expiryDate"`
	CreatedAt        time.Time      `json:"createdAt"`
	Visits           int            `json:"visits"`
}

// FullName joins first and last name with a single space.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CustomerInput carries the editable customer fields.
type CustomerInput struct {
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          *string        `json:"phone,omitempty"`
	MembershipType MembershipType `json:"membershipType"`
	ExpiryDate     Date           `json:"expiryDate"`
	Visits         *int           `json:"visits,omitempty"`
}

// Normalize trims free text fields and drops an empty phone.
func (in CustomerInput) Normalize() CustomerInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.MembershipType = MembershipType(strings.ToLower(strings.TrimSpace(string(in.MembershipType))))
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			in.Phone = nil
		} else {
			in.Phone = &phone
		}
	}
	return in
}

// MembershipFilter narrows list queries by plan or expiry.
type MembershipFilter string

const (
	FilterAll      MembershipFilter = "all"
	FilterPrestige MembershipFilter = "prestige"
	FilterPremier  MembershipFilter = "premier"
	FilterExpiring MembershipFilter = "expiring"
)

// PageQuery describes a paginated customer listing.
type PageQuery struct {
	Page     int
	PageSize int
	Search   string
	Filter   MembershipFilter
	Now      time.Time
}

// Page is one slice of a filtered customer listing.
type Page struct {
	Customers  []Customer `json:"customers"`
	TotalPages int        `json:"totalPages"`
	TotalItems int        `json:"totalItems"`
}

// Stats summarises the whole customer set.
type Stats struct {
	Total        int `json:"total"`
	Prestige     int `json:"prestige"`
	Premier      int `json:"premier"`
	ExpiringSoon int `json:"expiringSoon"`
}

// MigrationResult reports a local to database migration run.
type MigrationResult struct {
	Migrated int  `json:"migrated"`
	Failed   int  `json:"failed"`
	Cleared  bool `json:"cleared"`
}
