// Package report renders customer exports.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
)

const (
	filenameDateLayout = "02-01-2006"
	expiryLayout       = "02/01/2006"
	createdLayout      = "02/01/2006 15:04:05"
)

// Headers are the exported column titles in order.
var Headers = []string{
	"Membership Number",
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Membership Type",
	"Visits Remaining",
	"Expiry Date",
	"Created Date",
}

// Range resolves the calendar window of a report relative to now.
func Range(reportType model.ReportType, now time.Time, from, to *model.Date) (model.DateRange, error) {
	today := model.DateOf(now)

	switch reportType {
	case model.ReportDaily:
		return model.DateRange{From: today, To: today}, nil
	case model.ReportWeekly:
		start := today.AddDays(-int(today.Weekday()))
		return model.DateRange{From: start, To: start.AddDays(6)}, nil
	case model.ReportMonthly:
		start := model.NewDate(today.Year(), today.Month(), 1)
		end := model.NewDate(today.Year(), today.Month()+1, 1).AddDays(-1)
		return model.DateRange{From: start, To: end}, nil
	case model.ReportYearly:
		return model.DateRange{
			From: model.NewDate(today.Year(), time.January, 1),
			To:   model.NewDate(today.Year(), time.December, 31),
		}, nil
	case model.ReportCustom:
		if from == nil || to == nil || from.IsZero() || to.IsZero() {
			return model.DateRange{}, fmt.Errorf("custom report needs both dates: %w", domainErrors.ErrValidation)
		}
		if from.After(*to) {
			return model.DateRange{}, fmt.Errorf("report start %s is after end %s: %w", from, to, domainErrors.ErrValidation)
		}
		return model.DateRange{From: *from, To: *to}, nil
	default:
		return model.DateRange{}, fmt.Errorf("unknown report type %q: %w", reportType, domainErrors.ErrValidation)
	}
}

// ParsePlan validates a plan filter, defaulting to all.
func ParsePlan(value string) (model.PlanFilter, error) {
	switch plan := model.PlanFilter(value); plan {
	case "":
		return model.PlanAll, nil
	case model.PlanAll, model.PlanPrestige, model.PlanPremier:
		return plan, nil
	default:
		return "", fmt.Errorf("unknown plan %q: %w", value, domainErrors.ErrValidation)
	}
}

// Select keeps customers created inside r whose plan matches, newest first.
// Creation dates are taken in loc.
func Select(customers []model.Customer, r model.DateRange, plan model.PlanFilter, loc *time.Location) []model.Customer {
	if loc == nil {
		loc = time.UTC
	}

	out := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		if !r.Contains(model.DateOf(c.CreatedAt.In(loc))) {
			continue
		}
		if plan != model.PlanAll && plan != "" && string(c.MembershipType) != string(plan) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Filename names the export file.
func Filename(plan model.PlanFilter, reportType model.ReportType, r model.DateRange, now time.Time, ext string) string {
	if plan == "" {
		plan = model.PlanAll
	}
	if reportType == model.ReportCustom {
		return fmt.Sprintf("customers-report-%s-%s-to-%s.%s",
			plan, r.From.Format(filenameDateLayout), r.To.Format(filenameDateLayout), ext)
	}
	return fmt.Sprintf("customers-report-%s-%s-%s.%s",
		plan, reportType, model.DateOf(now).Format(filenameDateLayout), ext)
}

// row renders c with its creation time shown in loc.
func row(c model.Customer, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	phone := ""
	if c.Phone != nil {
		phone = *c.Phone
	}
	return []string{
		c.MembershipNumber,
		c.FirstName,
		c.LastName,
		c.Email,
		phone,
		string(c.MembershipType),
		strconv.Itoa(c.Visits),
		c.ExpiryDate.Format(expiryLayout),
		c.CreatedAt.In(loc).Format(createdLayout),
	}
}
