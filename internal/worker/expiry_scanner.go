package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/query"
)

// CustomerLister exposes the subset of application functionality required by the scanner.
type CustomerLister interface {
	ListCustomers(ctx context.Context, sorted bool) ([]model.Customer, error)
}

// Expiring is a membership that ends within the expiring-soon window.
type Expiring struct {
	Customer model.Customer
	DaysLeft int
}

// ExpiryScanner periodically reports memberships that are about to expire.
type ExpiryScanner struct {
	source   CustomerLister
	schedule string
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewExpiryScanner validates schedule and constructs the scanner. An empty
// schedule disables periodic runs.
func NewExpiryScanner(source CustomerLister, schedule string, now func() time.Time, logger *slog.Logger) (*ExpiryScanner, error) {
	if schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			return nil, fmt.Errorf("invalid expiry scan schedule %q: %w", schedule, err)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &ExpiryScanner{source: source, schedule: schedule, now: now, logger: logger}, nil
}

// Start registers the scan on its schedule.
func (s *ExpiryScanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("expiry scan disabled")
		return nil
	}
	if s.cron != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(runCtx); err != nil {
			s.logger.Error("expiry scan failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		cancel()
		return fmt.Errorf("schedule expiry scan: %w", err)
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.logger.Info("expiry scan scheduled", slog.String("schedule", s.schedule))
	return nil
}

// Stop cancels a running scan and waits for it to finish.
func (s *ExpiryScanner) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
}

// Scheduled reports whether periodic runs are registered.
func (s *ExpiryScanner) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil && len(s.cron.Entries()) > 0
}

// RunOnce scans all customers and logs the ones expiring soon, soonest first.
func (s *ExpiryScanner) RunOnce(ctx context.Context) ([]Expiring, error) {
	customers, err := s.source.ListCustomers(ctx, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var expiring []Expiring
	for _, c := range customers {
		if query.IsExpiringSoon(c.ExpiryDate, now) {
			expiring = append(expiring, Expiring{Customer: c, DaysLeft: query.DaysUntil(c.ExpiryDate, now)})
		}
	}
	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].DaysLeft < expiring[j].DaysLeft
	})

	for _, e := range expiring {
		s.logger.Info("membership expiring soon",
			slog.String("membership_number", e.Customer.MembershipNumber),
			slog.String("name", e.Customer.FullName()),
			slog.String("email", e.Customer.Email),
			slog.Int("days_left", e.DaysLeft),
		)
	}
	s.logger.Info("expiry scan finished", slog.Int("customers", len(customers)), slog.Int("expiring", len(expiring)))
	return expiring, nil
}
