package service

import (
	"context"
	"log"
	"time"

	"pickup/internal/domain"
	"pickup/internal/observability"
	"pickup/internal/repository"
)

// Sweeper drives the time-based transitions from a timer instead of
// leaving them to whoever reads a row next. Read-path safety nets still
// apply the same rules, so a missed tick only delays a transition.
type Sweeper struct {
	expiry      *Expiry
	requests    repository.RequestRepository
	trips       repository.TripRepository
	invitations repository.InvitationRepository
	interval    time.Duration
}

// NewSweeper creates a sweeper ticking at the given interval.
func NewSweeper(
	expiry *Expiry,
	requests repository.RequestRepository,
	trips repository.TripRepository,
	invitations repository.InvitationRepository,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		expiry:      expiry,
		requests:    requests,
		trips:       trips,
		invitations: invitations,
		interval:    interval,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce applies every due transition: pending invitations past their
// 24h expiry, open trips inside the lock window, open or locked trips past
// their scheduled time, and active requests past their pickup time. A
// failure on one row is logged and the sweep moves on.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	start := time.Now()
	defer func() {
		observability.SweepsTotal.Inc()
		observability.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	now := time.Now()

	if invs, err := s.invitations.ListDuePending(ctx, now); err != nil {
		log.Printf("sweep: list due invitations: %v", err)
	} else {
		for _, inv := range invs {
			if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
				log.Printf("sweep: expire invitation %s: %v", inv.ID, err)
			}
		}
	}

	if trips, err := s.trips.ListLockCandidates(ctx, now.Add(domain.TripLockWindow)); err != nil {
		log.Printf("sweep: list lock candidates: %v", err)
	} else {
		for _, trip := range trips {
			if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
				log.Printf("sweep: lock trip %s: %v", trip.ID, err)
			}
		}
	}

	if trips, err := s.trips.ListExpireCandidates(ctx, now); err != nil {
		log.Printf("sweep: list expire candidates: %v", err)
	} else {
		for _, trip := range trips {
			if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
				log.Printf("sweep: expire trip %s: %v", trip.ID, err)
			}
		}
	}

	if reqs, err := s.requests.ListDueActive(ctx, now); err != nil {
		log.Printf("sweep: list due requests: %v", err)
	} else {
		for _, req := range reqs {
			if _, err := s.expiry.ExpireRequestIfDue(ctx, req); err != nil {
				log.Printf("sweep: expire request %s: %v", req.ID, err)
			}
		}
	}
}
