package service

import (
	"errors"
	"testing"
	"time"

	"pickup/internal/domain"
)

func openTrip(scheduledAt time.Time) *domain.Trip {
	return &domain.Trip{
		ID:          "trip-1",
		ProviderID:  "provider-1",
		ScheduledAt: scheduledAt,
		Status:      domain.TripStatusOpen,
		Capacity:    domain.TripCapacity,
	}
}

func openRequest(pickupAt time.Time) *domain.PickupRequest {
	return &domain.PickupRequest{
		ID:        "req-1",
		ProfileID: "requester-1",
		PickupAt:  pickupAt,
		Status:    domain.RequestStatusRequested,
	}
}

func pendingInvitation(expiresAt time.Time) *domain.Invitation {
	return &domain.Invitation{
		ID:        "inv-1",
		Status:    domain.InvitationStatusPending,
		ExpiresAt: expiresAt,
	}
}

func TestTripLockDue(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		trip *domain.Trip
		want bool
	}{
		{"well before window", openTrip(now.Add(2 * time.Hour)), false},
		{"inside window", openTrip(now.Add(15 * time.Minute)), true},
		{"exactly at boundary", openTrip(now.Add(domain.TripLockWindow)), true},
		{"already past schedule", openTrip(now.Add(-time.Minute)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TripLockDue(now, tc.trip); got != tc.want {
				t.Fatalf("TripLockDue = %v, want %v", got, tc.want)
			}
		})
	}

	locked := openTrip(now.Add(15 * time.Minute))
	locked.Status = domain.TripStatusLocked
	if TripLockDue(now, locked) {
		t.Fatal("already locked trip reported due")
	}
}

func TestTripExpireDue(t *testing.T) {
	now := time.Now()

	past := openTrip(now.Add(-time.Minute))
	if !TripExpireDue(now, past) {
		t.Fatal("past OPEN trip not due")
	}
	past.Status = domain.TripStatusLocked
	if !TripExpireDue(now, past) {
		t.Fatal("past LOCKED trip not due")
	}
	past.Status = domain.TripStatusInProgress
	if TripExpireDue(now, past) {
		t.Fatal("departed trip reported due")
	}
}

func TestCanSendInvitationOrder(t *testing.T) {
	now := time.Now()
	departure := now.Add(3 * time.Hour)

	cases := []struct {
		name  string
		setup func() (*domain.Trip, *domain.PickupRequest, int, int, bool)
		want  error
	}{
		{"ok", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			return openTrip(departure), openRequest(departure), 0, 0, false
		}, nil},
		{"expired trip wins over lock", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			trip := openTrip(now.Add(-time.Minute))
			trip.IsLocked = true
			return trip, openRequest(departure), 3, 3, true
		}, ErrTripExpired},
		{"locked trip", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			trip := openTrip(departure)
			trip.Status = domain.TripStatusLocked
			trip.IsLocked = true
			return trip, openRequest(departure), 0, 0, false
		}, ErrTripLocked},
		{"too close to departure", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			soon := now.Add(10 * time.Minute)
			return openTrip(soon), openRequest(soon), 0, 0, false
		}, ErrTooCloseToDeparture},
		{"expired request", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			return openTrip(departure), openRequest(now.Add(-time.Minute)), 0, 0, false
		}, ErrRequestExpired},
		{"matched request", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			req := openRequest(departure)
			req.Status = domain.RequestStatusMatched
			return openTrip(departure), req, 0, 0, false
		}, ErrRequestNotAvailable},
		{"date mismatch", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			return openTrip(departure), openRequest(departure.Add(24 * time.Hour)), 0, 0, false
		}, ErrDateMismatch},
		{"duplicate pair wins over limits", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			return openTrip(departure), openRequest(departure), 3, 3, true
		}, ErrDuplicateInvitation},
		{"pending limit", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			return openTrip(departure), openRequest(departure), domain.MaxPendingPerProvider, 0, false
		}, ErrPendingLimit},
		{"trip full", func() (*domain.Trip, *domain.PickupRequest, int, int, bool) {
			return openTrip(departure), openRequest(departure), 0, domain.TripCapacity, false
		}, ErrTripFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trip, req, pending, active, pair := tc.setup()
			err := CanSendInvitation(now, trip, req, pending, active, pair)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCanAcceptInvitationOrder(t *testing.T) {
	now := time.Now()
	departure := now.Add(3 * time.Hour)

	t.Run("ok", func(t *testing.T) {
		err := CanAcceptInvitation(now, pendingInvitation(now.Add(time.Hour)), openTrip(departure), openRequest(departure), 0, 0)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("matched request wins over invitation state", func(t *testing.T) {
		req := openRequest(departure)
		req.Status = domain.RequestStatusMatched
		inv := pendingInvitation(now.Add(-time.Minute))
		err := CanAcceptInvitation(now, inv, openTrip(departure), req, 0, 0)
		if !errors.Is(err, ErrRequestAlreadyMatched) {
			t.Fatalf("err = %v, want ErrRequestAlreadyMatched", err)
		}
	})

	// A lapsed invitation reports expired, not merely not-pending, even
	// though the sweep would have flipped its status already.
	t.Run("expired wins over not pending", func(t *testing.T) {
		inv := pendingInvitation(now.Add(-time.Minute))
		err := CanAcceptInvitation(now, inv, openTrip(departure), openRequest(departure), 0, 0)
		if !errors.Is(err, ErrInvitationExpired) {
			t.Fatalf("err = %v, want ErrInvitationExpired", err)
		}

		inv.Status = domain.InvitationStatusExpired
		inv.ExpiresAt = now.Add(time.Hour)
		err = CanAcceptInvitation(now, inv, openTrip(departure), openRequest(departure), 0, 0)
		if !errors.Is(err, ErrInvitationExpired) {
			t.Fatalf("err = %v, want ErrInvitationExpired", err)
		}
	})

	t.Run("rejected invitation", func(t *testing.T) {
		inv := pendingInvitation(now.Add(time.Hour))
		inv.Status = domain.InvitationStatusRejected
		err := CanAcceptInvitation(now, inv, openTrip(departure), openRequest(departure), 0, 0)
		if !errors.Is(err, ErrInvitationNotPending) {
			t.Fatalf("err = %v, want ErrInvitationNotPending", err)
		}
	})

	t.Run("seat count blocks", func(t *testing.T) {
		err := CanAcceptInvitation(now, pendingInvitation(now.Add(time.Hour)), openTrip(departure), openRequest(departure), domain.TripCapacity, 0)
		if !errors.Is(err, ErrTripFull) {
			t.Fatalf("err = %v, want ErrTripFull", err)
		}
	})

	t.Run("slot cap blocks", func(t *testing.T) {
		err := CanAcceptInvitation(now, pendingInvitation(now.Add(time.Hour)), openTrip(departure), openRequest(departure), 0, domain.MaxAcceptedPerSlot)
		if !errors.Is(err, ErrSlotLimit) {
			t.Fatalf("err = %v, want ErrSlotLimit", err)
		}
	})
}

func TestCanStartTrip(t *testing.T) {
	now := time.Now()
	trip := openTrip(now.Add(time.Hour))

	if err := CanStartTrip(trip, 0); !errors.Is(err, ErrNoConfirmedStudents) {
		t.Fatalf("err = %v, want ErrNoConfirmedStudents", err)
	}
	if err := CanStartTrip(trip, 1); err != nil {
		t.Fatalf("err = %v", err)
	}

	// The pre-departure lock does not block departure.
	trip.Status = domain.TripStatusLocked
	trip.IsLocked = true
	if err := CanStartTrip(trip, 1); err != nil {
		t.Fatalf("locked trip err = %v", err)
	}

	trip.Status = domain.TripStatusInProgress
	if err := CanStartTrip(trip, 1); !errors.Is(err, ErrTripAlreadyStarted) {
		t.Fatalf("err = %v, want ErrTripAlreadyStarted", err)
	}

	trip.Status = domain.TripStatusExpired
	if err := CanStartTrip(trip, 1); !errors.Is(err, ErrTripExpired) {
		t.Fatalf("err = %v, want ErrTripExpired", err)
	}
}

func TestCanMarkPickedUp(t *testing.T) {
	trip := openTrip(time.Now().Add(time.Hour))
	req := openRequest(time.Now().Add(time.Hour))
	req.Status = domain.RequestStatusInProgress
	req.Progress = domain.ProgressStarted

	if err := CanMarkPickedUp(trip, req); !errors.Is(err, ErrTripNotInProgress) {
		t.Fatalf("err = %v, want ErrTripNotInProgress", err)
	}

	trip.Status = domain.TripStatusInProgress
	if err := CanMarkPickedUp(trip, req); err != nil {
		t.Fatalf("err = %v", err)
	}

	req.Progress = domain.ProgressPickedUp
	if err := CanMarkPickedUp(trip, req); !errors.Is(err, ErrParticipantNotStarted) {
		t.Fatalf("err = %v, want ErrParticipantNotStarted", err)
	}
}

func TestCanCancelUnmet(t *testing.T) {
	trip := openTrip(time.Now().Add(time.Hour))
	if err := CanCancelUnmet(trip); err != nil {
		t.Fatalf("err = %v", err)
	}

	trip.Status = domain.TripStatusLocked
	if err := CanCancelUnmet(trip); err != nil {
		t.Fatalf("locked err = %v", err)
	}

	trip.Status = domain.TripStatusInProgress
	if err := CanCancelUnmet(trip); !errors.Is(err, ErrTripAlreadyStarted) {
		t.Fatalf("err = %v, want ErrTripAlreadyStarted", err)
	}
}
