package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/service"
)

func TestAdminStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin := e.seedProfile(t, "Operator", domain.RoleAdmin)
	member := e.seedProfile(t, "Lee Parent", domain.RoleMember)
	e.seedRequest(t, member, time.Now().Add(3*time.Hour))
	e.seedTrip(t, e.seedProfile(t, "Kim Driver", domain.RoleMember), time.Now().Add(3*time.Hour))

	if _, err := e.adminSvc.Stats(ctx, member.ExternalID); !errors.Is(err, service.ErrAdminOnly) {
		t.Fatalf("member err = %v, want ErrAdminOnly", err)
	}

	stats, err := e.adminSvc.Stats(ctx, admin.ExternalID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Profiles != 3 || stats.Requests != 1 || stats.Trips != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.BySchool["Hanbit Elementary"] != 3 {
		t.Fatalf("by school = %v", stats.BySchool)
	}
}

func TestForceTripStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin := e.seedProfile(t, "Operator", domain.RoleAdmin)
	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	trip := e.seedTrip(t, provider, time.Now().Add(3*time.Hour))

	if _, err := e.adminSvc.ForceTripStatus(ctx, admin.ExternalID, trip.ID, "WEDGED"); !errors.Is(err, service.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := e.adminSvc.ForceTripStatus(ctx, provider.ExternalID, trip.ID, domain.TripStatusCancelled); !errors.Is(err, service.ErrAdminOnly) {
		t.Fatalf("non-admin err = %v, want ErrAdminOnly", err)
	}

	forced, err := e.adminSvc.ForceTripStatus(ctx, admin.ExternalID, trip.ID, domain.TripStatusCancelled)
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	if forced.Status != domain.TripStatusCancelled || !forced.IsLocked {
		t.Fatalf("trip = %s locked=%v", forced.Status, forced.IsLocked)
	}

	if len(e.adminLogs.Entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(e.adminLogs.Entries))
	}
	entry := e.adminLogs.Entries[0]
	if entry.AdminID != admin.ID || entry.TargetID != trip.ID {
		t.Fatalf("audit entry = %+v", entry)
	}
}

func TestReviewDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin := e.seedProfile(t, "Operator", domain.RoleAdmin)
	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)

	doc, err := e.profileSvc.SubmitDocument(ctx, service.SubmitDocumentRequest{
		ExternalID: provider.ExternalID,
		Kind:       "drivers_license",
		URL:        "https://storage.example.com/docs/abc",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if doc.Status != domain.DocumentStatusPending {
		t.Fatalf("status = %s, want PENDING", doc.Status)
	}

	reviewed, err := e.adminSvc.ReviewDocument(ctx, admin.ExternalID, doc.ID, true)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.Status != domain.DocumentStatusApproved {
		t.Fatalf("status = %s, want APPROVED", reviewed.Status)
	}
	if reviewed.ReviewedBy != admin.ID || reviewed.ReviewedAt.IsZero() {
		t.Fatalf("review fields = %q/%v", reviewed.ReviewedBy, reviewed.ReviewedAt)
	}

	if _, err := e.adminSvc.ReviewDocument(ctx, provider.ExternalID, doc.ID, false); !errors.Is(err, service.ErrAdminOnly) {
		t.Fatalf("non-admin err = %v, want ErrAdminOnly", err)
	}
}

func TestCalendarReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)
	other := e.seedProfile(t, "Park Parent", domain.RoleMember)

	day5Morning := time.Date(2026, 10, 5, 8, 30, 0, 0, domain.KST)
	day5Noon := time.Date(2026, 10, 5, 12, 0, 0, 0, domain.KST)
	day12 := time.Date(2026, 10, 12, 9, 0, 0, 0, domain.KST)

	seed := func(owner *domain.Profile, at time.Time, status domain.RequestStatus) {
		t.Helper()
		req := &domain.PickupRequest{
			ID:        uuid.New().String(),
			ProfileID: owner.ID,
			PickupAt:  at,
			Status:    status,
			AreaLabel: "Gangdong-gu",
			CreatedAt: at.Add(-24 * time.Hour),
		}
		if err := e.requests.Create(ctx, req); err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}
	seed(requester, day5Morning, domain.RequestStatusCompleted)
	seed(requester, day5Noon, domain.RequestStatusCancelled)
	seed(requester, day12, domain.RequestStatusCompleted)
	seed(other, day12, domain.RequestStatusCompleted)

	days, err := e.reportSvc.Calendar(ctx, service.CalendarInput{
		ExternalID: requester.ExternalID,
		Year:       2026,
		Month:      10,
		Kind:       service.ReportKindRequests,
		Scope:      service.ReportScopeMine,
	})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].Day != domain.KSTDay(day5Morning) || days[0].Count != 2 {
		t.Fatalf("first day = %+v", days[0])
	}
	if len(days[0].Statuses) != 2 {
		t.Fatalf("statuses = %v, want two distinct", days[0].Statuses)
	}
	if days[1].Day != domain.KSTDay(day12) || days[1].Count != 1 {
		t.Fatalf("second day = %+v", days[1])
	}

	// Scope "all" is for operators only.
	_, err = e.reportSvc.Calendar(ctx, service.CalendarInput{
		ExternalID: requester.ExternalID,
		Year:       2026,
		Month:      10,
		Kind:       service.ReportKindRequests,
		Scope:      service.ReportScopeAll,
	})
	if !errors.Is(err, service.ErrAdminOnly) {
		t.Fatalf("scope all err = %v, want ErrAdminOnly", err)
	}

	admin := e.seedProfile(t, "Operator", domain.RoleAdmin)
	days, err = e.reportSvc.Calendar(ctx, service.CalendarInput{
		ExternalID: admin.ExternalID,
		Year:       2026,
		Month:      10,
		Kind:       service.ReportKindRequests,
		Scope:      service.ReportScopeAll,
	})
	if err != nil {
		t.Fatalf("admin calendar: %v", err)
	}
	if len(days) != 2 || days[1].Count != 2 {
		t.Fatalf("admin days = %+v", days)
	}
	if days[1].Statuses != nil {
		t.Fatal("platform scope should omit statuses")
	}

	_, err = e.reportSvc.Calendar(ctx, service.CalendarInput{
		ExternalID: requester.ExternalID,
		Year:       2026,
		Month:      13,
		Kind:       service.ReportKindRequests,
		Scope:      service.ReportScopeMine,
	})
	if !errors.Is(err, service.ErrInvalidPeriod) {
		t.Fatalf("bad month err = %v, want ErrInvalidPeriod", err)
	}
}

func TestReviewFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	requester, req := e.acceptRider(t, provider, trip, departure)

	// Reviews open only once the ride is over.
	_, err := e.reviewSvc.Create(ctx, service.CreateReviewInput{
		ExternalID: requester.ExternalID,
		TripID:     trip.ID,
		Rating:     5,
	})
	if !errors.Is(err, service.ErrTripNotFinished) {
		t.Fatalf("early review err = %v, want ErrTripNotFinished", err)
	}

	if _, err := e.tripSvc.MarkMet(ctx, provider.ExternalID, trip.ID, req.ID); err != nil {
		t.Fatalf("mark met: %v", err)
	}
	if _, err := e.tripSvc.Start(ctx, provider.ExternalID, trip.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.tripSvc.Arrive(ctx, provider.ExternalID, trip.ID); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if _, err := e.tripSvc.Complete(ctx, provider.ExternalID, trip.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	review, err := e.reviewSvc.Create(ctx, service.CreateReviewInput{
		ExternalID: requester.ExternalID,
		TripID:     trip.ID,
		Rating:     5,
		Comment:    "kids arrived on time",
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if review.ProviderID != provider.ID || review.PickupRequestID != req.ID {
		t.Fatalf("review = %+v", review)
	}

	_, err = e.reviewSvc.Create(ctx, service.CreateReviewInput{
		ExternalID: requester.ExternalID,
		TripID:     trip.ID,
		Rating:     4,
	})
	if !errors.Is(err, service.ErrAlreadyReviewed) {
		t.Fatalf("second review err = %v, want ErrAlreadyReviewed", err)
	}

	outsider := e.seedProfile(t, "Outsider", domain.RoleMember)
	_, err = e.reviewSvc.Create(ctx, service.CreateReviewInput{
		ExternalID: outsider.ExternalID,
		TripID:     trip.ID,
		Rating:     1,
	})
	if !errors.Is(err, service.ErrNotParticipant) {
		t.Fatalf("outsider err = %v, want ErrNotParticipant", err)
	}

	_, err = e.reviewSvc.Create(ctx, service.CreateReviewInput{
		ExternalID: requester.ExternalID,
		TripID:     trip.ID,
		Rating:     9,
	})
	if !errors.Is(err, service.ErrInvalidRating) {
		t.Fatalf("bad rating err = %v, want ErrInvalidRating", err)
	}

	listed, err := e.reviewSvc.ListForProvider(ctx, provider.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Rating != 5 {
		t.Fatalf("listed = %+v", listed)
	}
}
