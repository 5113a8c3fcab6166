package service

import (
	"context"
	"sort"
	"time"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// Report kinds and scopes accepted by the calendar report.
const (
	ReportKindTrips    = "trips"
	ReportKindRequests = "requests"

	ReportScopeMine = "mine"
	ReportScopeAll  = "all"
)

// CalendarDay is one KST calendar day's activity in a monthly report.
type CalendarDay struct {
	Day      string   `json:"day"`
	Count    int      `json:"count"`
	Statuses []string `json:"statuses,omitempty"`
}

// ReportService builds monthly calendar summaries. Nothing is persisted;
// the month's rows are bucketed in memory per call.
type ReportService struct {
	resolver *ProfileResolver
	requests repository.RequestRepository
	trips    repository.TripRepository
}

// NewReportService creates a new ReportService.
func NewReportService(
	resolver *ProfileResolver,
	requests repository.RequestRepository,
	trips repository.TripRepository,
) *ReportService {
	return &ReportService{
		resolver: resolver,
		requests: requests,
		trips:    trips,
	}
}

// CalendarInput contains the parameters for a monthly calendar report.
type CalendarInput struct {
	ExternalID string
	Year       int
	Month      int
	Kind       string
	Scope      string
}

// Calendar returns per-day activity for one KST month. Scope "mine" binds
// the report to the caller's own rows and includes each day's distinct
// statuses; scope "all" is admin-only.
func (s *ReportService) Calendar(ctx context.Context, in CalendarInput) ([]CalendarDay, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	if in.Year < 2000 || in.Year > 2100 || in.Month < 1 || in.Month > 12 {
		return nil, ErrInvalidPeriod
	}
	if in.Kind != ReportKindTrips && in.Kind != ReportKindRequests {
		return nil, ErrInvalidPeriod
	}
	switch in.Scope {
	case ReportScopeMine:
	case ReportScopeAll:
		if err := adminOnly(caller); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidPeriod
	}

	from := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, domain.KST)
	to := from.AddDate(0, 1, 0)

	profileID := caller.ID
	if in.Scope == ReportScopeAll {
		profileID = ""
	}
	withStatuses := in.Scope == ReportScopeMine

	if in.Kind == ReportKindTrips {
		trips, err := s.trips.ListScheduledBetween(ctx, from, to, profileID)
		if err != nil {
			return nil, err
		}
		rows := make([]calendarRow, len(trips))
		for i, t := range trips {
			rows[i] = calendarRow{at: t.ScheduledAt, status: string(t.Status)}
		}
		return bucketByKSTDay(rows, withStatuses), nil
	}

	reqs, err := s.requests.ListPickupBetween(ctx, from, to, profileID)
	if err != nil {
		return nil, err
	}
	rows := make([]calendarRow, len(reqs))
	for i, r := range reqs {
		rows[i] = calendarRow{at: r.PickupAt, status: string(r.Status)}
	}
	return bucketByKSTDay(rows, withStatuses), nil
}

type calendarRow struct {
	at     time.Time
	status string
}

// bucketByKSTDay groups rows into KST calendar days, ascending. Statuses
// are deduplicated and sorted when requested.
func bucketByKSTDay(rows []calendarRow, withStatuses bool) []CalendarDay {
	counts := make(map[string]int)
	statuses := make(map[string]map[string]bool)
	for _, row := range rows {
		day := domain.KSTDay(row.at)
		counts[day]++
		if withStatuses {
			if statuses[day] == nil {
				statuses[day] = make(map[string]bool)
			}
			statuses[day][row.status] = true
		}
	}

	days := make([]CalendarDay, 0, len(counts))
	for day, count := range counts {
		entry := CalendarDay{Day: day, Count: count}
		if withStatuses {
			for status := range statuses[day] {
				entry.Statuses = append(entry.Statuses, status)
			}
			sort.Strings(entry.Statuses)
		}
		days = append(days, entry)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days
}
