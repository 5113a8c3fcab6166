package service

import (
	"reflect"
	"testing"
	"time"

	"pickup/internal/domain"
)

func TestBucketByKSTDay(t *testing.T) {
	day5Morning := time.Date(2026, 10, 5, 8, 30, 0, 0, domain.KST)
	day5Noon := time.Date(2026, 10, 5, 12, 0, 0, 0, domain.KST)
	day12 := time.Date(2026, 10, 12, 9, 0, 0, 0, domain.KST)

	rows := []calendarRow{
		{at: day12, status: "COMPLETED"},
		{at: day5Noon, status: "CANCELLED"},
		{at: day5Morning, status: "COMPLETED"},
		{at: day5Morning.Add(time.Minute), status: "COMPLETED"},
	}

	got := bucketByKSTDay(rows, true)
	want := []CalendarDay{
		{Day: "2026-10-05", Count: 3, Statuses: []string{"CANCELLED", "COMPLETED"}},
		{Day: "2026-10-12", Count: 1, Statuses: []string{"COMPLETED"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestBucketByKSTDayWithoutStatuses(t *testing.T) {
	rows := []calendarRow{
		{at: time.Date(2026, 10, 5, 8, 0, 0, 0, domain.KST), status: "COMPLETED"},
	}
	got := bucketByKSTDay(rows, false)
	if len(got) != 1 || got[0].Statuses != nil {
		t.Fatalf("got %+v, want single day without statuses", got)
	}
}

func TestBucketByKSTDayUTCBoundary(t *testing.T) {
	// 23:00 UTC on the 4th is already the 5th in KST.
	late := time.Date(2026, 10, 4, 23, 0, 0, 0, time.UTC)
	got := bucketByKSTDay([]calendarRow{{at: late, status: "REQUESTED"}}, false)
	if len(got) != 1 || got[0].Day != "2026-10-05" {
		t.Fatalf("got %+v, want day 2026-10-05", got)
	}
}

func TestBucketByKSTDayEmpty(t *testing.T) {
	if got := bucketByKSTDay(nil, true); len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}
