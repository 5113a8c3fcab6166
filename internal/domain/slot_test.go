package domain

import (
	"testing"
	"time"
)

func TestSlotOf(t *testing.T) {
	at := time.Date(2026, 9, 1, 8, 45, 12, 0, KST)
	slot := SlotOf(at)
	want := time.Date(2026, 9, 1, 8, 0, 0, 0, KST)
	if !slot.Equal(want) {
		t.Fatalf("slot = %v, want %v", slot, want)
	}

	// The same instant expressed in UTC lands in the same slot.
	if got := SlotOf(at.UTC()); !got.Equal(want) {
		t.Fatalf("utc slot = %v, want %v", got, want)
	}
}

func TestSlotBounds(t *testing.T) {
	at := time.Date(2026, 9, 1, 8, 45, 0, 0, KST)
	start, end := SlotBounds(at)
	if !end.Equal(start.Add(time.Hour)) {
		t.Fatalf("bounds = [%v, %v)", start, end)
	}
	if at.Before(start) || !at.Before(end) {
		t.Fatalf("%v not inside [%v, %v)", at, start, end)
	}
	if !start.Equal(SlotOf(end.Add(-time.Nanosecond))) {
		t.Fatal("end is not exclusive")
	}
}

func TestSameKSTDate(t *testing.T) {
	// 23:30 UTC on the 1st is already 08:30 KST on the 2nd.
	lateUTC := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)
	morningKST := time.Date(2026, 9, 2, 8, 30, 0, 0, KST)
	if !SameKSTDate(lateUTC, morningKST) {
		t.Fatal("instants on the same KST day reported different")
	}

	sameUTCDay := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if SameKSTDate(lateUTC, sameUTCDay) {
		t.Fatal("different KST days reported same")
	}
}

func TestKSTDay(t *testing.T) {
	lateUTC := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)
	if got := KSTDay(lateUTC); got != "2026-09-02" {
		t.Fatalf("day = %q, want 2026-09-02", got)
	}
}
