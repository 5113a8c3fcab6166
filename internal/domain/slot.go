package domain

import "time"

// KST is the zone used for all calendar and slot bucketing. Korea Standard
// Time has no daylight saving, so a fixed offset is exact.
var KST = time.FixedZone("KST", 9*60*60)

// SlotOf returns the slot a pickup time belongs to: the containing hour in
// KST. Provider accepted-rider caps are enforced per slot.
func SlotOf(t time.Time) time.Time {
	k := t.In(KST)
	return time.Date(k.Year(), k.Month(), k.Day(), k.Hour(), 0, 0, 0, KST)
}

// SlotBounds returns the half-open [start, end) interval of the slot
// containing t.
func SlotBounds(t time.Time) (time.Time, time.Time) {
	start := SlotOf(t)
	return start, start.Add(time.Hour)
}

// SameKSTDate reports whether two instants fall on the same KST calendar
// day. Invitations require the request's date to match the trip's date.
func SameKSTDate(a, b time.Time) bool {
	ak, bk := a.In(KST), b.In(KST)
	ay, am, ad := ak.Date()
	by, bm, bd := bk.Date()
	return ay == by && am == bm && ad == bd
}

// KSTDay returns the calendar-day key ("2006-01-02") of t in KST.
func KSTDay(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}
