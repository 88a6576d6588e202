package domain

import (
	"time"
	// Bundle tzdata so the gate works on machines without a zoneinfo db.
	_ "time/tzdata"
)

// The two civil time zones the posting gate is judged in. As long as it's
// Thursday in either of them, posting is open.
var (
	gateZoneEast = mustLoadLocation("America/New_York")
	gateZoneWest = mustLoadLocation("America/Los_Angeles")
)

// PostingAllowed decides whether creating takes is currently permitted.
// The rule is the whole product: takes may only be posted on Thursdays,
// interpreted generously across the US east and west coast zones. The
// override exists for non-production deployments and skips the check
// entirely. Pure function of its inputs, callers must re-evaluate it on
// every creation attempt.
func PostingAllowed(now time.Time, override bool) bool {
	if override {
		return true
	}
	return now.In(gateZoneEast).Weekday() == time.Thursday ||
		now.In(gateZoneWest).Weekday() == time.Thursday
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
