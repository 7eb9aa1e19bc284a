package landing

import "time"

// Demo slots must fall inside the sales team's working hours.
const (
	BusinessHourStart = 9
	BusinessHourEnd   = 18
	HorizonDays       = 30
)

// BusinessTimezone is the IANA zone the 9h-18h window is defined in.
const BusinessTimezone = "America/Sao_Paulo"

// brazilLocation resolves the business timezone once. Falls back to a fixed
// UTC-3 zone when the host has no tzdata (Brazil abolished DST in 2019, so
// the fixed offset is correct year-round).
var brazilLocation = loadBusinessLocation()

func loadBusinessLocation() *time.Location {
	if loc, err := time.LoadLocation(BusinessTimezone); err == nil {
		return loc
	}
	return time.FixedZone("-03", -3*60*60)
}

// ValidateDemoSlot checks whether a proposed demo time satisfies the
// business constraints, in order, short-circuiting on the first failure:
// it must be in the future, within the next 30 days (end-of-day
// granularity), between 9h and 18h in the Brazil business timezone, and on
// a weekday.
//
// The candidate is converted to the business timezone before the hour and
// weekday checks; timestamps arriving from the API are UTC.
func ValidateDemoSlot(candidate, now time.Time) *Rejection {
	if !candidate.After(now) {
		return Reject(RejectPastDate)
	}

	localNow := now.In(brazilLocation)
	endOfToday := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		23, 59, 59, 0, brazilLocation)
	horizon := endOfToday.AddDate(0, 0, HorizonDays)
	if candidate.After(horizon) {
		return Reject(RejectHorizon)
	}

	local := candidate.In(brazilLocation)
	if hour := local.Hour(); hour < BusinessHourStart || hour >= BusinessHourEnd {
		return Reject(RejectBusinessHours)
	}

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return Reject(RejectWeekend)
	}

	return nil
}
