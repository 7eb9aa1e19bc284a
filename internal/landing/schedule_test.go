package landing

import (
	"testing"
	"time"
)

// Monday 2026-03-02 12:00 in the business timezone.
func fixedNow() time.Time {
	return time.Date(2026, time.March, 2, 12, 0, 0, 0, brazilLocation)
}

func TestValidateDemoSlot(t *testing.T) {
	now := fixedNow()

	tests := []struct {
		name      string
		candidate time.Time
		kind      RejectKind // empty means accepted
	}{
		{
			name:      "tuesday afternoon",
			candidate: time.Date(2026, time.March, 3, 14, 0, 0, 0, brazilLocation),
		},
		{
			name:      "first business hour",
			candidate: time.Date(2026, time.March, 3, 9, 0, 0, 0, brazilLocation),
		},
		{
			name:      "last valid hour",
			candidate: time.Date(2026, time.March, 3, 17, 59, 0, 0, brazilLocation),
		},
		{
			name:      "last day of horizon",
			candidate: time.Date(2026, time.April, 1, 10, 0, 0, 0, brazilLocation),
		},
		{
			name:      "in the past",
			candidate: now.Add(-time.Hour),
			kind:      RejectPastDate,
		},
		{
			name:      "exactly now",
			candidate: now,
			kind:      RejectPastDate,
		},
		{
			name:      "beyond thirty days",
			candidate: time.Date(2026, time.April, 3, 10, 0, 0, 0, brazilLocation),
			kind:      RejectHorizon,
		},
		{
			name:      "before opening",
			candidate: time.Date(2026, time.March, 3, 8, 0, 0, 0, brazilLocation),
			kind:      RejectBusinessHours,
		},
		{
			name:      "at closing",
			candidate: time.Date(2026, time.March, 3, 18, 0, 0, 0, brazilLocation),
			kind:      RejectBusinessHours,
		},
		{
			name:      "saturday",
			candidate: time.Date(2026, time.March, 7, 10, 0, 0, 0, brazilLocation),
			kind:      RejectWeekend,
		},
		{
			name:      "sunday",
			candidate: time.Date(2026, time.March, 8, 10, 0, 0, 0, brazilLocation),
			kind:      RejectWeekend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := ValidateDemoSlot(tt.candidate, now)
			if tt.kind == "" {
				if rej != nil {
					t.Fatalf("slot rejected: %v", rej)
				}
				return
			}
			if rej == nil {
				t.Fatalf("slot accepted, want %s rejection", tt.kind)
			}
			if rej.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", rej.Kind, tt.kind)
			}
		})
	}
}

// Timestamps arrive from the API in UTC; the business-hour window is defined
// in America/Sao_Paulo (UTC-3). 20:00 UTC is 17:00 local, inside the window;
// 21:00 UTC is 18:00 local, outside it.
func TestValidateDemoSlotConvertsTimezone(t *testing.T) {
	now := fixedNow()

	inside := time.Date(2026, time.March, 3, 20, 0, 0, 0, time.UTC)
	if rej := ValidateDemoSlot(inside, now); rej != nil {
		t.Errorf("20:00 UTC (17:00 local) rejected: %v", rej)
	}

	outside := time.Date(2026, time.March, 3, 21, 0, 0, 0, time.UTC)
	rej := ValidateDemoSlot(outside, now)
	if rej == nil {
		t.Fatal("21:00 UTC (18:00 local) accepted")
	}
	if rej.Kind != RejectBusinessHours {
		t.Errorf("kind = %s, want %s", rej.Kind, RejectBusinessHours)
	}
}

// A Friday 23:00 UTC slot is Friday 20:00 local: still a weekday, but past
// business hours. The weekday check must see the local date, not the UTC one.
func TestValidateDemoSlotWeekdayUsesLocalDate(t *testing.T) {
	now := fixedNow()

	// Saturday 2026-03-07 01:00 UTC is Friday 22:00 local.
	candidate := time.Date(2026, time.March, 7, 1, 0, 0, 0, time.UTC)
	rej := ValidateDemoSlot(candidate, now)
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Kind != RejectBusinessHours {
		t.Errorf("kind = %s, want %s (local time is Friday night)", rej.Kind, RejectBusinessHours)
	}
}
