package schedule

import (
	"testing"
	"time"
)

// weeklyRule is active Mondays and Wednesdays 09:00-11:00 through April 2026.
func weeklyRule() AvailabilityRule {
	return AvailabilityRule{
		ID:         "rule-1",
		FieldKey:   "riverside-1",
		Division:   "10U",
		StartDate:  "2026-04-01",
		EndDate:    "2026-04-30",
		Weekdays:   []time.Weekday{time.Monday, time.Wednesday},
		StartTime:  "09:00",
		EndTime:    "11:00",
		Recurrence: RecurrenceWeekly,
	}
}

func TestExpandAvailabilitySlicing(t *testing.T) {
	// 2026-04-06 is a Monday. One week covers one Monday and one Wednesday.
	window := DateRange{Start: "2026-04-06", End: "2026-04-12"}
	candidates := ExpandAvailability([]AvailabilityRule{weeklyRule()}, nil, window, 60, nil)

	if len(candidates) != 4 {
		t.Fatalf("candidates = %d, want 4", len(candidates))
	}
	want := []SlotCandidate{
		{FieldKey: "riverside-1", Division: "10U", Date: "2026-04-06", StartTime: "09:00", EndTime: "10:00"},
		{FieldKey: "riverside-1", Division: "10U", Date: "2026-04-06", StartTime: "10:00", EndTime: "11:00"},
		{FieldKey: "riverside-1", Division: "10U", Date: "2026-04-08", StartTime: "09:00", EndTime: "10:00"},
		{FieldKey: "riverside-1", Division: "10U", Date: "2026-04-08", StartTime: "10:00", EndTime: "11:00"},
	}
	for i, c := range candidates {
		if c != want[i] {
			t.Errorf("candidate[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestExpandAvailabilityTwoWeeks(t *testing.T) {
	window := DateRange{Start: "2026-04-06", End: "2026-04-19"}
	candidates := ExpandAvailability([]AvailabilityRule{weeklyRule()}, nil, window, 60, nil)

	// Two Mondays and two Wednesdays, two one-hour segments each.
	if len(candidates) != 8 {
		t.Fatalf("candidates = %d, want 8", len(candidates))
	}
	for _, c := range candidates {
		start, _ := minutesOfDay(c.StartTime)
		end, _ := minutesOfDay(c.EndTime)
		if end-start != 60 {
			t.Errorf("candidate %s %s-%s is not exactly 60 minutes", c.Date, c.StartTime, c.EndTime)
		}
	}
}

func TestExpandAvailabilityFullDayException(t *testing.T) {
	window := DateRange{Start: "2026-04-06", End: "2026-04-19"}
	exceptions := map[string][]AvailabilityException{
		"rule-1": {{RuleID: "rule-1", StartDate: "2026-04-06", EndDate: "2026-04-06"}},
	}
	candidates := ExpandAvailability([]AvailabilityRule{weeklyRule()}, exceptions, window, 60, nil)

	if len(candidates) != 6 {
		t.Fatalf("candidates = %d, want 6", len(candidates))
	}
	for _, c := range candidates {
		if c.Date == "2026-04-06" {
			t.Errorf("candidate on fully excepted date: %+v", c)
		}
	}
}

func TestExpandAvailabilityPartialException(t *testing.T) {
	window := DateRange{Start: "2026-04-06", End: "2026-04-06"}
	exceptions := map[string][]AvailabilityException{
		"rule-1": {{
			RuleID:    "rule-1",
			StartDate: "2026-04-06",
			EndDate:   "2026-04-06",
			StartTime: "09:30",
			EndTime:   "10:00",
		}},
	}
	candidates := ExpandAvailability([]AvailabilityRule{weeklyRule()}, exceptions, window, 60, nil)

	// Only the 09:00-10:00 segment overlaps the blocked minutes.
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(candidates))
	}
	if candidates[0].StartTime != "10:00" {
		t.Errorf("surviving candidate starts at %s, want 10:00", candidates[0].StartTime)
	}
}

func TestExpandAvailabilityBlackout(t *testing.T) {
	window := DateRange{Start: "2026-04-06", End: "2026-04-12"}
	blackouts := []DateRange{{Start: "2026-04-08", End: "2026-04-10"}}
	candidates := ExpandAvailability([]AvailabilityRule{weeklyRule()}, nil, window, 60, blackouts)

	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.Date != "2026-04-06" {
			t.Errorf("candidate outside expected date: %+v", c)
		}
	}
}

func TestExpandAvailabilityDegenerateInputs(t *testing.T) {
	window := DateRange{Start: "2026-04-01", End: "2026-04-30"}

	t.Run("non-positive game length", func(t *testing.T) {
		if got := ExpandAvailability([]AvailabilityRule{weeklyRule()}, nil, window, 0, nil); len(got) != 0 {
			t.Errorf("candidates = %d, want 0", len(got))
		}
	})

	t.Run("end time not after start time", func(t *testing.T) {
		rule := weeklyRule()
		rule.StartTime = "11:00"
		rule.EndTime = "11:00"
		if got := ExpandAvailability([]AvailabilityRule{rule}, nil, window, 60, nil); len(got) != 0 {
			t.Errorf("candidates = %d, want 0", len(got))
		}
	})

	t.Run("empty weekday set", func(t *testing.T) {
		rule := weeklyRule()
		rule.Weekdays = nil
		if got := ExpandAvailability([]AvailabilityRule{rule}, nil, window, 60, nil); len(got) != 0 {
			t.Errorf("candidates = %d, want 0", len(got))
		}
	})

	t.Run("window too short for one game", func(t *testing.T) {
		if got := ExpandAvailability([]AvailabilityRule{weeklyRule()}, nil, window, 121, nil); len(got) != 0 {
			t.Errorf("candidates = %d, want 0", len(got))
		}
	})

	t.Run("rule range outside window", func(t *testing.T) {
		outside := DateRange{Start: "2026-06-01", End: "2026-06-30"}
		if got := ExpandAvailability([]AvailabilityRule{weeklyRule()}, nil, outside, 60, nil); len(got) != 0 {
			t.Errorf("candidates = %d, want 0", len(got))
		}
	})
}

func TestExpandAvailabilityOrdering(t *testing.T) {
	second := weeklyRule()
	second.ID = "rule-2"
	second.FieldKey = "central-2"
	window := DateRange{Start: "2026-04-06", End: "2026-04-12"}

	// Rules listed out of field order still produce date/field/time order.
	candidates := ExpandAvailability([]AvailabilityRule{weeklyRule(), second}, nil, window, 60, nil)
	if len(candidates) != 8 {
		t.Fatalf("candidates = %d, want 8", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		if prev.Date > cur.Date {
			t.Fatalf("dates out of order at %d: %s > %s", i, prev.Date, cur.Date)
		}
		if prev.Date == cur.Date && prev.FieldKey > cur.FieldKey {
			t.Fatalf("fields out of order at %d: %s > %s", i, prev.FieldKey, cur.FieldKey)
		}
		if prev.Date == cur.Date && prev.FieldKey == cur.FieldKey && prev.StartTime >= cur.StartTime {
			t.Fatalf("times out of order at %d: %s >= %s", i, prev.StartTime, cur.StartTime)
		}
	}
}
