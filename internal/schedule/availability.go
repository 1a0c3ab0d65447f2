package schedule

import (
	"sort"
	"time"
)

// ExpandAvailability expands recurring availability rules into concrete slot
// candidates inside the query window. Exceptions are keyed by rule ID and
// blackouts suppress whole dates league-wide. Candidates are sliced in
// consecutive gameLengthMinutes steps; a window too short for one full game
// produces nothing. A non-positive game length yields an empty result.
func ExpandAvailability(rules []AvailabilityRule, exceptions map[string][]AvailabilityException, window DateRange, gameLengthMinutes int, blackouts []DateRange) []SlotCandidate {
	if gameLengthMinutes <= 0 {
		return nil
	}
	windowStart, ok := parseDate(window.Start)
	if !ok {
		return nil
	}
	windowEnd, ok := parseDate(window.End)
	if !ok {
		return nil
	}

	var candidates []SlotCandidate
	for _, rule := range rules {
		candidates = append(candidates, expandRule(rule, exceptions[rule.ID], windowStart, windowEnd, gameLengthMinutes, blackouts)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date < candidates[j].Date
		}
		if candidates[i].FieldKey != candidates[j].FieldKey {
			return candidates[i].FieldKey < candidates[j].FieldKey
		}
		return candidates[i].StartTime < candidates[j].StartTime
	})
	return candidates
}

func expandRule(rule AvailabilityRule, exceptions []AvailabilityException, windowStart, windowEnd time.Time, gameLengthMinutes int, blackouts []DateRange) []SlotCandidate {
	if rule.Recurrence != "" && rule.Recurrence != RecurrenceWeekly {
		return nil
	}

	ruleStart, ok := parseDate(rule.StartDate)
	if !ok {
		return nil
	}
	ruleEnd, ok := parseDate(rule.EndDate)
	if !ok {
		return nil
	}

	// Clamp the rule's active range to the query window.
	start := ruleStart
	if windowStart.After(start) {
		start = windowStart
	}
	end := ruleEnd
	if windowEnd.Before(end) {
		end = windowEnd
	}
	if end.Before(start) {
		return nil
	}

	startMinutes, ok := minutesOfDay(rule.StartTime)
	if !ok {
		return nil
	}
	endMinutes, ok := minutesOfDay(rule.EndTime)
	if !ok {
		return nil
	}
	if endMinutes <= startMinutes {
		return nil
	}

	weekdays := make(map[time.Weekday]bool, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		weekdays[day] = true
	}

	var candidates []SlotCandidate
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if !weekdays[date.Weekday()] {
			continue
		}
		if dateBlackedOut(date, blackouts) {
			continue
		}
		dateKey := date.Format(dateLayout)
		for t := startMinutes; t+gameLengthMinutes <= endMinutes; t += gameLengthMinutes {
			if exceptionBlocks(exceptions, date, t, t+gameLengthMinutes) {
				continue
			}
			candidates = append(candidates, SlotCandidate{
				FieldKey:  rule.FieldKey,
				Division:  rule.Division,
				Date:      dateKey,
				StartTime: formatMinutes(t),
				EndTime:   formatMinutes(t + gameLengthMinutes),
			})
		}
	}
	return candidates
}

func dateBlackedOut(date time.Time, blackouts []DateRange) bool {
	for _, b := range blackouts {
		start, ok := parseDate(b.Start)
		if !ok {
			continue
		}
		end, ok := parseDate(b.End)
		if !ok {
			continue
		}
		if !date.Before(start) && !date.After(end) {
			return true
		}
	}
	return false
}

// exceptionBlocks reports whether any exception suppresses the candidate
// window on the given date. An exception without an explicit time blocks the
// whole day; one with a time blocks only the overlapping minutes.
func exceptionBlocks(exceptions []AvailabilityException, date time.Time, startMinutes, endMinutes int) bool {
	for _, exc := range exceptions {
		excStart, ok := parseDate(exc.StartDate)
		if !ok {
			continue
		}
		excEnd, ok := parseDate(exc.EndDate)
		if !ok {
			continue
		}
		if date.Before(excStart) || date.After(excEnd) {
			continue
		}
		if exc.StartTime == "" || exc.EndTime == "" {
			return true
		}
		blockStart, ok := minutesOfDay(exc.StartTime)
		if !ok {
			continue
		}
		blockEnd, ok := minutesOfDay(exc.EndTime)
		if !ok {
			continue
		}
		if overlaps(startMinutes, endMinutes, blockStart, blockEnd) {
			return true
		}
	}
	return false
}
