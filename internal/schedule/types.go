// Package schedule contains the league scheduling engine: availability
// expansion, round-robin matchup generation, slot assignment, schedule
// validation, and pre-season feasibility analysis. Every function in this
// package is a pure computation over its arguments; persistence and HTTP
// concerns live elsewhere.
package schedule

import "time"

// Dates are "2006-01-02" strings and times of day are "15:04" strings,
// matching the row-store columns and the import/export formats. Malformed
// values degrade to empty results rather than errors.

// AvailabilityRule describes a recurring weekly window during which a field
// can host games for a division.
type AvailabilityRule struct {
	ID         string         `json:"id"`
	FieldKey   string         `json:"fieldKey"`
	Division   string         `json:"division"`
	StartDate  string         `json:"startDate"` // inclusive
	EndDate    string         `json:"endDate"`   // inclusive
	Weekdays   []time.Weekday `json:"weekdays"`
	StartTime  string         `json:"startTime"`
	EndTime    string         `json:"endTime"`
	Recurrence RecurrenceType `json:"recurrence"`
}

type RecurrenceType string

const RecurrenceWeekly RecurrenceType = "weekly"

// AvailabilityException suppresses a rule's occurrences inside a date range.
// With no start/end time the whole rule window is blocked on matching dates;
// with a time only the overlapping minutes are blocked.
type AvailabilityException struct {
	RuleID    string `json:"ruleId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// DateRange is a closed date interval. Used for the expansion query window
// and for league-wide blackouts.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotCandidate is one concrete (field, date, start, end) window able to host
// a single game, produced by ExpandAvailability.
type SlotCandidate struct {
	FieldKey  string `json:"fieldKey"`
	Division  string `json:"division"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Slot is a candidate offered for assignment, optionally pinned to the team
// that made the field available.
type Slot struct {
	ID           string `json:"id"`
	FieldKey     string `json:"fieldKey"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	OfferingTeam string `json:"offeringTeamId,omitempty"`
}

// Constraints are the league rules the assignment engine and validator
// enforce. Zero values disable a constraint.
type Constraints struct {
	MaxGamesPerWeek      int  `json:"maxGamesPerWeek"`
	NoDoubleHeaders      bool `json:"noDoubleHeaders"`
	BalanceHomeAway      bool `json:"balanceHomeAway"`
	ExternalOfferPerWeek int  `json:"externalOfferPerWeek"`
}

// Matchup is a single home/away pairing. Orientation may be swapped during
// assignment to honor a slot's offering team.
type Matchup struct {
	Home string `json:"homeTeamId"`
	Away string `json:"awayTeamId"`
}

// Assignment binds a matchup (or an external offer) to a slot.
type Assignment struct {
	SlotID          string `json:"slotId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	FieldKey        string `json:"fieldKey"`
	HomeTeam        string `json:"homeTeamId"`
	AwayTeam        string `json:"awayTeamId"`
	IsExternalOffer bool   `json:"isExternalOffer"`
}

// Summary reports assignment totals.
type Summary struct {
	TotalSlots         int `json:"totalSlots"`
	AssignedSlots      int `json:"assignedSlots"`
	TotalMatchups      int `json:"totalMatchups"`
	AssignedMatchups   int `json:"assignedMatchups"`
	ExternalOffers     int `json:"externalOffers"`
	UnassignedSlots    int `json:"unassignedSlots"`
	UnassignedMatchups int `json:"unassignedMatchups"`
}

// Result is the full output of the assignment engine.
type Result struct {
	Assignments        []Assignment `json:"assignments"`
	UnassignedSlots    []Slot       `json:"unassignedSlots"`
	UnassignedMatchups []Matchup    `json:"unassignedMatchups"`
	Summary            Summary      `json:"summary"`
}

// Issue severities.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Validator rule identifiers.
const (
	RuleMissingOpponent     = "missing-opponent"
	RuleDoubleHeader        = "double-header"
	RuleDoubleHeaderBalance = "double-header-balance"
	RuleMaxGamesPerWeek     = "max-games-per-week"
	RuleUnassignedSlots     = "unassigned-slots"
	RuleUnassignedMatchups  = "unassigned-matchups"
)

// Issue is a single advisory validation finding.
type Issue struct {
	Rule     string         `json:"rule"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}
