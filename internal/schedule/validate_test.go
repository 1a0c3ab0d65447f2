package schedule

import (
	"encoding/json"
	"testing"
)

func assignmentOn(date, home, away string) Assignment {
	return Assignment{
		SlotID:    "slot-" + date + "-" + home,
		Date:      date,
		StartTime: "09:00",
		EndTime:   "10:00",
		FieldKey:  "riverside-1",
		HomeTeam:  home,
		AwayTeam:  away,
	}
}

func findIssues(issues []Issue, rule string) []Issue {
	var found []Issue
	for _, issue := range issues {
		if issue.Rule == rule {
			found = append(found, issue)
		}
	}
	return found
}

func TestValidateCleanSchedule(t *testing.T) {
	result := Result{
		Assignments: []Assignment{
			assignmentOn("2026-04-06", "a", "b"),
			assignmentOn("2026-04-07", "c", "d"),
		},
	}
	if issues := Validate(result, Constraints{}); len(issues) != 0 {
		t.Errorf("issues = %+v, want none", issues)
	}
}

func TestValidateMissingOpponent(t *testing.T) {
	broken := assignmentOn("2026-04-06", "a", "")
	external := assignmentOn("2026-04-07", "b", "")
	external.IsExternalOffer = true

	result := Result{Assignments: []Assignment{broken, external}}
	issues := findIssues(Validate(result, Constraints{}), RuleMissingOpponent)

	if len(issues) != 1 {
		t.Fatalf("missing-opponent issues = %d, want 1", len(issues))
	}
	if issues[0].Severity != SeverityError {
		t.Errorf("severity = %s, want error", issues[0].Severity)
	}
	if issues[0].Details["slotId"] != broken.SlotID {
		t.Errorf("details slotId = %v, want %s", issues[0].Details["slotId"], broken.SlotID)
	}
}

func TestValidateDoubleHeader(t *testing.T) {
	result := Result{
		Assignments: []Assignment{
			assignmentOn("2026-04-06", "a", "b"),
			assignmentOn("2026-04-06", "a", "c"),
			assignmentOn("2026-04-06", "a", "d"),
		},
	}

	t.Run("flagged as warning when allowed", func(t *testing.T) {
		issues := findIssues(Validate(result, Constraints{}), RuleDoubleHeader)
		if len(issues) != 1 {
			t.Fatalf("double-header issues = %d, want 1", len(issues))
		}
		if issues[0].Severity != SeverityWarning {
			t.Errorf("severity = %s, want warning", issues[0].Severity)
		}
		if issues[0].Details["games"] != 3 {
			t.Errorf("games = %v, want 3", issues[0].Details["games"])
		}
	})

	t.Run("flagged as error when forbidden", func(t *testing.T) {
		issues := findIssues(Validate(result, Constraints{NoDoubleHeaders: true}), RuleDoubleHeader)
		if len(issues) != 1 {
			t.Fatalf("double-header issues = %d, want 1", len(issues))
		}
		if issues[0].Severity != SeverityError {
			t.Errorf("severity = %s, want error", issues[0].Severity)
		}
	})
}

func TestValidateDoubleHeaderBalance(t *testing.T) {
	// Teams a and b both play twice on one date; c and d never double up.
	result := Result{
		Assignments: []Assignment{
			assignmentOn("2026-04-06", "a", "b"),
			assignmentOn("2026-04-06", "b", "a"),
			assignmentOn("2026-04-07", "c", "d"),
			assignmentOn("2026-04-08", "d", "c"),
		},
	}

	issues := findIssues(Validate(result, Constraints{}), RuleDoubleHeaderBalance)
	if len(issues) != 1 {
		t.Fatalf("balance issues = %d, want 1", len(issues))
	}
	issue := issues[0]
	if issue.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", issue.Severity)
	}
	if issue.Details["max"] != 1 || issue.Details["min"] != 0 {
		t.Errorf("details = %+v, want max 1 min 0", issue.Details)
	}

	t.Run("suppressed when doubleheaders are forbidden", func(t *testing.T) {
		got := findIssues(Validate(result, Constraints{NoDoubleHeaders: true}), RuleDoubleHeaderBalance)
		if len(got) != 0 {
			t.Errorf("balance issues = %d, want 0", len(got))
		}
	})
}

func TestValidateDoubleHeaderBalanceOddGap(t *testing.T) {
	// Three teams: a has one doubleheader, b and c have none. With an odd
	// team count the allowed gap is 1, so no issue.
	result := Result{
		Assignments: []Assignment{
			assignmentOn("2026-04-06", "a", "b"),
			assignmentOn("2026-04-06", "a", "c"),
		},
	}
	issues := findIssues(Validate(result, Constraints{}), RuleDoubleHeaderBalance)
	if len(issues) != 0 {
		t.Errorf("balance issues = %+v, want none", issues)
	}
}

func TestValidateMaxGamesPerWeek(t *testing.T) {
	result := Result{
		Assignments: []Assignment{
			assignmentOn("2026-04-06", "a", "b"),
			assignmentOn("2026-04-08", "a", "c"),
			assignmentOn("2026-04-10", "a", "d"),
		},
	}

	issues := findIssues(Validate(result, Constraints{MaxGamesPerWeek: 2}), RuleMaxGamesPerWeek)
	if len(issues) != 1 {
		t.Fatalf("max-games issues = %d, want 1", len(issues))
	}
	if issues[0].Details["teamId"] != "a" || issues[0].Details["games"] != 3 {
		t.Errorf("details = %+v, want team a with 3 games", issues[0].Details)
	}

	t.Run("disabled without a cap", func(t *testing.T) {
		if got := findIssues(Validate(result, Constraints{}), RuleMaxGamesPerWeek); len(got) != 0 {
			t.Errorf("max-games issues = %d, want 0", len(got))
		}
	})
}

func TestValidateUnassigned(t *testing.T) {
	result := Result{
		UnassignedSlots:    []Slot{slotOn("s1", "2026-04-06", "")},
		UnassignedMatchups: []Matchup{{Home: "a", Away: "b"}, {Home: "c", Away: "d"}},
	}
	issues := Validate(result, Constraints{})

	slots := findIssues(issues, RuleUnassignedSlots)
	if len(slots) != 1 || slots[0].Details["count"] != 1 {
		t.Errorf("unassigned-slots = %+v, want one issue with count 1", slots)
	}
	pairs := findIssues(issues, RuleUnassignedMatchups)
	if len(pairs) != 1 || pairs[0].Details["count"] != 2 {
		t.Errorf("unassigned-matchups = %+v, want one issue with count 2", pairs)
	}
}

func TestValidateIdempotent(t *testing.T) {
	result := Result{
		Assignments: []Assignment{
			assignmentOn("2026-04-06", "a", "b"),
			assignmentOn("2026-04-06", "a", "c"),
			assignmentOn("2026-04-06", "b", "d"),
			assignmentOn("2026-04-08", "d", ""),
		},
		UnassignedMatchups: []Matchup{{Home: "b", Away: "c"}},
	}
	constraints := Constraints{MaxGamesPerWeek: 1}

	first, err := json.Marshal(Validate(result, constraints))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Validate(result, constraints))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("validator output is not stable:\n%s\n%s", first, second)
	}
}
