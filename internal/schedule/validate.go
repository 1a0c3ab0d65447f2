package schedule

import (
	"fmt"
	"sort"
)

// Validate inspects a completed assignment result against the constraints
// used to produce it and returns advisory issues. It never fails; an empty
// list means a clean schedule. Output order is deterministic for identical
// input.
func Validate(result Result, constraints Constraints) []Issue {
	var issues []Issue
	issues = append(issues, checkMissingOpponents(result)...)
	issues = append(issues, checkDoubleHeaders(result, constraints)...)
	issues = append(issues, checkDoubleHeaderBalance(result, constraints)...)
	issues = append(issues, checkMaxGamesPerWeek(result, constraints)...)
	issues = append(issues, checkUnassigned(result)...)
	return issues
}

func checkMissingOpponents(result Result) []Issue {
	var issues []Issue
	for _, a := range result.Assignments {
		if a.IsExternalOffer {
			continue
		}
		if a.HomeTeam != "" && a.AwayTeam != "" {
			continue
		}
		issues = append(issues, Issue{
			Rule:     RuleMissingOpponent,
			Severity: SeverityError,
			Message:  fmt.Sprintf("assignment on %s at %s (%s) is missing a team", a.Date, a.StartTime, a.FieldKey),
			Details: map[string]any{
				"slotId":     a.SlotID,
				"date":       a.Date,
				"fieldKey":   a.FieldKey,
				"homeTeamId": a.HomeTeam,
				"awayTeamId": a.AwayTeam,
			},
		})
	}
	return issues
}

// gamesByTeamDate counts games per team per date. External offers count for
// their home team, since the team still occupies the field that day.
func gamesByTeamDate(result Result) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	add := func(team, date string) {
		if team == "" {
			return
		}
		if counts[team] == nil {
			counts[team] = make(map[string]int)
		}
		counts[team][date]++
	}
	for _, a := range result.Assignments {
		add(a.HomeTeam, a.Date)
		if !a.IsExternalOffer {
			add(a.AwayTeam, a.Date)
		}
	}
	return counts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkDoubleHeaders(result Result, constraints Constraints) []Issue {
	severity := SeverityWarning
	if constraints.NoDoubleHeaders {
		severity = SeverityError
	}

	counts := gamesByTeamDate(result)
	var issues []Issue
	for _, team := range sortedKeys(counts) {
		for _, date := range sortedKeys(counts[team]) {
			n := counts[team][date]
			if n <= 1 {
				continue
			}
			issues = append(issues, Issue{
				Rule:     RuleDoubleHeader,
				Severity: severity,
				Message:  fmt.Sprintf("team %s plays %d games on %s", team, n, date),
				Details:  map[string]any{"teamId": team, "date": date, "games": n},
			})
		}
	}
	return issues
}

// checkDoubleHeaderBalance warns when doubleheaders are allowed but spread
// unevenly across teams. The allowed gap is 0 for an even number of teams and
// 1 for odd; that heuristic is preserved from the league's original rules.
func checkDoubleHeaderBalance(result Result, constraints Constraints) []Issue {
	if constraints.NoDoubleHeaders {
		return nil
	}
	counts := gamesByTeamDate(result)
	if len(counts) < 2 {
		return nil
	}

	doubleheaders := make(map[string]int, len(counts))
	for team, dates := range counts {
		total := 0
		for _, n := range dates {
			if n > 1 {
				total += n - 1
			}
		}
		doubleheaders[team] = total
	}

	maxCount, minCount := -1, -1
	for _, n := range doubleheaders {
		if maxCount == -1 || n > maxCount {
			maxCount = n
		}
		if minCount == -1 || n < minCount {
			minCount = n
		}
	}

	allowedGap := 0
	if len(counts)%2 == 1 {
		allowedGap = 1
	}
	if maxCount-minCount <= allowedGap {
		return nil
	}

	var maxTeams, minTeams []string
	for _, team := range sortedKeys(doubleheaders) {
		switch doubleheaders[team] {
		case maxCount:
			maxTeams = append(maxTeams, team)
		case minCount:
			minTeams = append(minTeams, team)
		}
	}

	return []Issue{{
		Rule:     RuleDoubleHeaderBalance,
		Severity: SeverityWarning,
		Message: fmt.Sprintf("doubleheader spread is %d (max %d for %v, min %d for %v, allowed gap %d)",
			maxCount-minCount, maxCount, maxTeams, minCount, minTeams, allowedGap),
		Details: map[string]any{
			"max":        maxCount,
			"min":        minCount,
			"maxTeams":   maxTeams,
			"minTeams":   minTeams,
			"allowedGap": allowedGap,
		},
	}}
}

func checkMaxGamesPerWeek(result Result, constraints Constraints) []Issue {
	if constraints.MaxGamesPerWeek <= 0 {
		return nil
	}

	weeks := make(map[string]map[string]int)
	add := func(team, date string) {
		if team == "" {
			return
		}
		week := weekKey(date)
		if week == unresolvedWeek {
			return
		}
		if weeks[team] == nil {
			weeks[team] = make(map[string]int)
		}
		weeks[team][week]++
	}
	for _, a := range result.Assignments {
		add(a.HomeTeam, a.Date)
		if !a.IsExternalOffer {
			add(a.AwayTeam, a.Date)
		}
	}

	var issues []Issue
	for _, team := range sortedKeys(weeks) {
		for _, week := range sortedKeys(weeks[team]) {
			n := weeks[team][week]
			if n <= constraints.MaxGamesPerWeek {
				continue
			}
			issues = append(issues, Issue{
				Rule:     RuleMaxGamesPerWeek,
				Severity: SeverityError,
				Message:  fmt.Sprintf("team %s plays %d games in week %s (max %d)", team, n, week, constraints.MaxGamesPerWeek),
				Details:  map[string]any{"teamId": team, "week": week, "games": n, "max": constraints.MaxGamesPerWeek},
			})
		}
	}
	return issues
}

func checkUnassigned(result Result) []Issue {
	var issues []Issue
	if n := len(result.UnassignedSlots); n > 0 {
		issues = append(issues, Issue{
			Rule:     RuleUnassignedSlots,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d slot(s) could not be filled", n),
			Details:  map[string]any{"count": n},
		})
	}
	if n := len(result.UnassignedMatchups); n > 0 {
		issues = append(issues, Issue{
			Rule:     RuleUnassignedMatchups,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d matchup(s) could not be placed", n),
			Details:  map[string]any{"count": n},
		})
	}
	return issues
}
