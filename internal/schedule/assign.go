package schedule

import "sort"

// assignState tracks per-team accumulators for a single AssignMatchups call.
type assignState struct {
	homeCount   map[string]int
	awayCount   map[string]int
	datesPlayed map[string]map[string]bool
	weekCount   map[string]map[string]int
}

func newAssignState() *assignState {
	return &assignState{
		homeCount:   make(map[string]int),
		awayCount:   make(map[string]int),
		datesPlayed: make(map[string]map[string]bool),
		weekCount:   make(map[string]map[string]int),
	}
}

func (s *assignState) playedOn(team, date string) bool {
	return s.datesPlayed[team][date]
}

func (s *assignState) gamesInWeek(team, week string) int {
	return s.weekCount[team][week]
}

func (s *assignState) record(team, date, week string, home bool) {
	if home {
		s.homeCount[team]++
	} else {
		s.awayCount[team]++
	}
	if s.datesPlayed[team] == nil {
		s.datesPlayed[team] = make(map[string]bool)
	}
	s.datesPlayed[team][date] = true
	if s.weekCount[team] == nil {
		s.weekCount[team] = make(map[string]int)
	}
	s.weekCount[team][week]++
}

// AssignMatchups greedily binds matchups to slots in slot input order. A
// slot whose offering team is in the roster pins that team as home. Legality
// honors the no-doubleheader and max-games-per-week constraints; when
// home/away balancing is enabled the lowest-scoring legal matchup wins, with
// a zero score ending the scan early. Leftover slots are filled with external
// offers up to the per-week quota.
func AssignMatchups(slots []Slot, matchups []Matchup, roster []string, constraints Constraints) Result {
	state := newAssignState()
	rosterSet := make(map[string]bool, len(roster))
	for _, team := range roster {
		rosterSet[team] = true
	}

	pool := make([]Matchup, len(matchups))
	copy(pool, matchups)

	assignments := make([]Assignment, 0, len(slots))
	var unassigned []Slot

	for _, slot := range slots {
		pinned := ""
		if slot.OfferingTeam != "" && rosterSet[slot.OfferingTeam] {
			pinned = slot.OfferingTeam
		}
		week := weekKey(slot.Date)

		bestIdx := -1
		bestScore := 0
		var bestHome, bestAway string
		for idx, m := range pool {
			home, away := m.Home, m.Away
			if pinned != "" {
				if home != pinned && away != pinned {
					continue
				}
				if away == pinned {
					home, away = away, home
				}
			}
			if constraints.NoDoubleHeaders && (state.playedOn(home, slot.Date) || state.playedOn(away, slot.Date)) {
				continue
			}
			if constraints.MaxGamesPerWeek > 0 &&
				(state.gamesInWeek(home, week) >= constraints.MaxGamesPerWeek ||
					state.gamesInWeek(away, week) >= constraints.MaxGamesPerWeek) {
				continue
			}

			score := 0
			if constraints.BalanceHomeAway {
				score = abs(state.homeCount[home]+1-state.awayCount[home]) +
					abs(state.awayCount[away]+1-state.homeCount[away])
			}
			if bestIdx == -1 || score < bestScore {
				bestIdx = idx
				bestScore = score
				bestHome, bestAway = home, away
			}
			if score == 0 {
				break
			}
		}

		if bestIdx == -1 {
			unassigned = append(unassigned, slot)
			continue
		}

		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
		state.record(bestHome, slot.Date, week, true)
		state.record(bestAway, slot.Date, week, false)
		assignments = append(assignments, Assignment{
			SlotID:    slot.ID,
			Date:      slot.Date,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			FieldKey:  slot.FieldKey,
			HomeTeam:  bestHome,
			AwayTeam:  bestAway,
		})
	}

	externalOffers := 0
	if constraints.ExternalOfferPerWeek > 0 && len(unassigned) > 0 && len(roster) > 0 {
		var externals []Assignment
		externals, unassigned, externalOffers = fillExternalOffers(unassigned, roster, constraints.ExternalOfferPerWeek, state)
		assignments = append(assignments, externals...)
	}

	return Result{
		Assignments:        assignments,
		UnassignedSlots:    unassigned,
		UnassignedMatchups: pool,
		Summary: Summary{
			TotalSlots:         len(slots),
			AssignedSlots:      len(assignments),
			TotalMatchups:      len(matchups),
			AssignedMatchups:   len(matchups) - len(pool),
			ExternalOffers:     externalOffers,
			UnassignedSlots:    len(unassigned),
			UnassignedMatchups: len(pool),
		},
	}
}

// fillExternalOffers assigns up to quota leftover slots per week to the team
// with the fewest games so far. Slots with an unparseable date stay in the
// unresolved bucket and are never offered.
func fillExternalOffers(leftover []Slot, roster []string, quota int, state *assignState) ([]Assignment, []Slot, int) {
	groups := make(map[string][]Slot)
	for _, slot := range leftover {
		week := weekKey(slot.Date)
		groups[week] = append(groups[week], slot)
	}

	weeks := make([]string, 0, len(groups))
	for week := range groups {
		if week == unresolvedWeek {
			continue
		}
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	var externals []Assignment
	var remaining []Slot
	offered := 0

	for _, week := range weeks {
		used := 0
		for _, slot := range groups[week] {
			if used >= quota {
				remaining = append(remaining, slot)
				continue
			}
			team := pickExternalTeam(roster, state)
			state.record(team, slot.Date, week, true)
			externals = append(externals, Assignment{
				SlotID:          slot.ID,
				Date:            slot.Date,
				StartTime:       slot.StartTime,
				EndTime:         slot.EndTime,
				FieldKey:        slot.FieldKey,
				HomeTeam:        team,
				IsExternalOffer: true,
			})
			used++
			offered++
		}
	}

	remaining = append(remaining, groups[unresolvedWeek]...)
	return externals, remaining, offered
}

// pickExternalTeam chooses the team with the fewest combined games, breaking
// ties by fewest home games and then lowest team ID.
func pickExternalTeam(roster []string, state *assignState) string {
	best := ""
	for _, team := range roster {
		if best == "" {
			best = team
			continue
		}
		teamTotal := state.homeCount[team] + state.awayCount[team]
		bestTotal := state.homeCount[best] + state.awayCount[best]
		switch {
		case teamTotal < bestTotal:
			best = team
		case teamTotal == bestTotal && state.homeCount[team] < state.homeCount[best]:
			best = team
		case teamTotal == bestTotal && state.homeCount[team] == state.homeCount[best] && team < best:
			best = team
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
