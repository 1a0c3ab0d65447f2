package schedule

// GenerateRoundRobin builds a full round robin over the given team IDs using
// the circle method: every unordered pair of distinct teams appears exactly
// once, in round-major order, with home/away alternating by round parity. An
// odd roster gets a bye each round; bye pairings never reach the output.
func GenerateRoundRobin(teams []string) []Matchup {
	if len(teams) < 2 {
		return nil
	}

	// nil marks the bye sitter so no real team ID can collide with it.
	working := make([]*string, 0, len(teams)+1)
	for i := range teams {
		working = append(working, &teams[i])
	}
	if len(working)%2 == 1 {
		working = append(working, nil)
	}

	rounds := len(working) - 1
	matchups := make([]Matchup, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			first := working[i]
			second := working[len(working)-1-i]
			if first == nil || second == nil {
				continue
			}
			home, away := *first, *second
			if round%2 == 1 {
				home, away = away, home
			}
			matchups = append(matchups, Matchup{Home: home, Away: away})
		}
		rotate(working)
	}

	return matchups
}

// rotate performs the circle-method rotation: index 0 stays fixed and the
// last element moves to index 1.
func rotate(teams []*string) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}
