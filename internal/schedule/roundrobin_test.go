package schedule

import (
	"fmt"
	"testing"
)

func TestGenerateRoundRobinCompleteness(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 8, 11} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			teams := make([]string, n)
			for i := range teams {
				teams[i] = fmt.Sprintf("team-%02d", i+1)
			}

			matchups := GenerateRoundRobin(teams)
			want := n * (n - 1) / 2
			if len(matchups) != want {
				t.Fatalf("matchups = %d, want %d", len(matchups), want)
			}

			seen := make(map[[2]string]bool)
			for _, m := range matchups {
				if m.Home == m.Away {
					t.Fatalf("team %s paired against itself", m.Home)
				}
				if m.Home == "" || m.Away == "" {
					t.Fatalf("empty team in matchup %+v", m)
				}
				a, b := m.Home, m.Away
				if a > b {
					a, b = b, a
				}
				key := [2]string{a, b}
				if seen[key] {
					t.Fatalf("pair %v appears more than once", key)
				}
				seen[key] = true
			}
		})
	}
}

func TestGenerateRoundRobinRoundOrder(t *testing.T) {
	matchups := GenerateRoundRobin([]string{"a", "b", "c", "d"})

	// Round-major circle-method order with odd rounds flipped home/away.
	want := []Matchup{
		{Home: "a", Away: "d"}, {Home: "b", Away: "c"},
		{Home: "c", Away: "a"}, {Home: "b", Away: "d"},
		{Home: "a", Away: "b"}, {Home: "c", Away: "d"},
	}
	if len(matchups) != len(want) {
		t.Fatalf("matchups = %d, want %d", len(matchups), len(want))
	}
	for i := range want {
		if matchups[i] != want[i] {
			t.Errorf("matchup[%d] = %+v, want %+v", i, matchups[i], want[i])
		}
	}

	home := make(map[string]int)
	away := make(map[string]int)
	for _, m := range matchups {
		home[m.Home]++
		away[m.Away]++
	}
	for _, team := range []string{"a", "b", "c", "d"} {
		if home[team]+away[team] != 3 {
			t.Errorf("team %s plays %d games, want 3", team, home[team]+away[team])
		}
	}
}

func TestGenerateRoundRobinSmallRosters(t *testing.T) {
	if got := GenerateRoundRobin(nil); got != nil {
		t.Errorf("nil roster produced %d matchups", len(got))
	}
	if got := GenerateRoundRobin([]string{"solo"}); got != nil {
		t.Errorf("single team produced %d matchups", len(got))
	}

	pair := GenerateRoundRobin([]string{"a", "b"})
	if len(pair) != 1 {
		t.Fatalf("two teams produced %d matchups, want 1", len(pair))
	}
	if pair[0].Home != "a" || pair[0].Away != "b" {
		t.Errorf("matchup = %+v, want a vs b", pair[0])
	}
}

func TestGenerateRoundRobinDeterministic(t *testing.T) {
	teams := []string{"north", "south", "east", "west", "central"}
	first := GenerateRoundRobin(teams)
	second := GenerateRoundRobin(teams)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("matchup[%d] differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
