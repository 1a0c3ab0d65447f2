package schedule

import "fmt"

// Conflict codes reported by AnalyzeFeasibility.
const (
	ConflictCapacityInsufficient    = "capacity-insufficient"
	ConflictGuestGamesOverConsuming = "guest-games-over-consuming"
	ConflictNoDoubleHeadersBlocking = "no-doubleheaders-blocking"
	ConflictMaxGamesPerWeekShort    = "max-games-per-week-insufficient"
)

// bracketSlotsRequired is the fixed single-elimination bracket size: two
// semifinals and a final.
const bracketSlotsRequired = 3

// Utilization bands.
const (
	UtilizationHigh          = "High"
	UtilizationGood          = "Good"
	UtilizationLow           = "Low"
	UtilizationNotCalculated = "Not calculated"
)

// FeasibilityInput carries the counts and constraint parameters for a
// pre-season feasibility check. No roster or slot details are needed.
type FeasibilityInput struct {
	TeamCount             int  `json:"teamCount"`
	AvailableRegularSlots int  `json:"availableRegularSlots"`
	AvailablePoolSlots    int  `json:"availablePoolSlots"`
	AvailableBracketSlots int  `json:"availableBracketSlots"`
	MinGamesPerTeam       int  `json:"minGamesPerTeam"`
	PoolGamesPerTeam      int  `json:"poolGamesPerTeam"`
	MaxGamesPerWeek       int  `json:"maxGamesPerWeek"`
	NoDoubleHeaders       bool `json:"noDoubleHeaders"`
	SeasonWeeks           int  `json:"seasonWeeks"`
	GuestGamesPerWeek     int  `json:"guestGamesPerWeek"`
}

// Conflict describes one constraint combination that is impossible or
// undesirable, with a suggested fix in the message.
type Conflict struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Recommendation is the analyzer's suggested configuration.
type Recommendation struct {
	GuestGamesPerWeek int    `json:"guestGamesPerWeek"`
	MaxGamesPerTeam   int    `json:"maxGamesPerTeam"`
	MinRecommended    int    `json:"minRecommended"`
	MaxRecommended    int    `json:"maxRecommended"`
	Utilization       string `json:"utilization"`
	Message           string `json:"message"`
}

// Capacity is the slot arithmetic behind the feasibility flags.
type Capacity struct {
	AvailableSlots     int `json:"availableSlots"`
	RequiredSlots      int `json:"requiredSlots"`
	SurplusSlots       int `json:"surplusSlots"`
	ReservedGuestSlots int `json:"reservedGuestSlots"`
	EffectiveSlots     int `json:"effectiveSlots"`
}

// FeasibilityResult is the full pre-flight report.
type FeasibilityResult struct {
	RegularFeasible bool           `json:"regularFeasible"`
	PoolFeasible    bool           `json:"poolFeasible"`
	BracketFeasible bool           `json:"bracketFeasible"`
	Conflicts       []Conflict     `json:"conflicts"`
	Recommendation  Recommendation `json:"recommendation"`
	Capacity        Capacity       `json:"capacity"`
}

// AnalyzeFeasibility estimates required versus available slot capacity,
// flags impossible or undesirable constraint combinations, and recommends a
// games-per-team range and guest-game quota. It never fails: zero teams or
// zero available slots produce a "Not calculated" recommendation.
func AnalyzeFeasibility(in FeasibilityInput) FeasibilityResult {
	if in.TeamCount <= 0 || in.AvailableRegularSlots <= 0 {
		return FeasibilityResult{
			Recommendation: Recommendation{
				Utilization: UtilizationNotCalculated,
				Message:     "N/A: team count and available slots are required",
			},
		}
	}

	requiredRegular := ceilDiv(in.TeamCount*in.MinGamesPerTeam, 2)
	requiredPool := ceilDiv(in.TeamCount*in.PoolGamesPerTeam, 2)

	result := FeasibilityResult{
		RegularFeasible: in.AvailableRegularSlots >= requiredRegular,
		PoolFeasible:    in.AvailablePoolSlots >= requiredPool,
		BracketFeasible: in.AvailableBracketSlots >= bracketSlotsRequired,
	}

	if !result.RegularFeasible {
		result.Conflicts = append(result.Conflicts, Conflict{
			Code:     ConflictCapacityInsufficient,
			Severity: SeverityError,
			Message: fmt.Sprintf("regular season needs %d slots but only %d are available; add %d slot(s) or lower games per team to %d",
				requiredRegular, in.AvailableRegularSlots, requiredRegular-in.AvailableRegularSlots, in.AvailableRegularSlots*2/in.TeamCount),
		})
	}
	if !result.PoolFeasible {
		result.Conflicts = append(result.Conflicts, Conflict{
			Code:     ConflictCapacityInsufficient,
			Severity: SeverityError,
			Message: fmt.Sprintf("pool play needs %d slots but only %d are available; add %d slot(s) or lower pool games per team",
				requiredPool, in.AvailablePoolSlots, requiredPool-in.AvailablePoolSlots),
		})
	}
	if !result.BracketFeasible {
		result.Conflicts = append(result.Conflicts, Conflict{
			Code:     ConflictCapacityInsufficient,
			Severity: SeverityError,
			Message: fmt.Sprintf("bracket needs %d slots but only %d are available; reserve %d more slot(s)",
				bracketSlotsRequired, in.AvailableBracketSlots, bracketSlotsRequired-in.AvailableBracketSlots),
		})
	}

	if in.GuestGamesPerWeek > 0 {
		reserved := in.SeasonWeeks * in.GuestGamesPerWeek
		if in.AvailableRegularSlots-reserved < requiredRegular {
			result.Conflicts = append(result.Conflicts, Conflict{
				Code:     ConflictGuestGamesOverConsuming,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("reserving %d slots for guest games leaves %d of the %d needed for regular games; reduce guest games per week below %d",
					reserved, in.AvailableRegularSlots-reserved, requiredRegular, in.GuestGamesPerWeek),
			})
		}
	}

	if in.NoDoubleHeaders && in.MaxGamesPerWeek > 0 && in.MinGamesPerTeam > in.SeasonWeeks*in.MaxGamesPerWeek {
		result.Conflicts = append(result.Conflicts, Conflict{
			Code:     ConflictNoDoubleHeadersBlocking,
			Severity: SeverityError,
			Message: fmt.Sprintf("%d games per team cannot fit in %d weeks at %d game(s) per week without doubleheaders; allow doubleheaders, raise the weekly cap, or extend the season",
				in.MinGamesPerTeam, in.SeasonWeeks, in.MaxGamesPerWeek),
		})
	}

	if in.MaxGamesPerWeek > 0 && in.TeamCount*in.MinGamesPerTeam > in.SeasonWeeks*in.MaxGamesPerWeek*in.TeamCount {
		result.Conflicts = append(result.Conflicts, Conflict{
			Code:     ConflictMaxGamesPerWeekShort,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("the league needs %d team-games but the weekly cap allows only %d over %d weeks; raise max games per week or extend the season",
				in.TeamCount*in.MinGamesPerTeam, in.SeasonWeeks*in.MaxGamesPerWeek*in.TeamCount, in.SeasonWeeks),
		})
	}

	result.Capacity, result.Recommendation = recommend(in, requiredRegular)
	return result
}

// recommend derives the guest-game quota and games-per-team range. For an odd
// roster the round-robin remainder leaves some teams a game short; guest
// games absorb that imbalance, capped by the available surplus. Otherwise a
// single weekly guest game is suggested only when surplus exceeds 20% of
// capacity.
func recommend(in FeasibilityInput, requiredRegular int) (Capacity, Recommendation) {
	surplus := in.AvailableRegularSlots - requiredRegular
	if surplus < 0 {
		surplus = 0
	}

	guestPerWeek := 0
	if in.TeamCount%2 == 1 && in.SeasonWeeks > 0 {
		if remainder := (requiredRegular * 2) % in.TeamCount; remainder != 0 {
			guestPerWeek = ceilDiv(in.TeamCount-remainder, in.SeasonWeeks)
			if limit := surplus / in.SeasonWeeks; guestPerWeek > limit {
				guestPerWeek = limit
			}
		}
	}
	if guestPerWeek == 0 && surplus*5 > in.AvailableRegularSlots {
		guestPerWeek = 1
	}

	reserved := guestPerWeek * in.SeasonWeeks
	effective := in.AvailableRegularSlots - reserved
	if effective < 0 {
		effective = 0
	}

	maxPerTeam := effective * 2 / in.TeamCount
	upper := maxPerTeam
	lower := in.TeamCount - 1
	if lower > maxPerTeam {
		lower = maxPerTeam
	}
	if lower < maxPerTeam-2 {
		lower = maxPerTeam - 2
	}
	if lower < 0 {
		lower = 0
	}
	if upper < 0 {
		upper = 0
	}

	percent := requiredRegular * 100 / in.AvailableRegularSlots
	var utilization string
	switch {
	case percent >= 90:
		utilization = UtilizationHigh
	case percent >= 50:
		utilization = UtilizationGood
	case percent > 0:
		utilization = UtilizationLow
	default:
		utilization = UtilizationNotCalculated
	}

	message := fmt.Sprintf("capacity utilization is %s (%d%%): %d of %d slots needed", utilization, percent, requiredRegular, in.AvailableRegularSlots)
	if utilization == UtilizationNotCalculated {
		message = "utilization not calculated: no games configured"
	} else {
		message += fmt.Sprintf("; recommend %d-%d games per team with %d guest game(s) per week", lower, upper, guestPerWeek)
	}

	capacity := Capacity{
		AvailableSlots:     in.AvailableRegularSlots,
		RequiredSlots:      requiredRegular,
		SurplusSlots:       surplus,
		ReservedGuestSlots: reserved,
		EffectiveSlots:     effective,
	}
	recommendation := Recommendation{
		GuestGamesPerWeek: guestPerWeek,
		MaxGamesPerTeam:   maxPerTeam,
		MinRecommended:    lower,
		MaxRecommended:    upper,
		Utilization:       utilization,
		Message:           message,
	}
	return capacity, recommendation
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
