// internal/api/schedules/handlers.go
package schedules

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agsasoftball/fieldtime/internal/api/apiutil"
	"github.com/agsasoftball/fieldtime/internal/config"
	appdb "github.com/agsasoftball/fieldtime/internal/db"
	"github.com/agsasoftball/fieldtime/internal/db/store"
	"github.com/agsasoftball/fieldtime/internal/export"
	"github.com/agsasoftball/fieldtime/internal/schedule"
)

const scheduleQueryTimeout = 10 * time.Second

var (
	database *appdb.DB
	defaults config.ScheduleConfig
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB, scheduleCfg config.ScheduleConfig) {
	if db == nil {
		return
	}
	database = db
	defaults = scheduleCfg
}

type constraintsRequest struct {
	MaxGamesPerWeek      *int  `json:"maxGamesPerWeek"`
	NoDoubleHeaders      *bool `json:"noDoubleHeaders"`
	BalanceHomeAway      *bool `json:"balanceHomeAway"`
	ExternalOfferPerWeek *int  `json:"externalOfferPerWeek"`
}

type scheduleResponse struct {
	Division string           `json:"division"`
	Result   schedule.Result  `json:"result"`
	Issues   []schedule.Issue `json:"issues"`
	Saved    bool             `json:"saved"`
}

type feasibilityRequest struct {
	MinGamesPerTeam       int  `json:"minGamesPerTeam"`
	PoolGamesPerTeam      int  `json:"poolGamesPerTeam"`
	SeasonWeeks           int  `json:"seasonWeeks"`
	MaxGamesPerWeek       int  `json:"maxGamesPerWeek"`
	NoDoubleHeaders       bool `json:"noDoubleHeaders"`
	GuestGamesPerWeek     int  `json:"guestGamesPerWeek"`
	AvailableRegularSlots int  `json:"availableRegularSlots"`
	AvailablePoolSlots    int  `json:"availablePoolSlots"`
	AvailableBracketSlots int  `json:"availableBracketSlots"`
}

// POST /api/v1/divisions/{division}/schedule/preview
func HandleSchedulePreview(w http.ResponseWriter, r *http.Request) {
	handleScheduleBuild(w, r, false)
}

// POST /api/v1/divisions/{division}/schedule/generate
func HandleScheduleGenerate(w http.ResponseWriter, r *http.Request) {
	handleScheduleBuild(w, r, true)
}

func handleScheduleBuild(w http.ResponseWriter, r *http.Request, save bool) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	division, err := apiutil.DivisionFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	constraints, err := decodeConstraints(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	roster, codeByID, err := loadRoster(ctx, database.Queries, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to load teams")
		http.Error(w, "Failed to load teams", http.StatusInternalServerError)
		return
	}
	if len(roster) < 2 {
		http.Error(w, "Division needs at least two teams to schedule", http.StatusUnprocessableEntity)
		return
	}

	openSlots, err := database.Queries.ListSlotsByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to load slots")
		http.Error(w, "Failed to load slots", http.StatusInternalServerError)
		return
	}

	slots := engineSlots(openSlots, codeByID)
	matchups := schedule.GenerateRoundRobin(roster)
	result := schedule.AssignMatchups(slots, matchups, roster, constraints)
	issues := schedule.Validate(result, constraints)

	if save {
		if err := persistSchedule(ctx, division, result); err != nil {
			logger.Error().Err(err).Str("division", division).Msg("Failed to save schedule")
			http.Error(w, "Failed to save schedule", http.StatusInternalServerError)
			return
		}
		logger.Info().
			Str("division", division).
			Int("assignments", len(result.Assignments)).
			Int("unassigned_slots", result.Summary.UnassignedSlots).
			Int("unassigned_matchups", result.Summary.UnassignedMatchups).
			Msg("Schedule generated")
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, scheduleResponse{
		Division: division,
		Result:   result,
		Issues:   issues,
		Saved:    save,
	}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write schedule response")
	}
}

// GET /api/v1/divisions/{division}/schedule
func HandleScheduleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	division, err := apiutil.DivisionFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	games, err := database.Queries.ListGamesByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list games")
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"division": division, "games": games}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write games response")
	}
}

// GET /api/v1/divisions/{division}/schedule/validate
func HandleScheduleValidate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	division, err := apiutil.DivisionFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	constraints, err := decodeConstraintsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	result, err := loadPersistedResult(ctx, database.Queries, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to load schedule")
		http.Error(w, "Failed to load schedule", http.StatusInternalServerError)
		return
	}

	issues := schedule.Validate(result, constraints)
	if issues == nil {
		issues = []schedule.Issue{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"division": division, "issues": issues}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write validation response")
	}
}

// POST /api/v1/divisions/{division}/schedule/feasibility
func HandleFeasibility(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	division, err := apiutil.DivisionFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req feasibilityRequest
	if r.ContentLength != 0 {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	teams, err := database.Queries.ListTeamsByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to load teams")
		http.Error(w, "Failed to load teams", http.StatusInternalServerError)
		return
	}

	availableRegular := req.AvailableRegularSlots
	if availableRegular == 0 {
		openSlots, err := database.Queries.ListSlotsByDivisionAndStatus(ctx, store.ListSlotsByDivisionAndStatusParams{
			Division: division,
			Status:   store.SlotStatusOpen,
		})
		if err != nil {
			logger.Error().Err(err).Str("division", division).Msg("Failed to count open slots")
			http.Error(w, "Failed to count open slots", http.StatusInternalServerError)
			return
		}
		availableRegular = len(openSlots)
	}

	maxPerWeek := req.MaxGamesPerWeek
	if maxPerWeek == 0 {
		maxPerWeek = defaults.MaxGamesPerWeek
	}

	result := schedule.AnalyzeFeasibility(schedule.FeasibilityInput{
		TeamCount:             len(teams),
		AvailableRegularSlots: availableRegular,
		AvailablePoolSlots:    req.AvailablePoolSlots,
		AvailableBracketSlots: req.AvailableBracketSlots,
		MinGamesPerTeam:       req.MinGamesPerTeam,
		PoolGamesPerTeam:      req.PoolGamesPerTeam,
		MaxGamesPerWeek:       maxPerWeek,
		NoDoubleHeaders:       req.NoDoubleHeaders || defaults.NoDoubleHeaders,
		SeasonWeeks:           req.SeasonWeeks,
		GuestGamesPerWeek:     req.GuestGamesPerWeek,
	})

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"division": division, "feasibility": result}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write feasibility response")
	}
}

// GET /api/v1/divisions/{division}/schedule/export?format=
//
// Formats: internal (default), leaguelobster, gamechanger.
func HandleScheduleExport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	division, err := apiutil.DivisionFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	var writeCSV func(io.Writer, []export.ScheduleRow) error
	switch format {
	case "", "internal":
		format = "internal"
		writeCSV = export.WriteScheduleCSV
	case "leaguelobster":
		writeCSV = export.WriteLeagueLobsterCSV
	case "gamechanger":
		writeCSV = export.WriteGameChangerCSV
	default:
		http.Error(w, fmt.Sprintf("Unknown export format %q", format), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	games, err := database.Queries.ListGamesByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list games")
		http.Error(w, "Failed to export schedule", http.StatusInternalServerError)
		return
	}

	rows := make([]export.ScheduleRow, 0, len(games))
	for _, game := range games {
		rows = append(rows, export.ScheduleRow{
			Division:   game.Division,
			GameDate:   game.GameDate,
			StartTime:  game.StartTime,
			EndTime:    game.EndTime,
			FieldKey:   game.FieldKey,
			HomeTeam:   game.HomeTeamCode,
			AwayTeam:   game.AwayTeamCode.String,
			IsExternal: game.IsExternal,
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule-%s-%s.csv"`, division, format))
	if err := writeCSV(w, rows); err != nil {
		logger.Error().Err(err).Str("division", division).Str("format", format).Msg("Failed to write schedule CSV")
	}
}

func decodeConstraints(r *http.Request) (schedule.Constraints, error) {
	constraints := defaultConstraints()
	if r.ContentLength == 0 {
		return constraints, nil
	}

	var req constraintsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		return schedule.Constraints{}, err
	}
	if req.MaxGamesPerWeek != nil {
		constraints.MaxGamesPerWeek = *req.MaxGamesPerWeek
	}
	if req.NoDoubleHeaders != nil {
		constraints.NoDoubleHeaders = *req.NoDoubleHeaders
	}
	if req.BalanceHomeAway != nil {
		constraints.BalanceHomeAway = *req.BalanceHomeAway
	}
	if req.ExternalOfferPerWeek != nil {
		constraints.ExternalOfferPerWeek = *req.ExternalOfferPerWeek
	}
	return constraints, nil
}

func decodeConstraintsFromQuery(r *http.Request) (schedule.Constraints, error) {
	constraints := defaultConstraints()
	query := r.URL.Query()
	if raw := query.Get("max_games_per_week"); raw != "" {
		value, err := apiutil.ParseNonNegativeIntField(raw, "max_games_per_week")
		if err != nil {
			return schedule.Constraints{}, err
		}
		constraints.MaxGamesPerWeek = value
	}
	if query.Has("no_double_headers") {
		constraints.NoDoubleHeaders = query.Get("no_double_headers") == "true"
	}
	return constraints, nil
}

func defaultConstraints() schedule.Constraints {
	return schedule.Constraints{
		MaxGamesPerWeek:      defaults.MaxGamesPerWeek,
		NoDoubleHeaders:      defaults.NoDoubleHeaders,
		BalanceHomeAway:      defaults.BalanceHomeAway,
		ExternalOfferPerWeek: defaults.ExternalOfferPerWeek,
	}
}

func loadRoster(ctx context.Context, q *store.Queries, division string) ([]string, map[int64]string, error) {
	teams, err := q.ListTeamsByDivision(ctx, division)
	if err != nil {
		return nil, nil, err
	}
	roster := make([]string, 0, len(teams))
	codeByID := make(map[int64]string, len(teams))
	for _, team := range teams {
		roster = append(roster, team.Code)
		codeByID[team.ID] = team.Code
	}
	return roster, codeByID, nil
}

func engineSlots(slots []store.Slot, codeByID map[int64]string) []schedule.Slot {
	out := make([]schedule.Slot, 0, len(slots))
	for _, s := range slots {
		offering := ""
		if s.OfferingTeamID.Valid {
			offering = codeByID[s.OfferingTeamID.Int64]
		}
		out = append(out, schedule.Slot{
			ID:           strconv.FormatInt(s.ID, 10),
			FieldKey:     s.FieldKey,
			Date:         s.GameDate,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			OfferingTeam: offering,
		})
	}
	return out
}

// persistSchedule replaces the division's games and slot statuses with the
// engine result, all in one transaction.
func persistSchedule(ctx context.Context, division string, result schedule.Result) error {
	return database.RunInTx(ctx, func(tx *appdb.DB) error {
		if _, err := tx.Queries.DeleteGamesByDivision(ctx, division); err != nil {
			return fmt.Errorf("clear games: %w", err)
		}
		if _, err := tx.Queries.ResetSlotStatusesByDivision(ctx, division, store.SlotStatusOpen); err != nil {
			return fmt.Errorf("reset slot statuses: %w", err)
		}

		for _, assignment := range result.Assignments {
			slotID, err := strconv.ParseInt(assignment.SlotID, 10, 64)
			if err != nil {
				return fmt.Errorf("parse slot id %q: %w", assignment.SlotID, err)
			}

			status := store.SlotStatusMatched
			awayTeam := sql.NullString{String: assignment.AwayTeam, Valid: assignment.AwayTeam != ""}
			if assignment.IsExternalOffer {
				status = store.SlotStatusExternal
				awayTeam = sql.NullString{}
			}

			if _, err := tx.Queries.CreateGame(ctx, store.CreateGameParams{
				SlotID:       sql.NullInt64{Int64: slotID, Valid: true},
				Division:     division,
				GameDate:     assignment.Date,
				StartTime:    assignment.StartTime,
				EndTime:      assignment.EndTime,
				FieldKey:     assignment.FieldKey,
				HomeTeamCode: assignment.HomeTeam,
				AwayTeamCode: awayTeam,
				IsExternal:   assignment.IsExternalOffer,
			}); err != nil {
				return fmt.Errorf("create game: %w", err)
			}

			if _, err := tx.Queries.UpdateSlotStatus(ctx, store.UpdateSlotStatusParams{
				ID:     slotID,
				Status: status,
			}); err != nil {
				return fmt.Errorf("update slot status: %w", err)
			}
		}

		for _, slot := range result.UnassignedSlots {
			slotID, err := strconv.ParseInt(slot.ID, 10, 64)
			if err != nil {
				return fmt.Errorf("parse slot id %q: %w", slot.ID, err)
			}
			if _, err := tx.Queries.UpdateSlotStatus(ctx, store.UpdateSlotStatusParams{
				ID:     slotID,
				Status: store.SlotStatusUnassigned,
			}); err != nil {
				return fmt.Errorf("update slot status: %w", err)
			}
		}

		return nil
	})
}

// loadPersistedResult rebuilds an engine result from stored games and slots so
// the validator can run against an edited schedule.
func loadPersistedResult(ctx context.Context, q *store.Queries, division string) (schedule.Result, error) {
	games, err := q.ListGamesByDivision(ctx, division)
	if err != nil {
		return schedule.Result{}, err
	}
	unassigned, err := q.ListSlotsByDivisionAndStatus(ctx, store.ListSlotsByDivisionAndStatusParams{
		Division: division,
		Status:   store.SlotStatusUnassigned,
	})
	if err != nil {
		return schedule.Result{}, err
	}

	var result schedule.Result
	for _, game := range games {
		slotID := ""
		if game.SlotID.Valid {
			slotID = strconv.FormatInt(game.SlotID.Int64, 10)
		}
		result.Assignments = append(result.Assignments, schedule.Assignment{
			SlotID:          slotID,
			Date:            game.GameDate,
			StartTime:       game.StartTime,
			EndTime:         game.EndTime,
			FieldKey:        game.FieldKey,
			HomeTeam:        game.HomeTeamCode,
			AwayTeam:        game.AwayTeamCode.String,
			IsExternalOffer: game.IsExternal,
		})
	}
	for _, slot := range unassigned {
		result.UnassignedSlots = append(result.UnassignedSlots, schedule.Slot{
			ID:        strconv.FormatInt(slot.ID, 10),
			FieldKey:  slot.FieldKey,
			Date:      slot.GameDate,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	result.Summary = schedule.Summary{
		TotalSlots:      len(games) + len(unassigned),
		AssignedSlots:   len(games),
		UnassignedSlots: len(unassigned),
	}
	return result, nil
}
