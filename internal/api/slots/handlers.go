// internal/api/slots/handlers.go
package slots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

const slotQueryTimeout = 10 * time.Second

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

type slotRequest struct {
	FieldKey       string `json:"fieldKey"`
	GameDate       string `json:"gameDate"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	OfferingTeamID *int64 `json:"offeringTeamId"`
	GameType       string `json:"gameType"`
	Notes          string `json:"notes"`
}

type expandRequest struct {
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	GameLengthMinutes int    `json:"gameLengthMinutes"`
}

// GET /api/v1/divisions/{division}/slots
func HandleSlotsList(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), slotQueryTimeout)
	defer cancel()

	var slots []store.Slot
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		slots, err = database.Queries.ListSlotsByDivisionAndStatus(ctx, store.ListSlotsByDivisionAndStatusParams{
			Division: division,
			Status:   status,
		})
	} else {
		slots, err = database.Queries.ListSlotsByDivision(ctx, division)
	}
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list slots")
		http.Error(w, "Failed to list slots", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"division": division, "slots": slots}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write slots response")
	}
}

// POST /api/v1/divisions/{division}/slots
func HandleSlotCreate(w http.ResponseWriter, r *http.Request) {
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

	var req slotRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gameDate, err := apiutil.ParseDateField(req.GameDate, "gameDate")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	startTime, err := apiutil.ParseTimeField(req.StartTime, "startTime")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endTime, err := apiutil.ParseTimeField(req.EndTime, "endTime")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if startTime >= endTime {
		http.Error(w, "startTime must be before endTime", http.StatusBadRequest)
		return
	}
	fieldKey := strings.TrimSpace(req.FieldKey)
	if fieldKey == "" {
		http.Error(w, "fieldKey is required", http.StatusBadRequest)
		return
	}
	gameType := strings.TrimSpace(req.GameType)
	if gameType == "" {
		gameType = "Regular"
	}

	ctx, cancel := context.WithTimeout(r.Context(), slotQueryTimeout)
	defer cancel()

	if req.OfferingTeamID != nil {
		team, err := database.Queries.GetTeam(ctx, *req.OfferingTeamID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Offering team not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Int64("team_id", *req.OfferingTeamID).Msg("Failed to fetch team")
			http.Error(w, "Failed to create slot", http.StatusInternalServerError)
			return
		}
		if team.Division != division {
			http.Error(w, "Offering team is not in this division", http.StatusConflict)
			return
		}
	}

	slot, err := database.Queries.CreateSlot(ctx, store.CreateSlotParams{
		Division:       division,
		FieldKey:       fieldKey,
		GameDate:       gameDate,
		StartTime:      startTime,
		EndTime:        endTime,
		OfferingTeamID: apiutil.ToNullInt64(req.OfferingTeamID),
		GameType:       gameType,
		Status:         store.SlotStatusOpen,
		Notes:          apiutil.ToNullString(req.Notes),
	})
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Field not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Str("division", division).Msg("Failed to create slot")
		http.Error(w, "Failed to create slot", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, slot); err != nil {
		logger.Error().Err(err).Int64("slot_id", slot.ID).Msg("Failed to write slot response")
	}
}

// DELETE /api/v1/slots/{id}
func HandleSlotDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slotID, err := apiutil.IDFromRequest(r, "id")
	if err != nil {
		http.Error(w, "Invalid slot ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), slotQueryTimeout)
	defer cancel()

	affected, err := database.Queries.DeleteSlot(ctx, slotID)
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Slot has scheduled games", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Int64("slot_id", slotID).Msg("Failed to delete slot")
		http.Error(w, "Failed to delete slot", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Slot not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": slotID}); err != nil {
		logger.Error().Err(err).Int64("slot_id", slotID).Msg("Failed to write slot delete response")
	}
}

// POST /api/v1/divisions/{division}/slots/expand
//
// Expands the division's availability rules into open slots over the given
// date window and stores them.
func HandleSlotsExpand(w http.ResponseWriter, r *http.Request) {
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

	var req expandRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startDate, err := apiutil.ParseDateField(req.StartDate, "startDate")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endDate, err := apiutil.ParseDateField(req.EndDate, "endDate")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gameLength := req.GameLengthMinutes
	if gameLength == 0 {
		gameLength = defaults.GameLengthMinutes
	}
	if gameLength <= 0 {
		http.Error(w, "gameLengthMinutes must be positive", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), slotQueryTimeout)
	defer cancel()

	rules, exceptions, blackouts, err := loadAvailability(ctx, database.Queries, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to load availability")
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}

	candidates := schedule.ExpandAvailability(rules, exceptions, schedule.DateRange{Start: startDate, End: endDate}, gameLength, blackouts)

	var created []store.Slot
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		for _, candidate := range candidates {
			slot, err := tx.Queries.CreateSlot(ctx, store.CreateSlotParams{
				Division:  division,
				FieldKey:  candidate.FieldKey,
				GameDate:  candidate.Date,
				StartTime: candidate.StartTime,
				EndTime:   candidate.EndTime,
				GameType:  "Regular",
				Status:    store.SlotStatusOpen,
			})
			if err != nil {
				return fmt.Errorf("create slot: %w", err)
			}
			created = append(created, slot)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to store expanded slots")
		http.Error(w, "Failed to store expanded slots", http.StatusInternalServerError)
		return
	}

	logger.Info().Str("division", division).Int("slots", len(created)).Msg("Availability expanded into slots")

	if err := apiutil.WriteJSON(w, http.StatusCreated, map[string]any{
		"division": division,
		"created":  len(created),
		"slots":    created,
	}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write expand response")
	}
}

// POST /api/import/slots
//
// Accepts the legacy slot-offer CSV as the request body. Valid rows are
// stored in one transaction; rejected rows are reported back with their line
// numbers.
func HandleSlotsImport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if r.Body == nil {
		http.Error(w, "Missing request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	rows, rowErrors, err := export.ParseSlotImport(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), slotQueryTimeout)
	defer cancel()

	var imported []store.Slot
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		for _, row := range rows {
			var offeringTeamID sql.NullInt64
			if row.OfferingTeamCode != "" {
				team, err := tx.Queries.GetTeamByCode(ctx, row.OfferingTeamCode)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						rowErrors = append(rowErrors, export.RowError{
							Line:    row.Line,
							Message: fmt.Sprintf("unknown team code %q", row.OfferingTeamCode),
						})
						continue
					}
					return fmt.Errorf("look up team %q: %w", row.OfferingTeamCode, err)
				}
				offeringTeamID = sql.NullInt64{Int64: team.ID, Valid: true}
			}

			slot, err := tx.Queries.CreateSlot(ctx, store.CreateSlotParams{
				Division:       row.Division,
				FieldKey:       row.FieldKey,
				GameDate:       row.GameDate,
				StartTime:      row.StartTime,
				EndTime:        row.EndTime,
				OfferingTeamID: offeringTeamID,
				GameType:       row.GameType,
				Status:         row.Status,
				Notes:          apiutil.ToNullString(row.Notes),
			})
			if err != nil {
				if apiutil.IsSQLiteForeignKeyViolation(err) {
					rowErrors = append(rowErrors, export.RowError{
						Line:    row.Line,
						Message: fmt.Sprintf("unknown field %q", row.FieldKey),
					})
					continue
				}
				return fmt.Errorf("create slot: %w", err)
			}
			imported = append(imported, slot)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to import slots")
		http.Error(w, "Failed to import slots", http.StatusInternalServerError)
		return
	}

	logger.Info().Int("imported", len(imported)).Int("rejected", len(rowErrors)).Msg("Slot import completed")

	if rowErrors == nil {
		rowErrors = []export.RowError{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"imported": len(imported),
		"rejected": len(rowErrors),
		"errors":   rowErrors,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write import response")
	}
}

// GET /api/v1/divisions/{division}/slots/export
func HandleSlotsExport(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), slotQueryTimeout)
	defer cancel()

	slots, err := database.Queries.ListSlotsByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list slots")
		http.Error(w, "Failed to export slots", http.StatusInternalServerError)
		return
	}

	teams, err := database.Queries.ListTeamsByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list teams")
		http.Error(w, "Failed to export slots", http.StatusInternalServerError)
		return
	}
	codeByID := make(map[int64]string, len(teams))
	for _, team := range teams {
		codeByID[team.ID] = team.Code
	}

	rows := make([]export.SlotRow, 0, len(slots))
	for _, slot := range slots {
		offering := ""
		if slot.OfferingTeamID.Valid {
			offering = codeByID[slot.OfferingTeamID.Int64]
		}
		rows = append(rows, export.SlotRow{
			Division:         slot.Division,
			OfferingTeamCode: offering,
			GameDate:         slot.GameDate,
			StartTime:        slot.StartTime,
			EndTime:          slot.EndTime,
			FieldKey:         slot.FieldKey,
			GameType:         slot.GameType,
			Status:           slot.Status,
			Notes:            slot.Notes.String,
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="slots-%s.csv"`, division))
	if err := export.WriteSlotsCSV(w, rows); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write slots CSV")
	}
}

// loadAvailability assembles the engine inputs for an expansion run.
func loadAvailability(ctx context.Context, q *store.Queries, division string) ([]schedule.AvailabilityRule, map[string][]schedule.AvailabilityException, []schedule.DateRange, error) {
	storedRules, err := q.ListAvailabilityRulesByDivision(ctx, division)
	if err != nil {
		return nil, nil, nil, err
	}
	storedExceptions, err := q.ListAvailabilityExceptionsByDivision(ctx, division)
	if err != nil {
		return nil, nil, nil, err
	}
	storedBlackouts, err := q.ListBlackoutDatesByDivision(ctx, division)
	if err != nil {
		return nil, nil, nil, err
	}

	rules := make([]schedule.AvailabilityRule, 0, len(storedRules))
	for _, rule := range storedRules {
		rules = append(rules, schedule.AvailabilityRule{
			ID:         strconv.FormatInt(rule.ID, 10),
			FieldKey:   rule.FieldKey,
			Division:   rule.Division,
			StartDate:  rule.StartDate,
			EndDate:    rule.EndDate,
			Weekdays:   parseWeekdays(rule.Weekdays),
			StartTime:  rule.StartTime,
			EndTime:    rule.EndTime,
			Recurrence: schedule.RecurrenceType(rule.Recurrence),
		})
	}

	exceptions := make(map[string][]schedule.AvailabilityException)
	for _, exception := range storedExceptions {
		ruleID := strconv.FormatInt(exception.RuleID, 10)
		exceptions[ruleID] = append(exceptions[ruleID], schedule.AvailabilityException{
			RuleID:    ruleID,
			StartDate: exception.StartDate,
			EndDate:   exception.EndDate,
			StartTime: exception.StartTime.String,
			EndTime:   exception.EndTime.String,
		})
	}

	blackouts := make([]schedule.DateRange, 0, len(storedBlackouts))
	for _, blackout := range storedBlackouts {
		blackouts = append(blackouts, schedule.DateRange{Start: blackout.StartDate, End: blackout.EndDate})
	}

	return rules, exceptions, blackouts, nil
}

// parseWeekdays reads the stored comma-separated weekday list (0=Sunday).
func parseWeekdays(raw string) []time.Weekday {
	var weekdays []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 || value > 6 {
			continue
		}
		weekdays = append(weekdays, time.Weekday(value))
	}
	return weekdays
}
