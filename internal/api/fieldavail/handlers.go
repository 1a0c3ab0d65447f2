// internal/api/fieldavail/handlers.go
//
// Fields, availability rules, exceptions, and blackout dates. These feed the
// availability expansion that produces a division's open slots.
package fieldavail

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agsasoftball/fieldtime/internal/api/apiutil"
	appdb "github.com/agsasoftball/fieldtime/internal/db"
	"github.com/agsasoftball/fieldtime/internal/db/store"
)

const availQueryTimeout = 10 * time.Second

var database *appdb.DB

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	database = db
}

type fieldRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type ruleRequest struct {
	FieldKey   string `json:"fieldKey"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Weekdays   []int  `json:"weekdays"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Recurrence string `json:"recurrence"`
}

type exceptionRequest struct {
	RuleID    int64  `json:"ruleId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type blackoutRequest struct {
	Division  string `json:"division"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// GET /api/v1/fields
func HandleFieldsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	fields, err := database.Queries.ListFields(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list fields")
		http.Error(w, "Failed to list fields", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"fields": fields}); err != nil {
		logger.Error().Err(err).Msg("Failed to write fields response")
	}
}

// POST /api/v1/fields
func HandleFieldCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req fieldRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	req.Name = strings.TrimSpace(req.Name)
	if req.Key == "" {
		http.Error(w, apiutil.FieldError{Field: "key", Reason: "is required"}.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = req.Key
	}

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	field, err := database.Queries.CreateField(ctx, store.CreateFieldParams{Key: req.Key, Name: req.Name})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "Field key already in use", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Str("key", req.Key).Msg("Failed to create field")
		http.Error(w, "Failed to create field", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, field); err != nil {
		logger.Error().Err(err).Str("key", req.Key).Msg("Failed to write field response")
	}
}

// GET /api/v1/divisions/{division}/availability
func HandleRulesList(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	rules, err := database.Queries.ListAvailabilityRulesByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list availability rules")
		http.Error(w, "Failed to list availability rules", http.StatusInternalServerError)
		return
	}
	exceptions, err := database.Queries.ListAvailabilityExceptionsByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list availability exceptions")
		http.Error(w, "Failed to list availability exceptions", http.StatusInternalServerError)
		return
	}
	blackouts, err := database.Queries.ListBlackoutDatesByDivision(ctx, division)
	if err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to list blackout dates")
		http.Error(w, "Failed to list blackout dates", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"division":   division,
		"rules":      rules,
		"exceptions": exceptions,
		"blackouts":  blackouts,
	}); err != nil {
		logger.Error().Err(err).Str("division", division).Msg("Failed to write availability response")
	}
}

// POST /api/v1/divisions/{division}/availability
func HandleRuleCreate(w http.ResponseWriter, r *http.Request) {
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

	var req ruleRequest
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
	weekdays, err := encodeWeekdays(req.Weekdays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fieldKey := strings.TrimSpace(req.FieldKey)
	if fieldKey == "" {
		http.Error(w, apiutil.FieldError{Field: "fieldKey", Reason: "is required"}.Error(), http.StatusBadRequest)
		return
	}
	recurrence := strings.TrimSpace(req.Recurrence)
	if recurrence == "" {
		recurrence = "weekly"
	}
	if recurrence != "weekly" {
		http.Error(w, apiutil.FieldError{Field: "recurrence", Reason: "must be weekly"}.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	rule, err := database.Queries.CreateAvailabilityRule(ctx, store.CreateAvailabilityRuleParams{
		FieldKey:   fieldKey,
		Division:   division,
		StartDate:  startDate,
		EndDate:    endDate,
		Weekdays:   weekdays,
		StartTime:  startTime,
		EndTime:    endTime,
		Recurrence: recurrence,
	})
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Field not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Str("division", division).Str("field_key", fieldKey).Msg("Failed to create availability rule")
		http.Error(w, "Failed to create availability rule", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, rule); err != nil {
		logger.Error().Err(err).Int64("rule_id", rule.ID).Msg("Failed to write rule response")
	}
}

// DELETE /api/v1/availability/{id}
func HandleRuleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ruleID, err := apiutil.IDFromRequest(r, "id")
	if err != nil {
		http.Error(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	affected, err := database.Queries.DeleteAvailabilityRule(ctx, ruleID)
	if err != nil {
		logger.Error().Err(err).Int64("rule_id", ruleID).Msg("Failed to delete availability rule")
		http.Error(w, "Failed to delete availability rule", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Rule not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": ruleID}); err != nil {
		logger.Error().Err(err).Int64("rule_id", ruleID).Msg("Failed to write rule delete response")
	}
}

// POST /api/v1/availability/exceptions
func HandleExceptionCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req exceptionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RuleID <= 0 {
		http.Error(w, apiutil.FieldError{Field: "ruleId", Reason: "is required"}.Error(), http.StatusBadRequest)
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

	// Times are optional as a pair. Absent means the whole day is blocked.
	var startTime, endTime sql.NullString
	if req.StartTime != "" || req.EndTime != "" {
		parsedStart, err := apiutil.ParseTimeField(req.StartTime, "startTime")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		parsedEnd, err := apiutil.ParseTimeField(req.EndTime, "endTime")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if parsedStart >= parsedEnd {
			http.Error(w, "startTime must be before endTime", http.StatusBadRequest)
			return
		}
		startTime = sql.NullString{String: parsedStart, Valid: true}
		endTime = sql.NullString{String: parsedEnd, Valid: true}
	}

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	exception, err := database.Queries.CreateAvailabilityException(ctx, store.CreateAvailabilityExceptionParams{
		RuleID:    req.RuleID,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Rule not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("rule_id", req.RuleID).Msg("Failed to create availability exception")
		http.Error(w, "Failed to create availability exception", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, exception); err != nil {
		logger.Error().Err(err).Int64("exception_id", exception.ID).Msg("Failed to write exception response")
	}
}

// POST /api/v1/blackouts
func HandleBlackoutCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req blackoutRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), availQueryTimeout)
	defer cancel()

	blackout, err := database.Queries.CreateBlackoutDate(ctx, store.CreateBlackoutDateParams{
		Division:  apiutil.ToNullString(req.Division),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    apiutil.ToNullString(req.Reason),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create blackout date")
		http.Error(w, "Failed to create blackout date", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, blackout); err != nil {
		logger.Error().Err(err).Int64("blackout_id", blackout.ID).Msg("Failed to write blackout response")
	}
}

// encodeWeekdays validates the request weekdays and renders the stored CSV
// form (0=Sunday).
func encodeWeekdays(weekdays []int) (string, error) {
	if len(weekdays) == 0 {
		return "", apiutil.FieldError{Field: "weekdays", Reason: "is required"}
	}
	parts := make([]string, 0, len(weekdays))
	seen := make(map[int]bool, len(weekdays))
	for _, day := range weekdays {
		if day < 0 || day > 6 {
			return "", apiutil.FieldError{Field: "weekdays", Reason: "must be between 0 and 6"}
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ","), nil
}
