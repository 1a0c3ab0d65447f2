package schedules

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agsasoftball/fieldtime/internal/config"
	appdb "github.com/agsasoftball/fieldtime/internal/db"
	"github.com/agsasoftball/fieldtime/internal/db/store"
	"github.com/agsasoftball/fieldtime/internal/schedule"
	"github.com/agsasoftball/fieldtime/internal/testutil"
)

func setupHandlers(t *testing.T) *appdb.DB {
	t.Helper()
	database := testutil.NewTestDB(t)
	InitHandlers(database, config.ScheduleConfig{
		GameLengthMinutes: 75,
		MaxGamesPerWeek:   2,
		NoDoubleHeaders:   true,
		BalanceHomeAway:   true,
	})
	return database
}

func seedDivision(t *testing.T, database *appdb.DB) {
	t.Helper()
	ctx := context.Background()

	if _, err := database.Queries.CreateField(ctx, store.CreateFieldParams{Key: "riverside-1", Name: "Riverside 1"}); err != nil {
		t.Fatalf("create field: %v", err)
	}
	for code, name := range map[string]string{"TIGERS": "Tigers", "HORNETS": "Hornets"} {
		if _, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
			Division: "10U",
			Code:     code,
			Name:     name,
		}); err != nil {
			t.Fatalf("create team %s: %v", code, err)
		}
	}
	slotSpecs := []struct{ date, start, end string }{
		{"2026-04-06", "09:00", "10:15"},
		{"2026-04-13", "09:00", "10:15"},
	}
	for _, spec := range slotSpecs {
		if _, err := database.Queries.CreateSlot(ctx, store.CreateSlotParams{
			Division:  "10U",
			FieldKey:  "riverside-1",
			GameDate:  spec.date,
			StartTime: spec.start,
			EndTime:   spec.end,
			GameType:  "Regular",
			Status:    store.SlotStatusOpen,
		}); err != nil {
			t.Fatalf("create slot %s: %v", spec.date, err)
		}
	}
}

func doScheduleRequest(t *testing.T, handler http.HandlerFunc, method, target, division string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetPathValue("division", division)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestScheduleGeneratePersistsGamesAndSlotStatuses(t *testing.T) {
	database := setupHandlers(t)
	seedDivision(t, database)
	ctx := context.Background()

	w := doScheduleRequest(t, HandleScheduleGenerate, http.MethodPost, "/api/v1/divisions/10U/schedule/generate", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Division string           `json:"division"`
		Result   schedule.Result  `json:"result"`
		Issues   []schedule.Issue `json:"issues"`
		Saved    bool             `json:"saved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Saved {
		t.Error("expected saved = true")
	}
	if len(resp.Result.Assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(resp.Result.Assignments))
	}

	games, err := database.Queries.ListGamesByDivision(ctx, "10U")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("persisted games = %d, want 1", len(games))
	}
	game := games[0]
	teams := map[string]bool{game.HomeTeamCode: true, game.AwayTeamCode.String: true}
	if !teams["TIGERS"] || !teams["HORNETS"] {
		t.Errorf("unexpected pairing: home=%s away=%s", game.HomeTeamCode, game.AwayTeamCode.String)
	}

	slots, err := database.Queries.ListSlotsByDivision(ctx, "10U")
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	statusCounts := map[string]int{}
	for _, slot := range slots {
		statusCounts[slot.Status]++
	}
	if statusCounts[store.SlotStatusMatched] != 1 {
		t.Errorf("matched slots = %d, want 1", statusCounts[store.SlotStatusMatched])
	}
	if statusCounts[store.SlotStatusUnassigned] != 1 {
		t.Errorf("unassigned slots = %d, want 1", statusCounts[store.SlotStatusUnassigned])
	}
}

func TestSchedulePreviewLeavesStoreUntouched(t *testing.T) {
	database := setupHandlers(t)
	seedDivision(t, database)
	ctx := context.Background()

	w := doScheduleRequest(t, HandleSchedulePreview, http.MethodPost, "/api/v1/divisions/10U/schedule/preview", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	games, err := database.Queries.ListGamesByDivision(ctx, "10U")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("preview persisted %d games", len(games))
	}
	slots, err := database.Queries.ListSlotsByDivision(ctx, "10U")
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	for _, slot := range slots {
		if slot.Status != store.SlotStatusOpen {
			t.Errorf("slot %d status = %s, want Open", slot.ID, slot.Status)
		}
	}
}

func TestScheduleGenerateConstraintOverrides(t *testing.T) {
	database := setupHandlers(t)
	seedDivision(t, database)

	body := `{"maxGamesPerWeek": 1, "noDoubleHeaders": false}`
	w := doScheduleRequest(t, HandleSchedulePreview, http.MethodPost, "/api/v1/divisions/10U/schedule/preview", "10U", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doScheduleRequest(t, HandleSchedulePreview, http.MethodPost, "/api/v1/divisions/10U/schedule/preview", "10U", `{"unknownField": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", w.Code)
	}
}

func TestScheduleBuildRejectsSmallRoster(t *testing.T) {
	database := setupHandlers(t)
	ctx := context.Background()
	if _, err := database.Queries.CreateTeam(ctx, store.CreateTeamParams{
		Division: "12U",
		Code:     "SOLO",
		Name:     "Solo",
	}); err != nil {
		t.Fatalf("create team: %v", err)
	}

	w := doScheduleRequest(t, HandleScheduleGenerate, http.MethodPost, "/api/v1/divisions/12U/schedule/generate", "12U", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestScheduleValidateEmptySchedule(t *testing.T) {
	setupHandlers(t)

	w := doScheduleRequest(t, HandleScheduleValidate, http.MethodGet, "/api/v1/divisions/10U/schedule/validate", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Division string           `json:"division"`
		Issues   []schedule.Issue `json:"issues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Issues == nil {
		t.Error("issues should be an empty array, not null")
	}
}

func TestFeasibilityUsesOpenSlotCount(t *testing.T) {
	database := setupHandlers(t)
	seedDivision(t, database)

	body := `{"minGamesPerTeam": 1, "seasonWeeks": 4}`
	w := doScheduleRequest(t, HandleFeasibility, http.MethodPost, "/api/v1/divisions/10U/schedule/feasibility", "10U", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Division    string                     `json:"division"`
		Feasibility schedule.FeasibilityResult `json:"feasibility"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Feasibility.RegularFeasible {
		t.Errorf("expected feasible season: %+v", resp.Feasibility)
	}
	if resp.Feasibility.Capacity.AvailableSlots != 2 {
		t.Errorf("available slots = %d, want 2 (open slot count)", resp.Feasibility.Capacity.AvailableSlots)
	}
	if resp.Feasibility.Capacity.RequiredSlots != 1 {
		t.Errorf("required slots = %d, want 1", resp.Feasibility.Capacity.RequiredSlots)
	}
}

func TestScheduleExportCSV(t *testing.T) {
	database := setupHandlers(t)
	seedDivision(t, database)

	w := doScheduleRequest(t, HandleScheduleGenerate, http.MethodPost, "/api/v1/divisions/10U/schedule/generate", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("generate status = %d", w.Code)
	}

	w = doScheduleRequest(t, HandleScheduleExport, http.MethodGet, "/api/v1/divisions/10U/schedule/export", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one game, got %d lines:\n%s", len(lines), w.Body.String())
	}
	if !strings.HasPrefix(lines[0], "division,gameDate") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "riverside-1") {
		t.Errorf("game row missing field key: %s", lines[1])
	}
}

func TestScheduleExportFormats(t *testing.T) {
	database := setupHandlers(t)
	seedDivision(t, database)

	w := doScheduleRequest(t, HandleScheduleGenerate, http.MethodPost, "/api/v1/divisions/10U/schedule/generate", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("generate status = %d", w.Code)
	}

	w = doScheduleRequest(t, HandleScheduleExport, http.MethodGet, "/api/v1/divisions/10U/schedule/export?format=leaguelobster", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("leaguelobster export status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "Date,Start Time,End Time,Division") {
		t.Errorf("unexpected leaguelobster header:\n%s", w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "leaguelobster") {
		t.Errorf("content disposition = %q, want format in filename", cd)
	}

	w = doScheduleRequest(t, HandleScheduleExport, http.MethodGet, "/api/v1/divisions/10U/schedule/export?format=gamechanger", "10U", "")
	if w.Code != http.StatusOK {
		t.Fatalf("gamechanger export status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "Date,Time,Duration (Minutes)") {
		t.Errorf("unexpected gamechanger header:\n%s", w.Body.String())
	}

	w = doScheduleRequest(t, HandleScheduleExport, http.MethodGet, "/api/v1/divisions/10U/schedule/export?format=fax", "10U", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", w.Code)
	}
}
