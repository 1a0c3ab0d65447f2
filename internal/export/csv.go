// Package export reads and writes the league's CSV interchange formats: the
// legacy slot-offer import and the schedule/slot exports handed to division
// coordinators.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// SlotImportRow is one parsed line of the legacy slot-offer CSV. Column
// order: division, offeringTeamCode, gameDate, startTime, endTime, fieldKey,
// gameType, status, notes. The last three columns are optional.
type SlotImportRow struct {
	Line             int
	Division         string
	OfferingTeamCode string
	GameDate         string
	StartTime        string
	EndTime          string
	FieldKey         string
	GameType         string
	Status           string
	Notes            string
}

// RowError reports a rejected import line.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseSlotImport reads the legacy slot CSV. A header row is detected by the
// literal "division" in the first column and skipped. Malformed lines are
// collected as RowErrors rather than aborting the import.
func ParseSlotImport(r io.Reader) ([]SlotImportRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []SlotImportRow
	var rowErrors []RowError
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "division") {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		row, err := parseSlotRecord(line, record)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func parseSlotRecord(line int, record []string) (SlotImportRow, error) {
	if len(record) < 6 {
		return SlotImportRow{}, fmt.Errorf("expected at least 6 columns, got %d", len(record))
	}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	row := SlotImportRow{
		Line:             line,
		Division:         record[0],
		OfferingTeamCode: record[1],
		GameDate:         record[2],
		StartTime:        record[3],
		EndTime:          record[4],
		FieldKey:         record[5],
		GameType:         "Regular",
		Status:           "Open",
	}
	if len(record) > 6 && record[6] != "" {
		row.GameType = record[6]
	}
	if len(record) > 7 && record[7] != "" {
		row.Status = record[7]
	}
	if len(record) > 8 {
		row.Notes = record[8]
	}

	if row.Division == "" {
		return SlotImportRow{}, fmt.Errorf("division is required")
	}
	if row.FieldKey == "" {
		return SlotImportRow{}, fmt.Errorf("fieldKey is required")
	}
	if _, err := time.Parse(dateLayout, row.GameDate); err != nil {
		return SlotImportRow{}, fmt.Errorf("gameDate %q is not a YYYY-MM-DD date", row.GameDate)
	}
	start, err := time.Parse(timeLayout, row.StartTime)
	if err != nil {
		return SlotImportRow{}, fmt.Errorf("startTime %q is not an HH:MM time", row.StartTime)
	}
	end, err := time.Parse(timeLayout, row.EndTime)
	if err != nil {
		return SlotImportRow{}, fmt.Errorf("endTime %q is not an HH:MM time", row.EndTime)
	}
	if !start.Before(end) {
		return SlotImportRow{}, fmt.Errorf("startTime must be before endTime")
	}

	return row, nil
}

// ScheduleRow is one exported game.
type ScheduleRow struct {
	Division   string
	GameDate   string
	StartTime  string
	EndTime    string
	FieldKey   string
	HomeTeam   string
	AwayTeam   string
	IsExternal bool
}

// WriteScheduleCSV writes games in the coordinator-facing schedule layout.
func WriteScheduleCSV(w io.Writer, rows []ScheduleRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"division", "gameDate", "startTime", "endTime", "fieldKey", "homeTeam", "awayTeam", "isExternal"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Division,
			row.GameDate,
			row.StartTime,
			row.EndTime,
			row.FieldKey,
			row.HomeTeam,
			row.AwayTeam,
			strconv.FormatBool(row.IsExternal),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteLeagueLobsterCSV writes games in the layout LeagueLobster's schedule
// importer accepts: US dates, 12-hour clock times, one row per game. External
// offers have no opponent and export with an empty away team.
func WriteLeagueLobsterCSV(w io.Writer, rows []ScheduleRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Start Time", "End Time", "Division", "Home Team", "Away Team", "Location"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			usDate(row.GameDate),
			clock12(row.StartTime),
			clock12(row.EndTime),
			row.Division,
			row.HomeTeam,
			row.AwayTeam,
			row.FieldKey,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteGameChangerCSV writes games in the layout the GameChanger season
// importer accepts. Scorekeepers only track played games, so external offers
// are skipped.
func WriteGameChangerCSV(w io.Writer, rows []ScheduleRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Time", "Duration (Minutes)", "Home Team", "Away Team", "Location"}); err != nil {
		return err
	}
	for _, row := range rows {
		if row.IsExternal {
			continue
		}
		record := []string{
			usDate(row.GameDate),
			clock12(row.StartTime),
			durationMinutes(row.StartTime, row.EndTime),
			row.HomeTeam,
			row.AwayTeam,
			row.FieldKey,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// usDate converts a YYYY-MM-DD date to MM/DD/YYYY, passing malformed values
// through untouched.
func usDate(iso string) string {
	t, err := time.Parse(dateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("01/02/2006")
}

func clock12(hhmm string) string {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

func durationMinutes(start, end string) string {
	s, errStart := time.Parse(timeLayout, start)
	e, errEnd := time.Parse(timeLayout, end)
	if errStart != nil || errEnd != nil || !s.Before(e) {
		return ""
	}
	return strconv.Itoa(int(e.Sub(s).Minutes()))
}

// SlotRow is one exported slot offer.
type SlotRow struct {
	Division         string
	OfferingTeamCode string
	GameDate         string
	StartTime        string
	EndTime          string
	FieldKey         string
	GameType         string
	Status           string
	Notes            string
}

// WriteSlotsCSV writes slots in the same layout the import accepts, so an
// exported file can be edited and re-imported.
func WriteSlotsCSV(w io.Writer, rows []SlotRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"division", "offeringTeamCode", "gameDate", "startTime", "endTime", "fieldKey", "gameType", "status", "notes"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Division,
			row.OfferingTeamCode,
			row.GameDate,
			row.StartTime,
			row.EndTime,
			row.FieldKey,
			row.GameType,
			row.Status,
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
