package export

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestParseSlotImportSkipsHeaderAndDefaults(t *testing.T) {
	input := strings.Join([]string{
		"division,offeringTeamCode,gameDate,startTime,endTime,fieldKey,gameType,status,notes",
		"10U,TIGERS,2026-04-11,09:00,10:15,riverside-1",
		"10U,,2026-04-11,10:30,11:45,riverside-1,Pool,Open,back field",
	}, "\n")

	rows, rowErrors, err := ParseSlotImport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSlotImport: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Line != 2 {
		t.Errorf("first row line = %d, want 2", first.Line)
	}
	if first.OfferingTeamCode != "TIGERS" {
		t.Errorf("offering team = %q, want TIGERS", first.OfferingTeamCode)
	}
	if first.GameType != "Regular" || first.Status != "Open" {
		t.Errorf("defaults not applied: gameType=%q status=%q", first.GameType, first.Status)
	}

	second := rows[1]
	if second.OfferingTeamCode != "" {
		t.Errorf("expected empty offering team, got %q", second.OfferingTeamCode)
	}
	if second.GameType != "Pool" {
		t.Errorf("gameType = %q, want Pool", second.GameType)
	}
	if second.Notes != "back field" {
		t.Errorf("notes = %q, want %q", second.Notes, "back field")
	}
}

func TestParseSlotImportCollectsRowErrors(t *testing.T) {
	input := strings.Join([]string{
		"10U,TIGERS,2026-04-11,09:00,10:15,riverside-1",
		"10U,TIGERS,not-a-date,09:00,10:15,riverside-1",
		"10U,TIGERS,2026-04-11,11:00,10:15,riverside-1",
		"10U,TIGERS,2026-04-11",
		"10U,TIGERS,2026-04-11,09:00,10:15,riverside-2",
	}, "\n")

	rows, rowErrors, err := ParseSlotImport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSlotImport: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 accepted rows, got %d", len(rows))
	}
	if len(rowErrors) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %v", len(rowErrors), rowErrors)
	}

	wantLines := []int{2, 3, 4}
	for i, rowErr := range rowErrors {
		if rowErr.Line != wantLines[i] {
			t.Errorf("row error %d line = %d, want %d", i, rowErr.Line, wantLines[i])
		}
		if rowErr.Message == "" {
			t.Errorf("row error %d has empty message", i)
		}
	}
}

func TestParseSlotImportEmptyInput(t *testing.T) {
	rows, rowErrors, err := ParseSlotImport(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseSlotImport: %v", err)
	}
	if len(rows) != 0 || len(rowErrors) != 0 {
		t.Errorf("expected no rows and no errors, got %d rows %d errors", len(rows), len(rowErrors))
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteScheduleCSV(&buf, []ScheduleRow{
		{
			Division:  "10U",
			GameDate:  "2026-04-11",
			StartTime: "09:00",
			EndTime:   "10:15",
			FieldKey:  "riverside-1",
			HomeTeam:  "TIGERS",
			AwayTeam:  "HORNETS",
		},
		{
			Division:   "10U",
			GameDate:   "2026-04-11",
			StartTime:  "10:30",
			EndTime:    "11:45",
			FieldKey:   "riverside-1",
			HomeTeam:   "BEARS",
			IsExternal: true,
		},
	})
	if err != nil {
		t.Fatalf("WriteScheduleCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "division,gameDate,startTime,endTime,fieldKey,homeTeam,awayTeam,isExternal" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "10U,2026-04-11,09:00,10:15,riverside-1,TIGERS,HORNETS,false" {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if lines[2] != "10U,2026-04-11,10:30,11:45,riverside-1,BEARS,,true" {
		t.Errorf("unexpected external row: %s", lines[2])
	}
}

func TestWriteSlotsCSVRoundTripsThroughImport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSlotsCSV(&buf, []SlotRow{
		{
			Division:         "12U",
			OfferingTeamCode: "OWLS",
			GameDate:         "2026-05-02",
			StartTime:        "13:00",
			EndTime:          "14:15",
			FieldKey:         "eastside-2",
			GameType:         "Regular",
			Status:           "Open",
			Notes:            "turf",
		},
	})
	if err != nil {
		t.Fatalf("WriteSlotsCSV: %v", err)
	}

	rows, rowErrors, err := ParseSlotImport(&buf)
	if err != nil {
		t.Fatalf("ParseSlotImport: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrors)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Division != "12U" || row.OfferingTeamCode != "OWLS" || row.FieldKey != "eastside-2" {
		t.Errorf("round trip mismatch: %+v", row)
	}
	if row.Notes != "turf" {
		t.Errorf("notes = %q, want turf", row.Notes)
	}
}

func TestScheduleExportLayouts(t *testing.T) {
	rows := []ScheduleRow{
		{
			Division:  "10U",
			GameDate:  "2026-04-11",
			StartTime: "09:00",
			EndTime:   "10:15",
			FieldKey:  "riverside-1",
			HomeTeam:  "TIGERS",
			AwayTeam:  "HORNETS",
		},
		{
			Division:   "10U",
			GameDate:   "2026-04-11",
			StartTime:  "14:30",
			EndTime:    "15:45",
			FieldKey:   "riverside-2",
			HomeTeam:   "BEARS",
			IsExternal: true,
		},
	}

	tests := []struct {
		name  string
		write func(io.Writer, []ScheduleRow) error
		want  []string
	}{
		{
			name:  "leaguelobster",
			write: WriteLeagueLobsterCSV,
			want: []string{
				"Date,Start Time,End Time,Division,Home Team,Away Team,Location",
				"04/11/2026,9:00 AM,10:15 AM,10U,TIGERS,HORNETS,riverside-1",
				"04/11/2026,2:30 PM,3:45 PM,10U,BEARS,,riverside-2",
			},
		},
		{
			name:  "gamechanger",
			write: WriteGameChangerCSV,
			want: []string{
				"Date,Time,Duration (Minutes),Home Team,Away Team,Location",
				"04/11/2026,9:00 AM,75,TIGERS,HORNETS,riverside-1",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tc.write(&buf, rows); err != nil {
				t.Fatalf("write: %v", err)
			}
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			if len(lines) != len(tc.want) {
				t.Fatalf("expected %d lines, got %d:\n%s", len(tc.want), len(lines), buf.String())
			}
			for i, want := range tc.want {
				if lines[i] != want {
					t.Errorf("line %d = %q, want %q", i, lines[i], want)
				}
			}
		})
	}
}

func TestScheduleExportLayoutsPassMalformedValuesThrough(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLeagueLobsterCSV(&buf, []ScheduleRow{
		{Division: "10U", GameDate: "someday", StartTime: "early", EndTime: "late", FieldKey: "riverside-1", HomeTeam: "TIGERS", AwayTeam: "HORNETS"},
	})
	if err != nil {
		t.Fatalf("WriteLeagueLobsterCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "someday,early,late") {
		t.Errorf("malformed values not passed through:\n%s", buf.String())
	}
}
