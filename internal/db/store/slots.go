package store

import (
	"context"
	"database/sql"
)

// Slot lifecycle statuses.
const (
	SlotStatusOpen       = "Open"
	SlotStatusMatched    = "Matched"
	SlotStatusExternal   = "External"
	SlotStatusUnassigned = "Unassigned"
)

const createSlot = `
INSERT INTO slots (division, field_key, game_date, start_time, end_time, offering_team_id, game_type, status, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, division, field_key, game_date, start_time, end_time, offering_team_id, game_type, status, notes, created_at
`

type CreateSlotParams struct {
	Division       string
	FieldKey       string
	GameDate       string
	StartTime      string
	EndTime        string
	OfferingTeamID sql.NullInt64
	GameType       string
	Status         string
	Notes          sql.NullString
}

func (q *Queries) CreateSlot(ctx context.Context, arg CreateSlotParams) (Slot, error) {
	row := q.db.QueryRowContext(ctx, createSlot,
		arg.Division, arg.FieldKey, arg.GameDate, arg.StartTime, arg.EndTime,
		arg.OfferingTeamID, arg.GameType, arg.Status, arg.Notes)
	return scanSlot(row)
}

const getSlot = `
SELECT id, division, field_key, game_date, start_time, end_time, offering_team_id, game_type, status, notes, created_at
FROM slots WHERE id = ?
`

func (q *Queries) GetSlot(ctx context.Context, id int64) (Slot, error) {
	return scanSlot(q.db.QueryRowContext(ctx, getSlot, id))
}

const listSlotsByDivision = `
SELECT id, division, field_key, game_date, start_time, end_time, offering_team_id, game_type, status, notes, created_at
FROM slots WHERE division = ?
ORDER BY game_date, start_time, field_key
`

func (q *Queries) ListSlotsByDivision(ctx context.Context, division string) ([]Slot, error) {
	rows, err := q.db.QueryContext(ctx, listSlotsByDivision, division)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

const listSlotsByDivisionAndStatus = `
SELECT id, division, field_key, game_date, start_time, end_time, offering_team_id, game_type, status, notes, created_at
FROM slots WHERE division = ? AND status = ?
ORDER BY game_date, start_time, field_key
`

type ListSlotsByDivisionAndStatusParams struct {
	Division string
	Status   string
}

func (q *Queries) ListSlotsByDivisionAndStatus(ctx context.Context, arg ListSlotsByDivisionAndStatusParams) ([]Slot, error) {
	rows, err := q.db.QueryContext(ctx, listSlotsByDivisionAndStatus, arg.Division, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

const updateSlotStatus = `
UPDATE slots SET status = ? WHERE id = ?
`

type UpdateSlotStatusParams struct {
	ID     int64
	Status string
}

func (q *Queries) UpdateSlotStatus(ctx context.Context, arg UpdateSlotStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSlotStatus, arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resetSlotStatusesByDivision = `
UPDATE slots SET status = ? WHERE division = ?
`

// ResetSlotStatusesByDivision returns every slot in the division to the given
// status before a schedule rebuild.
func (q *Queries) ResetSlotStatusesByDivision(ctx context.Context, division, status string) (int64, error) {
	result, err := q.db.ExecContext(ctx, resetSlotStatusesByDivision, status, division)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateSlotOfferingTeam = `
UPDATE slots SET offering_team_id = ? WHERE id = ?
`

type UpdateSlotOfferingTeamParams struct {
	ID             int64
	OfferingTeamID sql.NullInt64
}

func (q *Queries) UpdateSlotOfferingTeam(ctx context.Context, arg UpdateSlotOfferingTeamParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSlotOfferingTeam, arg.OfferingTeamID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSlot = `
DELETE FROM slots WHERE id = ?
`

func (q *Queries) DeleteSlot(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSlot, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSlot(row *sql.Row) (Slot, error) {
	var s Slot
	err := row.Scan(&s.ID, &s.Division, &s.FieldKey, &s.GameDate, &s.StartTime, &s.EndTime,
		&s.OfferingTeamID, &s.GameType, &s.Status, &s.Notes, &s.CreatedAt)
	return s, err
}

func scanSlots(rows *sql.Rows) ([]Slot, error) {
	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.Division, &s.FieldKey, &s.GameDate, &s.StartTime, &s.EndTime,
			&s.OfferingTeamID, &s.GameType, &s.Status, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
