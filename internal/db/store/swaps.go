package store

import (
	"context"
	"database/sql"
	"time"
)

// Swap request statuses.
const (
	SwapStatusPending  = "pending"
	SwapStatusAccepted = "accepted"
	SwapStatusDeclined = "declined"
	SwapStatusExpired  = "expired"
)

const createSwapRequest = `
INSERT INTO swap_requests (slot_id, requesting_team_id, offering_team_id, message)
VALUES (?, ?, ?, ?)
RETURNING id, slot_id, requesting_team_id, offering_team_id, status, message, created_at, resolved_at
`

type CreateSwapRequestParams struct {
	SlotID           int64
	RequestingTeamID int64
	OfferingTeamID   int64
	Message          sql.NullString
}

func (q *Queries) CreateSwapRequest(ctx context.Context, arg CreateSwapRequestParams) (SwapRequest, error) {
	row := q.db.QueryRowContext(ctx, createSwapRequest,
		arg.SlotID, arg.RequestingTeamID, arg.OfferingTeamID, arg.Message)
	return scanSwapRequest(row)
}

const getSwapRequest = `
SELECT id, slot_id, requesting_team_id, offering_team_id, status, message, created_at, resolved_at
FROM swap_requests WHERE id = ?
`

func (q *Queries) GetSwapRequest(ctx context.Context, id int64) (SwapRequest, error) {
	return scanSwapRequest(q.db.QueryRowContext(ctx, getSwapRequest, id))
}

const listPendingSwapRequests = `
SELECT id, slot_id, requesting_team_id, offering_team_id, status, message, created_at, resolved_at
FROM swap_requests WHERE status = 'pending'
ORDER BY created_at
`

func (q *Queries) ListPendingSwapRequests(ctx context.Context) ([]SwapRequest, error) {
	rows, err := q.db.QueryContext(ctx, listPendingSwapRequests)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var requests []SwapRequest
	for rows.Next() {
		var s SwapRequest
		if err := rows.Scan(&s.ID, &s.SlotID, &s.RequestingTeamID, &s.OfferingTeamID,
			&s.Status, &s.Message, &s.CreatedAt, &s.ResolvedAt); err != nil {
			return nil, err
		}
		requests = append(requests, s)
	}
	return requests, rows.Err()
}

const listPendingSwapRequestsBySlot = `
SELECT id, slot_id, requesting_team_id, offering_team_id, status, message, created_at, resolved_at
FROM swap_requests WHERE slot_id = ? AND status = 'pending'
ORDER BY created_at
`

func (q *Queries) ListPendingSwapRequestsBySlot(ctx context.Context, slotID int64) ([]SwapRequest, error) {
	rows, err := q.db.QueryContext(ctx, listPendingSwapRequestsBySlot, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var requests []SwapRequest
	for rows.Next() {
		var s SwapRequest
		if err := rows.Scan(&s.ID, &s.SlotID, &s.RequestingTeamID, &s.OfferingTeamID,
			&s.Status, &s.Message, &s.CreatedAt, &s.ResolvedAt); err != nil {
			return nil, err
		}
		requests = append(requests, s)
	}
	return requests, rows.Err()
}

const resolveSwapRequest = `
UPDATE swap_requests SET status = ?, resolved_at = ?
WHERE id = ? AND status = 'pending'
RETURNING id, slot_id, requesting_team_id, offering_team_id, status, message, created_at, resolved_at
`

type ResolveSwapRequestParams struct {
	ID         int64
	Status     string
	ResolvedAt time.Time
}

// ResolveSwapRequest transitions a pending request to a terminal status.
// Returns sql.ErrNoRows when the request is missing or already resolved.
func (q *Queries) ResolveSwapRequest(ctx context.Context, arg ResolveSwapRequestParams) (SwapRequest, error) {
	row := q.db.QueryRowContext(ctx, resolveSwapRequest, arg.Status, arg.ResolvedAt, arg.ID)
	return scanSwapRequest(row)
}

const expirePendingSwapRequestsBefore = `
UPDATE swap_requests SET status = 'expired', resolved_at = ?
WHERE status = 'pending'
  AND slot_id IN (SELECT id FROM slots WHERE game_date < ?)
`

// ExpirePendingSwapRequestsBefore expires pending requests whose slot's game
// date has already passed.
func (q *Queries) ExpirePendingSwapRequestsBefore(ctx context.Context, date string, resolvedAt time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, expirePendingSwapRequestsBefore, resolvedAt, date)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSwapRequest(row *sql.Row) (SwapRequest, error) {
	var s SwapRequest
	err := row.Scan(&s.ID, &s.SlotID, &s.RequestingTeamID, &s.OfferingTeamID,
		&s.Status, &s.Message, &s.CreatedAt, &s.ResolvedAt)
	return s, err
}
