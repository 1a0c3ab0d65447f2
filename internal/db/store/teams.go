package store

import (
	"context"
	"database/sql"
)

const createTeam = `
INSERT INTO teams (division, code, name, contact_email)
VALUES (?, ?, ?, ?)
RETURNING id, division, code, name, contact_email, created_at
`

type CreateTeamParams struct {
	Division     string
	Code         string
	Name         string
	ContactEmail sql.NullString
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, createTeam, arg.Division, arg.Code, arg.Name, arg.ContactEmail)
	var t Team
	err := row.Scan(&t.ID, &t.Division, &t.Code, &t.Name, &t.ContactEmail, &t.CreatedAt)
	return t, err
}

const getTeam = `
SELECT id, division, code, name, contact_email, created_at
FROM teams WHERE id = ?
`

func (q *Queries) GetTeam(ctx context.Context, id int64) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var t Team
	err := row.Scan(&t.ID, &t.Division, &t.Code, &t.Name, &t.ContactEmail, &t.CreatedAt)
	return t, err
}

const getTeamByCode = `
SELECT id, division, code, name, contact_email, created_at
FROM teams WHERE code = ?
`

func (q *Queries) GetTeamByCode(ctx context.Context, code string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeamByCode, code)
	var t Team
	err := row.Scan(&t.ID, &t.Division, &t.Code, &t.Name, &t.ContactEmail, &t.CreatedAt)
	return t, err
}

const listTeamsByDivision = `
SELECT id, division, code, name, contact_email, created_at
FROM teams WHERE division = ?
ORDER BY code
`

func (q *Queries) ListTeamsByDivision(ctx context.Context, division string) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeamsByDivision, division)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Division, &t.Code, &t.Name, &t.ContactEmail, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

const updateTeam = `
UPDATE teams SET name = ?, contact_email = ?
WHERE id = ?
RETURNING id, division, code, name, contact_email, created_at
`

type UpdateTeamParams struct {
	ID           int64
	Name         string
	ContactEmail sql.NullString
}

func (q *Queries) UpdateTeam(ctx context.Context, arg UpdateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, updateTeam, arg.Name, arg.ContactEmail, arg.ID)
	var t Team
	err := row.Scan(&t.ID, &t.Division, &t.Code, &t.Name, &t.ContactEmail, &t.CreatedAt)
	return t, err
}

const deleteTeam = `
DELETE FROM teams WHERE id = ?
`

func (q *Queries) DeleteTeam(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTeam, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
