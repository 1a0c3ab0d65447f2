package store

import (
	"context"
	"database/sql"
)

const createGame = `
INSERT INTO games (slot_id, division, game_date, start_time, end_time, field_key, home_team_code, away_team_code, is_external)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, slot_id, division, game_date, start_time, end_time, field_key, home_team_code, away_team_code, is_external, created_at
`

type CreateGameParams struct {
	SlotID       sql.NullInt64
	Division     string
	GameDate     string
	StartTime    string
	EndTime      string
	FieldKey     string
	HomeTeamCode string
	AwayTeamCode sql.NullString
	IsExternal   bool
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, createGame,
		arg.SlotID, arg.Division, arg.GameDate, arg.StartTime, arg.EndTime,
		arg.FieldKey, arg.HomeTeamCode, arg.AwayTeamCode, arg.IsExternal)
	var g Game
	err := row.Scan(&g.ID, &g.SlotID, &g.Division, &g.GameDate, &g.StartTime, &g.EndTime,
		&g.FieldKey, &g.HomeTeamCode, &g.AwayTeamCode, &g.IsExternal, &g.CreatedAt)
	return g, err
}

const listGamesByDivision = `
SELECT id, slot_id, division, game_date, start_time, end_time, field_key, home_team_code, away_team_code, is_external, created_at
FROM games WHERE division = ?
ORDER BY game_date, start_time, field_key
`

func (q *Queries) ListGamesByDivision(ctx context.Context, division string) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listGamesByDivision, division)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.SlotID, &g.Division, &g.GameDate, &g.StartTime, &g.EndTime,
			&g.FieldKey, &g.HomeTeamCode, &g.AwayTeamCode, &g.IsExternal, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

const deleteGamesByDivision = `
DELETE FROM games WHERE division = ?
`

func (q *Queries) DeleteGamesByDivision(ctx context.Context, division string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteGamesByDivision, division)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
