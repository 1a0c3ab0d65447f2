package store

import (
	"context"
	"database/sql"
)

const createAvailabilityRule = `
INSERT INTO availability_rules (field_key, division, start_date, end_date, weekdays, start_time, end_time, recurrence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, field_key, division, start_date, end_date, weekdays, start_time, end_time, recurrence
`

type CreateAvailabilityRuleParams struct {
	FieldKey   string
	Division   string
	StartDate  string
	EndDate    string
	Weekdays   string
	StartTime  string
	EndTime    string
	Recurrence string
}

func (q *Queries) CreateAvailabilityRule(ctx context.Context, arg CreateAvailabilityRuleParams) (AvailabilityRule, error) {
	row := q.db.QueryRowContext(ctx, createAvailabilityRule,
		arg.FieldKey, arg.Division, arg.StartDate, arg.EndDate, arg.Weekdays, arg.StartTime, arg.EndTime, arg.Recurrence)
	var r AvailabilityRule
	err := row.Scan(&r.ID, &r.FieldKey, &r.Division, &r.StartDate, &r.EndDate, &r.Weekdays, &r.StartTime, &r.EndTime, &r.Recurrence)
	return r, err
}

const listAvailabilityRulesByDivision = `
SELECT id, field_key, division, start_date, end_date, weekdays, start_time, end_time, recurrence
FROM availability_rules WHERE division = ?
ORDER BY id
`

func (q *Queries) ListAvailabilityRulesByDivision(ctx context.Context, division string) ([]AvailabilityRule, error) {
	rows, err := q.db.QueryContext(ctx, listAvailabilityRulesByDivision, division)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rules []AvailabilityRule
	for rows.Next() {
		var r AvailabilityRule
		if err := rows.Scan(&r.ID, &r.FieldKey, &r.Division, &r.StartDate, &r.EndDate, &r.Weekdays, &r.StartTime, &r.EndTime, &r.Recurrence); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

const deleteAvailabilityRule = `
DELETE FROM availability_rules WHERE id = ?
`

func (q *Queries) DeleteAvailabilityRule(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAvailabilityRule, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createAvailabilityException = `
INSERT INTO availability_exceptions (rule_id, start_date, end_date, start_time, end_time)
VALUES (?, ?, ?, ?, ?)
RETURNING id, rule_id, start_date, end_date, start_time, end_time
`

type CreateAvailabilityExceptionParams struct {
	RuleID    int64
	StartDate string
	EndDate   string
	StartTime sql.NullString
	EndTime   sql.NullString
}

func (q *Queries) CreateAvailabilityException(ctx context.Context, arg CreateAvailabilityExceptionParams) (AvailabilityException, error) {
	row := q.db.QueryRowContext(ctx, createAvailabilityException,
		arg.RuleID, arg.StartDate, arg.EndDate, arg.StartTime, arg.EndTime)
	var e AvailabilityException
	err := row.Scan(&e.ID, &e.RuleID, &e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime)
	return e, err
}

const listAvailabilityExceptionsByDivision = `
SELECT e.id, e.rule_id, e.start_date, e.end_date, e.start_time, e.end_time
FROM availability_exceptions e
JOIN availability_rules r ON r.id = e.rule_id
WHERE r.division = ?
ORDER BY e.id
`

func (q *Queries) ListAvailabilityExceptionsByDivision(ctx context.Context, division string) ([]AvailabilityException, error) {
	rows, err := q.db.QueryContext(ctx, listAvailabilityExceptionsByDivision, division)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exceptions []AvailabilityException
	for rows.Next() {
		var e AvailabilityException
		if err := rows.Scan(&e.ID, &e.RuleID, &e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}

const createBlackoutDate = `
INSERT INTO blackout_dates (division, start_date, end_date, reason)
VALUES (?, ?, ?, ?)
RETURNING id, division, start_date, end_date, reason
`

type CreateBlackoutDateParams struct {
	Division  sql.NullString
	StartDate string
	EndDate   string
	Reason    sql.NullString
}

func (q *Queries) CreateBlackoutDate(ctx context.Context, arg CreateBlackoutDateParams) (BlackoutDate, error) {
	row := q.db.QueryRowContext(ctx, createBlackoutDate, arg.Division, arg.StartDate, arg.EndDate, arg.Reason)
	var b BlackoutDate
	err := row.Scan(&b.ID, &b.Division, &b.StartDate, &b.EndDate, &b.Reason)
	return b, err
}

const listBlackoutDatesByDivision = `
SELECT id, division, start_date, end_date, reason
FROM blackout_dates
WHERE division IS NULL OR division = ?
ORDER BY start_date
`

// ListBlackoutDatesByDivision returns league-wide blackouts plus those scoped
// to the given division.
func (q *Queries) ListBlackoutDatesByDivision(ctx context.Context, division string) ([]BlackoutDate, error) {
	rows, err := q.db.QueryContext(ctx, listBlackoutDatesByDivision, division)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var blackouts []BlackoutDate
	for rows.Next() {
		var b BlackoutDate
		if err := rows.Scan(&b.ID, &b.Division, &b.StartDate, &b.EndDate, &b.Reason); err != nil {
			return nil, err
		}
		blackouts = append(blackouts, b)
	}
	return blackouts, rows.Err()
}
