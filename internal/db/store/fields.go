package store

import "context"

const createField = `
INSERT INTO fields (key, name)
VALUES (?, ?)
RETURNING id, key, name, created_at
`

type CreateFieldParams struct {
	Key  string
	Name string
}

func (q *Queries) CreateField(ctx context.Context, arg CreateFieldParams) (Field, error) {
	row := q.db.QueryRowContext(ctx, createField, arg.Key, arg.Name)
	var f Field
	err := row.Scan(&f.ID, &f.Key, &f.Name, &f.CreatedAt)
	return f, err
}

const getFieldByKey = `
SELECT id, key, name, created_at
FROM fields WHERE key = ?
`

func (q *Queries) GetFieldByKey(ctx context.Context, key string) (Field, error) {
	row := q.db.QueryRowContext(ctx, getFieldByKey, key)
	var f Field
	err := row.Scan(&f.ID, &f.Key, &f.Name, &f.CreatedAt)
	return f, err
}

const listFields = `
SELECT id, key, name, created_at
FROM fields ORDER BY key
`

func (q *Queries) ListFields(ctx context.Context) ([]Field, error) {
	rows, err := q.db.QueryContext(ctx, listFields)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fields []Field
	for rows.Next() {
		var f Field
		if err := rows.Scan(&f.ID, &f.Key, &f.Name, &f.CreatedAt); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
