package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new plan. Days and warnings are stored as JSONB.
func (r *PGRepo) Create(ctx context.Context, plan Plan) error {
	const query = `
INSERT INTO plans (
	id, user_id, block_length, start_date, goals, goal_weighting, quick_start,
	config_version, days, warnings, created_at
)
VALUES ($1, $2, $3, $4::date, $5::jsonb, $6::jsonb, $7, $8, $9::jsonb, $10::jsonb, $11)`

	goals, err := marshalJSONB(plan.Goals, "[]")
	if err != nil {
		return err
	}
	weighting, err := marshalJSONB(plan.GoalWeighting, "{}")
	if err != nil {
		return err
	}
	days, err := marshalJSONB(plan.Days, "[]")
	if err != nil {
		return err
	}
	warnings, err := marshalJSONB(plan.Warnings, "[]")
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		plan.ID,
		plan.UserID,
		plan.BlockLength,
		plan.StartDate,
		goals,
		weighting,
		plan.QuickStart,
		plan.ConfigVersion,
		days,
		warnings,
		plan.CreatedAt,
	)
	return err
}

// GetByID returns a plan by ID.
func (r *PGRepo) GetByID(ctx context.Context, planID string) (Plan, error) {
	const query = `
SELECT id, user_id, block_length, to_char(start_date, 'YYYY-MM-DD'), goals, goal_weighting,
       quick_start, config_version, days, warnings, created_at
FROM plans
WHERE id = $1::uuid
LIMIT 1`

	var p Plan
	var goals, weighting, days, warnings []byte
	var configVersion sql.NullString
	err := r.DB.QueryRowContext(ctx, query, planID).Scan(
		&p.ID,
		&p.UserID,
		&p.BlockLength,
		&p.StartDate,
		&goals,
		&weighting,
		&p.QuickStart,
		&configVersion,
		&days,
		&warnings,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Plan{}, ErrNotFound
		}
		return Plan{}, err
	}
	p.ConfigVersion = configVersion.String
	if err := unmarshalJSONB(goals, &p.Goals); err != nil {
		return Plan{}, err
	}
	if err := unmarshalJSONB(weighting, &p.GoalWeighting); err != nil {
		return Plan{}, err
	}
	if err := unmarshalJSONB(days, &p.Days); err != nil {
		return Plan{}, err
	}
	if err := unmarshalJSONB(warnings, &p.Warnings); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// ListByUser returns plan summaries for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	const query = `
SELECT id, block_length, to_char(start_date, 'YYYY-MM-DD'), goals, quick_start, config_version,
       jsonb_array_length(days), created_at
FROM plans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		var goals []byte
		var configVersion sql.NullString
		if err := rows.Scan(&s.ID, &s.BlockLength, &s.StartDate, &goals, &s.QuickStart, &configVersion, &s.DayCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.ConfigVersion = configVersion.String
		if err := unmarshalJSONB(goals, &s.Goals); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalJSONB(value any, empty string) ([]byte, error) {
	if value == nil {
		return []byte(empty), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte(empty), nil
	}
	return data, nil
}

func unmarshalJSONB(data []byte, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
