package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGCatalog implements Provider using Postgres.
type PGCatalog struct {
	DB *sql.DB
}

// Query pushes the equipment, pattern and tag predicates down to SQL.
func (c *PGCatalog) Query(ctx context.Context, f Filter) ([]Exercise, error) {
	const query = `
SELECT id, slug, name, pattern, goal, difficulty, equipment, target_muscles, tags,
       binder_aware, heavy_binding_safe, pelvic_floor_safe, contraindications,
       post_op_safe_weeks, default_reps, duration_seconds, rep_seconds, catalog_order
FROM exercises
WHERE equipment <@ $1::jsonb
  AND NOT ($2::jsonb ? pattern)
  AND NOT (tags ?| ARRAY(SELECT jsonb_array_elements_text($3::jsonb)))
ORDER BY catalog_order ASC, id ASC`

	equipment, err := marshalList(f.Equipment)
	if err != nil {
		return nil, err
	}
	patterns, err := marshalList(f.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	tags, err := marshalList(f.ExcludeTags)
	if err != nil {
		return nil, err
	}

	rows, err := c.DB.QueryContext(ctx, query, equipment, patterns, tags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert writes exercises in one transaction, replacing rows with the same ID.
func (c *PGCatalog) Upsert(ctx context.Context, exercises []Exercise) (int, error) {
	const query = `
INSERT INTO exercises (
	id, slug, name, pattern, goal, difficulty, equipment, target_muscles, tags,
	binder_aware, heavy_binding_safe, pelvic_floor_safe, contraindications,
	post_op_safe_weeks, default_reps, duration_seconds, rep_seconds, catalog_order
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
ON CONFLICT (id) DO UPDATE SET
	slug = EXCLUDED.slug,
	name = EXCLUDED.name,
	pattern = EXCLUDED.pattern,
	goal = EXCLUDED.goal,
	difficulty = EXCLUDED.difficulty,
	equipment = EXCLUDED.equipment,
	target_muscles = EXCLUDED.target_muscles,
	tags = EXCLUDED.tags,
	binder_aware = EXCLUDED.binder_aware,
	heavy_binding_safe = EXCLUDED.heavy_binding_safe,
	pelvic_floor_safe = EXCLUDED.pelvic_floor_safe,
	contraindications = EXCLUDED.contraindications,
	post_op_safe_weeks = EXCLUDED.post_op_safe_weeks,
	default_reps = EXCLUDED.default_reps,
	duration_seconds = EXCLUDED.duration_seconds,
	rep_seconds = EXCLUDED.rep_seconds,
	catalog_order = EXCLUDED.catalog_order,
	updated_at = now()`

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, e := range exercises {
		equipment, err := marshalList(e.Equipment)
		if err != nil {
			return 0, err
		}
		muscles, err := marshalList(e.TargetMuscles)
		if err != nil {
			return 0, err
		}
		tags, err := marshalList(e.Tags)
		if err != nil {
			return 0, err
		}
		contraindications, err := marshalList(e.Contraindications)
		if err != nil {
			return 0, err
		}
		var postOp sql.NullInt64
		if e.PostOpSafeWeeks != nil {
			postOp = sql.NullInt64{Int64: int64(*e.PostOpSafeWeeks), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query,
			e.ID,
			e.Slug,
			e.Name,
			e.Pattern,
			e.Goal,
			e.Difficulty,
			equipment,
			muscles,
			tags,
			e.BinderAware,
			e.HeavyBindingSafe,
			e.PelvicFloorSafe,
			contraindications,
			postOp,
			e.DefaultReps,
			e.DurationSeconds,
			e.RepSeconds,
			e.CatalogOrder,
		); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(exercises), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (Exercise, error) {
	var e Exercise
	var goal, difficulty sql.NullString
	var equipment, muscles, tags, contraindications []byte
	var postOp sql.NullInt64
	if err := row.Scan(
		&e.ID,
		&e.Slug,
		&e.Name,
		&e.Pattern,
		&goal,
		&difficulty,
		&equipment,
		&muscles,
		&tags,
		&e.BinderAware,
		&e.HeavyBindingSafe,
		&e.PelvicFloorSafe,
		&contraindications,
		&postOp,
		&e.DefaultReps,
		&e.DurationSeconds,
		&e.RepSeconds,
		&e.CatalogOrder,
	); err != nil {
		return Exercise{}, err
	}
	e.Goal = goal.String
	e.Difficulty = difficulty.String
	if postOp.Valid {
		weeks := int(postOp.Int64)
		e.PostOpSafeWeeks = &weeks
	}
	for _, field := range []struct {
		raw  []byte
		dest *[]string
	}{
		{equipment, &e.Equipment},
		{muscles, &e.TargetMuscles},
		{tags, &e.Tags},
		{contraindications, &e.Contraindications},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return Exercise{}, err
		}
	}
	return e, nil
}

func marshalList(values []string) ([]byte, error) {
	if values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(values)
}
