package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var exerciseColumns = []string{
	"id", "slug", "name", "pattern", "goal", "difficulty", "equipment", "target_muscles", "tags",
	"binder_aware", "heavy_binding_safe", "pelvic_floor_safe", "contraindications",
	"post_op_safe_weeks", "default_reps", "duration_seconds", "rep_seconds", "catalog_order",
}

func TestPGCatalogQueryPushesFilterDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows(exerciseColumns).
		AddRow("ex-001", "bodyweight-squat", "Bodyweight Squat", "squat", "strength", "beginner",
			[]byte(`["bodyweight"]`), []byte(`["quads","glutes"]`), []byte(`["standing"]`),
			true, true, false, []byte(`[]`), nil, 12, 0, 3, 10).
		AddRow("ex-020", "band-pull-apart", "Band Pull-Apart", "pull", nil, nil,
			[]byte(`["band"]`), []byte(`["upper_back"]`), nil,
			true, true, true, nil, int64(8), 15, 0, 3, 200)

	mock.ExpectQuery("SELECT id, slug, name, pattern").
		WithArgs([]byte(`["bodyweight","band"]`), []byte(`["push"]`), []byte(`[]`)).
		WillReturnRows(rows)

	c := &PGCatalog{DB: db}
	got, err := c.Query(context.Background(), Filter{
		Equipment:       []string{"bodyweight", "band"},
		ExcludePatterns: []string{"push"},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ID != "ex-001" || len(got[0].TargetMuscles) != 2 || got[0].PostOpSafeWeeks != nil {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].PostOpSafeWeeks == nil || *got[1].PostOpSafeWeeks != 8 || got[1].Goal != "" || got[1].Tags != nil {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGCatalogUpsertRunsInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	weeks := 8
	exercises := []Exercise{
		{ID: "a", Slug: "a", Name: "A", Pattern: "squat", Equipment: []string{"bodyweight"}, CatalogOrder: 10},
		{ID: "b", Slug: "b", Name: "B", Pattern: "pull", Equipment: []string{"band"}, PostOpSafeWeeks: &weeks, CatalogOrder: 20},
	}

	mock.ExpectBegin()
	for range exercises {
		mock.ExpectExec("INSERT INTO exercises").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	c := &PGCatalog{DB: db}
	n, err := c.Upsert(context.Background(), exercises)
	if err != nil || n != 2 {
		t.Fatalf("Upsert = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGCatalogUpsertRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO exercises").WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	c := &PGCatalog{DB: db}
	if _, err := c.Upsert(context.Background(), []Exercise{{ID: "a", Slug: "a", Name: "A", Pattern: "core"}}); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
