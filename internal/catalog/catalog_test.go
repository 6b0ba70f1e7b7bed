package catalog

import (
	"context"
	"strings"
	"testing"
)

func TestDefaultCatalogIsOrderedAndUnique(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	all, err := c.Query(context.Background(), Filter{Equipment: []string{"bodyweight", "db", "kb", "band", "bench", "step", "bike"}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != c.Len() {
		t.Fatalf("expected full equipment set to match every exercise, got %d of %d", len(all), c.Len())
	}
	seen := map[string]bool{}
	for i, e := range all {
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
		if i > 0 && all[i-1].CatalogOrder > e.CatalogOrder {
			t.Fatalf("catalog order broken at %s", e.ID)
		}
		if len(e.Equipment) == 0 {
			t.Fatalf("exercise %s has no equipment", e.ID)
		}
	}
}

func TestMemoryQueryFilters(t *testing.T) {
	c := NewMemoryCatalog([]Exercise{
		{ID: "b", Pattern: "push", Equipment: []string{"bodyweight"}, Tags: []string{"chest_focus"}, CatalogOrder: 20},
		{ID: "a", Pattern: "squat", Equipment: []string{"bodyweight"}, CatalogOrder: 10},
		{ID: "c", Pattern: "pull", Equipment: []string{"db", "bench"}, CatalogOrder: 30},
		{ID: "d", Pattern: "pull", Equipment: []string{"band"}, Tags: []string{"back_focus"}, CatalogOrder: 30},
	})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "bodyweight only", filter: Filter{Equipment: []string{"bodyweight"}}, want: []string{"a", "b"}},
		{name: "subset required", filter: Filter{Equipment: []string{"bodyweight", "db"}}, want: []string{"a", "b"}},
		{name: "full kit ties by id", filter: Filter{Equipment: []string{"bodyweight", "db", "bench", "band"}}, want: []string{"a", "b", "c", "d"}},
		{name: "pattern excluded", filter: Filter{Equipment: []string{"bodyweight", "band"}, ExcludePatterns: []string{"push"}}, want: []string{"a", "d"}},
		{name: "tag excluded", filter: Filter{Equipment: []string{"bodyweight", "band"}, ExcludeTags: []string{"chest_focus", "unused"}}, want: []string{"a", "d"}},
		{name: "no equipment", filter: Filter{}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Query(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestMemoryQueryHonorsContext(t *testing.T) {
	c := NewMemoryCatalog(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Query(ctx, Filter{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestMemoryUpsertReplacesByID(t *testing.T) {
	c := NewMemoryCatalog([]Exercise{{ID: "a", Name: "old", Equipment: []string{"bodyweight"}, CatalogOrder: 10}})
	n, err := c.Upsert(context.Background(), []Exercise{
		{ID: "a", Name: "new", Equipment: []string{"bodyweight"}, CatalogOrder: 10},
		{ID: "b", Name: "added", Equipment: []string{"bodyweight"}, CatalogOrder: 5},
	})
	if err != nil || n != 2 {
		t.Fatalf("Upsert = %d, %v", n, err)
	}
	got, _ := c.Query(context.Background(), Filter{Equipment: []string{"bodyweight"}})
	if len(got) != 2 || got[0].ID != "b" || got[1].Name != "new" {
		t.Fatalf("unexpected catalog: %+v", got)
	}
}

func TestRegionAndFocus(t *testing.T) {
	tests := []struct {
		muscles []string
		region  string
	}{
		{[]string{"chest", "triceps"}, RegionUpper},
		{[]string{"glutes", "core"}, RegionLower},
		{[]string{"abs"}, RegionCore},
		{[]string{"quads", "shoulders"}, RegionFullBody},
		{nil, RegionFullBody},
	}
	for _, tt := range tests {
		e := Exercise{TargetMuscles: tt.muscles}
		if got := e.Region(); got != tt.region {
			t.Fatalf("Region(%v) = %s, want %s", tt.muscles, got, tt.region)
		}
	}

	e := Exercise{TargetMuscles: []string{"glutes", "hamstrings"}}
	if !e.MatchesFocus("lower_body") || !e.MatchesFocus("Legs") || !e.MatchesFocus("glutes") {
		t.Fatalf("expected lower body focus to match")
	}
	if e.MatchesFocus("upper_body") || e.MatchesFocus("chest") {
		t.Fatalf("unexpected focus match")
	}
}

func TestNormalizeEquipment(t *testing.T) {
	tests := map[string]string{
		"Body Weight":          "bodyweight",
		"":                     "bodyweight",
		"DUMBBELL":             "db",
		"kettlebell":           "kb",
		"olympic barbell":      "barbell",
		"smith machine":        "barbell",
		"ez bar":               "barbell",
		"resistance band":      "band",
		"bench":                "bench",
		"plyo box":             "step",
		"cable":                "cable",
		"leverage machine":     "machine",
		"upper body ergometer": "bike",
		"treadmill":            "treadmill",
		"sled machine":         "machine",
		"stability ball":       "bodyweight",
	}
	for raw, want := range tests {
		if got := NormalizeEquipment(raw); got != want {
			t.Fatalf("NormalizeEquipment(%q) = %q, want %q", raw, got, want)
		}
	}
	list := NormalizeEquipmentList([]string{"dumbbell", "DB", "body weight"})
	if strings.Join(list, ",") != "db,bodyweight" {
		t.Fatalf("NormalizeEquipmentList = %v", list)
	}
}

func TestParseCSV(t *testing.T) {
	const doc = `slug,name,pattern,goal,equipment,difficulty,binder_aware,heavy_binding_safe,pelvic_floor_safe,contraindications,target_muscles,dysphoria_tags,post_op_safe_weeks,default_reps
goblet-squat,Goblet Squat,Squat,strength,"['dumbbell']",beginner,TRUE,true,0,[],"Quads, Glutes","['lower_body_focus']",,10
band-row,Band Row,pull,strength,"[""resistance band""]",beginner,yes,1,1,"[""shoulder impingement""]",back,back_focus,8,12
,Missing Slug,core,,,,,,,,,,,
bad-weeks,Bad Weeks,core,,,,,,,,,,soon,
no-pattern,No Pattern,,,,,,,,,,,,
`
	exercises, rowErrs, err := ParseCSV(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(exercises))
	}
	if len(rowErrs) != 3 {
		t.Fatalf("expected 3 row errors, got %v", rowErrs)
	}
	if rowErrs[0].Line != 4 {
		t.Fatalf("expected first bad row on line 4, got %d", rowErrs[0].Line)
	}

	squat := exercises[0]
	if squat.ID != "goblet-squat" || squat.Pattern != "squat" {
		t.Fatalf("unexpected squat: %+v", squat)
	}
	if strings.Join(squat.Equipment, ",") != "db" || !squat.BinderAware || !squat.HeavyBindingSafe || squat.PelvicFloorSafe {
		t.Fatalf("unexpected squat flags: %+v", squat)
	}
	if strings.Join(squat.TargetMuscles, ",") != "quads,glutes" || strings.Join(squat.Tags, ",") != "lower_body_focus" {
		t.Fatalf("unexpected squat lists: %+v", squat)
	}
	if squat.PostOpSafeWeeks != nil || squat.DefaultReps != 10 || squat.CatalogOrder != 10 {
		t.Fatalf("unexpected squat numbers: %+v", squat)
	}

	row := exercises[1]
	if strings.Join(row.Equipment, ",") != "band" || row.PostOpSafeWeeks == nil || *row.PostOpSafeWeeks != 8 {
		t.Fatalf("unexpected band row: %+v", row)
	}
	if len(row.Contraindications) != 1 || row.Contraindications[0] != "shoulder impingement" {
		t.Fatalf("unexpected contraindications: %v", row.Contraindications)
	}
}

func TestParseCSVRequiresHeaders(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("slug,name\nx,y\n"))
	if err == nil || !strings.Contains(err.Error(), "pattern") {
		t.Fatalf("expected missing pattern column error, got %v", err)
	}
}
