package filter

import "testing"

func TestProjectNilReturnsDocUnchanged(t *testing.T) {
	doc := map[string]any{"a": 1.0, "b": 2.0}
	got := Project(doc, nil)
	if len(got) != 2 {
		t.Fatalf("expected doc unchanged, got %v", got)
	}
}

func TestProjectInclusion(t *testing.T) {
	doc := map[string]any{"a": 1.0, "b": 2.0, "c": 3.0}
	got := Project(doc, map[string]any{"a": 1.0})
	if len(got) != 1 {
		t.Fatalf("expected only 'a', got %v", got)
	}
	if got["a"] != 1.0 {
		t.Fatalf("expected a=1.0, got %v", got["a"])
	}
}

func TestProjectExclusion(t *testing.T) {
	doc := map[string]any{"a": 1.0, "b": 2.0, "c": 3.0}
	got := Project(doc, map[string]any{"b": 0.0})
	if len(got) != 2 {
		t.Fatalf("expected a and c, got %v", got)
	}
	if _, ok := got["b"]; ok {
		t.Fatal("expected b excluded")
	}
}

func TestProjectExclusionIgnoresIDField(t *testing.T) {
	projection := map[string]any{"_id": 0.0}
	if !isExclusionProjection(projection) {
		t.Fatal("a projection containing only _id:0 should be treated as exclusion")
	}
	doc := map[string]any{"_id": "x", "a": 1.0}
	got := Project(doc, projection)
	if _, ok := got["_id"]; ok {
		t.Fatal("expected _id excluded")
	}
	if got["a"] != 1.0 {
		t.Fatal("expected other fields to survive an _id-only exclusion")
	}
}

func TestProjectMissingFieldSkippedOnInclusion(t *testing.T) {
	doc := map[string]any{"a": 1.0}
	got := Project(doc, map[string]any{"a": 1.0, "b": 1.0})
	if len(got) != 1 {
		t.Fatalf("expected only the present field included, got %v", got)
	}
}
