package value

import "testing"

func TestGetAbsent(t *testing.T) {
	doc := map[string]any{"a": 1.0}
	if _, ok := Get(doc, "b").(Absent); !ok {
		t.Fatalf("expected Absent for missing field")
	}
	if v := Get(doc, "a"); v != 1.0 {
		t.Fatalf("got %v, want 1.0", v)
	}
}

func TestEqualAbsentNeverEqual(t *testing.T) {
	if Equal(Absent{}, Absent{}) {
		t.Fatal("Absent must never equal Absent")
	}
	if Equal(Absent{}, nil) {
		t.Fatal("Absent must never equal nil")
	}
}

func TestCompareTotalOrderAcrossTypes(t *testing.T) {
	cases := []struct {
		a, b any
	}{
		{nil, false},
		{false, true},
		{true, 1.0},
		{1.0, "a"},
		{"a", []any{1.0}},
		{[]any{1.0}, map[string]any{"x": 1.0}},
	}
	for _, c := range cases {
		if Compare(c.a, c.b) >= 0 {
			t.Errorf("Compare(%#v, %#v) should be negative", c.a, c.b)
		}
		if Compare(c.b, c.a) <= 0 {
			t.Errorf("Compare(%#v, %#v) should be positive", c.b, c.a)
		}
	}
}

func TestCompareNumericCrossType(t *testing.T) {
	if Compare(1.0, 2.0) >= 0 {
		t.Fatal("1 should be less than 2")
	}
	if Compare(3, float64(3)) != 0 {
		t.Fatal("an int and an equal float should compare 0")
	}
}

func TestCompareLists(t *testing.T) {
	a := []any{1.0, 2.0}
	b := []any{1.0, 3.0}
	if Compare(a, b) >= 0 {
		t.Fatal("expected a < b by second element")
	}
	if Compare(a, []any{1.0}) <= 0 {
		t.Fatal("longer list with equal prefix should be greater")
	}
}

func TestCloneDocDeepCopies(t *testing.T) {
	doc := map[string]any{"nested": map[string]any{"x": 1.0}, "list": []any{1.0, 2.0}}
	clone := CloneDoc(doc)

	clone["nested"].(map[string]any)["x"] = 99.0
	clone["list"].([]any)[0] = 99.0

	if doc["nested"].(map[string]any)["x"] != 1.0 {
		t.Fatal("mutating clone's nested map affected original")
	}
	if doc["list"].([]any)[0] != 1.0 {
		t.Fatal("mutating clone's list affected original")
	}
}
