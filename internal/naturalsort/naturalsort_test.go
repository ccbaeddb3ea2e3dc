package naturalsort

import (
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"scene_2", "scene_10", -1},
		{"scene_10", "scene_2", 1},
		{"scene_1", "scene_1", 0},
		{"a", "b", -1},
		{"item9", "item10", -1},
		{"item10", "item9", 1},
		{"item", "item1", -1},
		{"10", "9", 1},
		{"", "", 0},
		{"", "a", -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLess(t *testing.T) {
	if !Less("scene_2", "scene_10") {
		t.Error("expected scene_2 to sort before scene_10")
	}
	if Less("scene_10", "scene_2") {
		t.Error("expected scene_10 to not sort before scene_2")
	}
}

func TestStrings(t *testing.T) {
	keys := []string{"item10", "item2", "item1", "item20"}
	Strings(keys)
	want := []string{"item1", "item2", "item10", "item20"}
	for i, k := range keys {
		if k != want[i] {
			t.Fatalf("Strings() = %v, want %v", keys, want)
		}
	}
}

func TestSortByKey(t *testing.T) {
	type named struct{ key string }
	items := []named{{"task10"}, {"task2"}, {"task1"}}
	SortByKey(items, func(n named) string { return n.key })
	want := []string{"task1", "task2", "task10"}
	for i, n := range items {
		if n.key != want[i] {
			t.Fatalf("SortByKey() = %v, want %v", items, want)
		}
	}
}
