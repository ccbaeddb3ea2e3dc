package proptag

import (
	"testing"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Urgent ": "urgent",
		"BLOCKED":   "blocked",
		"already":   "already",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNextColorAssignsPositionally(t *testing.T) {
	color, err := NextColor(nil)
	if err != nil {
		t.Fatalf("NextColor(nil) error = %v", err)
	}
	if color != types.Palette[0] {
		t.Errorf("first tag should get %q, got %q", types.Palette[0], color)
	}

	color, err = NextColor([]string{"a"})
	if err != nil {
		t.Fatalf("NextColor(1 existing) error = %v", err)
	}
	if color != types.Palette[1] {
		t.Errorf("second tag should get %q, got %q", types.Palette[1], color)
	}
}

func TestNextColorRejectsAtLimit(t *testing.T) {
	names := make([]string, types.MaxTags)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	_, err := NextColor(names)
	if err == nil {
		t.Fatal("expected tag limit error")
	}
	if apperr.KindOf(err) != apperr.TagLimit {
		t.Errorf("KindOf() = %v, want TagLimit", apperr.KindOf(err))
	}
}
