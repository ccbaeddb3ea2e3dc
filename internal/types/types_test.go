package types

import "testing"

func TestItemStatusValid(t *testing.T) {
	valid := []ItemStatus{StatusPending, StatusInProgress, StatusCompleted, StatusFailed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ItemStatus("bogus").Valid() {
		t.Error("bogus status should not be valid")
	}
}

func TestDependencyTypeValidAndEnforced(t *testing.T) {
	if !DependencyBlocks.Enforced() || !DependencyRequires.Enforced() {
		t.Error("blocks and requires must be enforced")
	}
	if DependencyRelated.Enforced() {
		t.Error("related must not be enforced")
	}
	if !DependencyBlocks.Valid() || !DependencyRequires.Valid() || !DependencyRelated.Valid() {
		t.Error("all three dependency types should be valid")
	}
	if DependencyType("mentors").Valid() {
		t.Error("unknown dependency type should not be valid")
	}
}

func TestChildrenSummaryDerive(t *testing.T) {
	tests := []struct {
		name string
		s    ChildrenSummary
		want ItemStatus
	}{
		{"all pending", ChildrenSummary{Total: 3, Pending: 3}, StatusPending},
		{"all completed", ChildrenSummary{Total: 3, Completed: 3}, StatusCompleted},
		{"any failed wins", ChildrenSummary{Total: 3, Completed: 2, Failed: 1}, StatusFailed},
		{"mixed in progress", ChildrenSummary{Total: 3, Pending: 1, Completed: 1, InProgress: 1}, StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Derive(); got != tt.want {
				t.Errorf("Derive() = %v, want %v", got, tt.want)
			}
		})
	}
}
