package scheduling

import (
	"context"
	"errors"
	"testing"

	"techmate/models"
	"techmate/utils"
)

func TestOverlaps(t *testing.T) {
	qs, qe := at(10, 0), at(12, 0)

	tests := []struct {
		name  string
		start int
		end   *int
		want  bool
	}{
		{"inside", 10*60 + 30, intp(11 * 60), true},
		{"covers window", 9 * 60, intp(13 * 60), true},
		{"starts before, ends inside", 9 * 60, intp(10*60 + 1), true},
		{"starts inside, ends after", 11*60 + 59, intp(14 * 60), true},
		{"ends exactly at window start", 8 * 60, intp(10 * 60), false},
		{"starts exactly at window end", 12 * 60, intp(13 * 60), false},
		{"entirely before", 7 * 60, intp(8 * 60), false},
		{"entirely after", 13 * 60, intp(14 * 60), false},
		{"open-ended starting before", 6 * 60, nil, true},
		{"open-ended starting at window end", 12 * 60, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := models.ScheduleInterval{StartTime: at(tt.start/60, tt.start%60)}
			if tt.end != nil {
				iv.EndTime = ptr(at(*tt.end/60, *tt.end%60))
			}
			if got := Overlaps(iv, qs, qe); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindConflictsOrderingAndFiltering(t *testing.T) {
	repo := &fakeScheduleRepo{intervals: []models.ScheduleInterval{
		{ID: "c", TechnicianID: "tech-1", StartTime: at(11, 0), EndTime: ptr(at(11, 30))},
		{ID: "a", TechnicianID: "tech-1", StartTime: at(9, 0), EndTime: ptr(at(10, 30))},
		{ID: "touching", TechnicianID: "tech-1", StartTime: at(8, 0), EndTime: ptr(at(10, 0))},
		{ID: "b", TechnicianID: "tech-1", StartTime: at(11, 0), EndTime: nil},
		{ID: "other", TechnicianID: "tech-2", StartTime: at(10, 0), EndTime: ptr(at(11, 0))},
	}}
	resolver := NewConflictResolver(repo)

	got, err := resolver.FindConflicts(context.Background(), "tech-1", at(10, 0), at(12, 0))
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d conflicts, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("conflict[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestFindConflictsRejectsInvertedWindow(t *testing.T) {
	resolver := NewConflictResolver(&fakeScheduleRepo{})

	for _, window := range [][2]int{{12, 10}, {10, 10}} {
		_, err := resolver.FindConflicts(context.Background(), "tech-1", at(window[0], 0), at(window[1], 0))
		if !errors.Is(err, utils.ErrInvalidRange) {
			t.Errorf("window %v: err = %v, want ErrInvalidRange", window, err)
		}
	}
}

func intp(v int) *int { return &v }
