package toc

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/sysdesign/pkg/dom"
)

var headings = []Heading{
	{ID: "intro", Title: "Intro", Depth: 2, Line: 0},
	{ID: "state", Title: "State", Depth: 2, Line: 30},
	{ID: "controlled", Title: "Controlled", Depth: 3, Line: 45},
	{ID: "events", Title: "Events", Depth: 2, Line: 90},
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "intro"},
		{20, "intro"},
		{25, "state"}, // 25 + 20% of 25 = 30
		{40, "controlled"},
		{89, "events"},
		{200, "events"},
	}
	s := New(headings)
	for _, tt := range tests {
		s.Update(tt.offset, 25)
		if got := s.Active(); got != tt.want {
			t.Errorf("offset %d: active = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestUpdateKeepsPrevious(t *testing.T) {
	s := New([]Heading{{ID: "late", Line: 50}})
	if s.Update(0, 25) {
		t.Error("Update reported change with no qualifying heading")
	}
	if s.Active() != "" {
		t.Errorf("active = %q, want empty", s.Active())
	}
	s.Update(50, 25)
	s.Update(0, 25)
	if s.Active() != "late" {
		t.Errorf("active = %q, want previous value kept", s.Active())
	}
}

func TestSetHeadings(t *testing.T) {
	s := New(headings)
	s.Update(40, 25)
	moved := slices.Clone(headings)
	moved[2].Line = 60
	s.SetHeadings(moved)
	if s.Active() != "controlled" {
		t.Errorf("active = %q after relayout, want controlled", s.Active())
	}
	s.SetHeadings(headings[:2])
	if s.Active() != "" {
		t.Errorf("active = %q after heading vanished, want empty", s.Active())
	}
}

func TestJump(t *testing.T) {
	s := New(headings)
	var changes []string
	s.OnChange(func(id string) { changes = append(changes, id) })

	line, ok := s.Jump("#events")
	if !ok || line != 90 || s.Active() != "events" {
		t.Errorf("Jump = %d, %v active %q", line, ok, s.Active())
	}
	if _, ok := s.Jump("missing"); ok {
		t.Error("Jump to unknown id succeeded")
	}
	s.Jump("events")
	if strings.Join(changes, ",") != "events" {
		t.Errorf("changes = %v, want one", changes)
	}
}

func TestAttachFollowsScroll(t *testing.T) {
	doc := dom.New(80, 25)
	s := New(headings)
	s.Attach(doc)
	if s.Active() != "intro" {
		t.Fatalf("initial active = %q", s.Active())
	}
	doc.ScrollBy(0, 40)
	if s.Active() != "controlled" {
		t.Errorf("after scroll active = %q", s.Active())
	}
	s.Detach()
	if doc.TotalListeners() != 0 {
		t.Errorf("listeners after Detach = %d", doc.TotalListeners())
	}
}

func TestRender(t *testing.T) {
	s := New(headings)
	s.Jump("state")
	out := s.Render(30, DefaultStyles())
	if !strings.Contains(out, "TABLE OF CONTENTS") {
		t.Error("missing title")
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Controlled") && !strings.HasPrefix(line, "  ") {
			t.Errorf("depth-3 heading not indented: %q", line)
		}
	}
}
