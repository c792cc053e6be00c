package booking

import (
	"testing"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
)

func TestTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && !httperr.IsBusiness(err, CodeInvalidState) {
			t.Errorf("%s -> %s: expected invalid_state, got %v", tc.from, tc.to, err)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for from, next := range transitions {
		if IsTerminal(from) && len(next) != 0 {
			t.Errorf("terminal status %s has transitions %v", from, next)
		}
		if !IsTerminal(from) && len(next) == 0 {
			t.Errorf("status %s is stuck", from)
		}
	}
}

func TestUnknownStatusIsNeitherTerminalNorActive(t *testing.T) {
	s := Status("archived")
	if IsTerminal(s) {
		t.Error("unknown status reported terminal")
	}
	if IsActive(s) {
		t.Error("unknown status reported active")
	}
	if !IsActive(StatusCompleted) || IsActive(StatusCancelled) {
		t.Error("completed must hold capacity and cancelled must not")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("confirmed"); err != nil || s != StatusConfirmed {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := ParseStatus("approved"); !httperr.IsBusiness(err, CodeInvalidStatus) {
		t.Fatalf("expected invalid_status, got %v", err)
	}
}

func TestParseWeekday(t *testing.T) {
	w, err := ParseWeekday(" Monday ")
	if err != nil || w != Monday {
		t.Fatalf("got %q, %v", w, err)
	}
	if w.Time().String() != "Monday" {
		t.Fatalf("time weekday = %s", w.Time())
	}
	if _, err := ParseWeekday("mon"); err == nil {
		t.Fatal("expected error for abbreviation")
	}
}
