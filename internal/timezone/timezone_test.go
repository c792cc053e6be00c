package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	if loc == nil {
		t.Fatal("expected a location")
	}
	if IsValid("Not/AZone") {
		t.Fatal("bogus zone reported valid")
	}
}

func TestDateDropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	in := time.Date(2025, 6, 2, 0, 30, 0, 0, loc)

	got := Date(in)
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestAtCombinesDateAndWallTime(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	got, err := At(date, "09:30", loc)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	want := time.Date(2025, 6, 2, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	if _, err := At(date, "9h", loc); err == nil {
		t.Fatal("expected parse error")
	}
}
