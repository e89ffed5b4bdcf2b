package model

import "testing"

func TestNewDestination_DisplayName(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"Central Park, New York, NY", "Central Park"},
		{"Somewhere", "Somewhere"},
		{"", ""},
		{",leading comma", ""},
		{"One Infinite Loop, Cupertino, CA 95014", "One Infinite Loop"},
	}

	for _, tt := range tests {
		d := NewDestination(tt.address, Coordinate{})
		if d.DisplayName != tt.want {
			t.Errorf("NewDestination(%q).DisplayName = %q, want %q", tt.address, d.DisplayName, tt.want)
		}
		if d.Address != tt.address {
			t.Errorf("NewDestination(%q).Address = %q", tt.address, d.Address)
		}
	}
}

func TestPositionSnapshot_EqualByCoordinateOnly(t *testing.T) {
	a := PositionSnapshot{
		Coordinate:    Coordinate{Latitude: 40.7829, Longitude: -73.9654},
		Heading:       90,
		Place:         "Midtown",
		ElevationFeet: 33,
	}
	b := PositionSnapshot{
		Coordinate:    Coordinate{Latitude: 40.7829, Longitude: -73.9654},
		Heading:       270,
		Place:         "stale label",
		ElevationFeet: 0,
	}

	if !a.Equal(b) {
		t.Error("snapshots with equal coordinates should be equal")
	}

	b.Coordinate.Latitude += 0.0001
	if a.Equal(b) {
		t.Error("snapshots with different coordinates should not be equal")
	}
}

func TestDirectionForHeading(t *testing.T) {
	tests := []struct {
		heading float64
		want    Direction
	}{
		{0, North},
		{22.4, North},
		{22.5, Northeast},
		{45, Northeast},
		{90, East},
		{135, Southeast},
		{180, South},
		{225, Southwest},
		{270, West},
		{315, Northwest},
		{337.4, Northwest},
		{337.5, North},
		{359.9, North},
		{360, North},
		{-45, Northwest},
	}

	for _, tt := range tests {
		if got := DirectionForHeading(tt.heading); got != tt.want {
			t.Errorf("DirectionForHeading(%f) = %s, want %s", tt.heading, got, tt.want)
		}
	}
}

func TestHistory_Push_DeduplicatesAndBounds(t *testing.T) {
	h := NewHistory(5)
	for _, addr := range []string{"A", "B", "A", "C", "D", "E"} {
		h.Push(NewDestination(addr, Coordinate{}))
	}

	got := h.Entries()
	want := []string{"E", "D", "C", "A", "B"}
	if len(got) != len(want) {
		t.Fatalf("history has %d entries, want %d", len(got), len(want))
	}
	for i, addr := range want {
		if got[i].Address != addr {
			t.Errorf("entry %d = %q, want %q", i, got[i].Address, addr)
		}
	}
}

func TestHistory_Push_DropsOldest(t *testing.T) {
	h := NewHistory(5)
	for _, addr := range []string{"1", "2", "3", "4", "5", "6"} {
		h.Push(NewDestination(addr, Coordinate{}))
	}

	got := h.Entries()
	if len(got) != 5 {
		t.Fatalf("history has %d entries, want 5", len(got))
	}
	if got[0].Address != "6" || got[4].Address != "2" {
		t.Errorf("unexpected order: first %q last %q", got[0].Address, got[4].Address)
	}
}

func TestHistory_Replace(t *testing.T) {
	h := NewHistory(5)
	h.Replace([]Destination{
		NewDestination("A", Coordinate{}),
		NewDestination("B", Coordinate{}),
		NewDestination("A", Coordinate{}),
	})

	got := h.Entries()
	if len(got) != 2 {
		t.Fatalf("history has %d entries, want 2", len(got))
	}
	if got[0].Address != "A" || got[1].Address != "B" {
		t.Errorf("unexpected order: %q, %q", got[0].Address, got[1].Address)
	}
}

func TestHistory_EntriesIsCopy(t *testing.T) {
	h := NewHistory(5)
	h.Push(NewDestination("A", Coordinate{}))

	entries := h.Entries()
	entries[0].Address = "mutated"

	if h.Entries()[0].Address != "A" {
		t.Error("Entries() should return a copy")
	}
}
