package calendar

import (
	"testing"
	"time"
)

func TestMonthGridShape(t *testing.T) {
	// March 2026 starts on a Sunday and has 31 days.
	grid := MonthGrid(2026, time.March, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	if len(grid) != GridCells {
		t.Fatalf("expected %d cells, got %d", GridCells, len(grid))
	}
	if !grid[0].InMonth || grid[0].Date.Day() != 1 {
		t.Fatalf("march 2026 should start at cell 0, got %+v", grid[0])
	}
	if !grid[30].InMonth || grid[30].Date.Day() != 31 {
		t.Fatalf("cell 30 should be march 31, got %+v", grid[30])
	}
	if grid[31].InMonth || grid[31].Date.Day() != 1 || grid[31].Date.Month() != time.April {
		t.Fatalf("cell 31 should be trailing april 1, got %+v", grid[31])
	}

	var todays int
	for _, d := range grid {
		if d.IsToday {
			todays++
			if d.Date.Day() != 14 {
				t.Fatalf("wrong today cell: %+v", d)
			}
		}
	}
	if todays != 1 {
		t.Fatalf("expected exactly one today cell, got %d", todays)
	}
}

func TestMonthGridLeadingOffset(t *testing.T) {
	// July 2026 starts on a Wednesday: three leading June days.
	grid := MonthGrid(2026, time.July, time.Time{})

	for i := 0; i < 3; i++ {
		if grid[i].InMonth || grid[i].Date.Month() != time.June {
			t.Fatalf("cell %d should be leading june day, got %+v", i, grid[i])
		}
	}
	if !grid[3].InMonth || grid[3].Date.Day() != 1 {
		t.Fatalf("cell 3 should be july 1, got %+v", grid[3])
	}
	if grid[2].Date.Day() != 30 {
		t.Fatalf("cell 2 should be june 30, got %+v", grid[2])
	}
}

func TestMonthGridFebruary(t *testing.T) {
	// February 2026 starts on a Sunday and has 28 days: trailing cells begin
	// right after day 28.
	grid := MonthGrid(2026, time.February, time.Time{})
	if !grid[27].InMonth || grid[27].Date.Day() != 28 {
		t.Fatalf("cell 27 should be feb 28, got %+v", grid[27])
	}
	if grid[28].InMonth || grid[28].Date.Month() != time.March {
		t.Fatalf("cell 28 should be trailing march day, got %+v", grid[28])
	}
}
