package calendar

import "time"

// GridCells is the fixed size of a month view: six weeks of seven days, so
// every month renders the same height regardless of where it starts.
const GridCells = 6 * 7

// Day is one cell of the month grid.
type Day struct {
	Date    time.Time `json:"date"`
	InMonth bool      `json:"in_month"`
	IsToday bool      `json:"is_today"`
}

// MonthGrid computes the 42-cell grid for a month. Weeks start on Sunday;
// leading and trailing cells are filled from the adjacent months. today is
// compared at day precision in its own location.
func MonthGrid(year int, month time.Month, today time.Time) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	ty, tm, td := today.Date()

	cells := make([]Day, GridCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		y, m, dd := d.Date()
		cells[i] = Day{
			Date:    d,
			InMonth: m == month && y == year,
			IsToday: y == ty && m == tm && dd == td,
		}
	}
	return cells
}
