package models

// DateLayout is the calendar-day format used for ledger dates.
const DateLayout = "2006-01-02"

// DaySnapshot holds the per-country article counts observed on one day.
type DaySnapshot struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
}

// History is the rolling ledger of daily snapshots, ordered by date.
type History struct {
	Days []DaySnapshot `json:"days"`
}
