package models

import "time"

// CalendarEvent is the read-side shape of one scheduled or published item.
// ItemID points back at the source content item.
type CalendarEvent struct {
	ItemID string    `json:"item_id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Color  string    `json:"color"`
}
