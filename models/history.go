package models

import (
	"time"
)

// HistoryDateLayout matches the dd/mm/yyyy hh:mm stamp shown in the history drawer
const HistoryDateLayout = "02/01/2006 15:04"

// HistoryItem is a persisted snapshot of one successful interpretation
type HistoryItem struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Preview      string    `json:"preview"`
	UserQuestion string    `json:"userQuestion,omitempty"`
	Result       string    `json:"result"`
	CreatedAt    time.Time `json:"created_at"`
}

// HistoryItems is an ordered list, newest first
type HistoryItems []HistoryItem

// Find returns the item with the given id
func (h HistoryItems) Find(id string) (HistoryItem, bool) {
	for _, item := range h {
		if item.ID == id {
			return item, true
		}
	}
	return HistoryItem{}, false
}

// Prepend returns a new list with item in front, truncated to limit entries.
// The receiver is not modified.
func (h HistoryItems) Prepend(item HistoryItem, limit int) HistoryItems {
	out := make(HistoryItems, 0, len(h)+1)
	out = append(out, item)
	out = append(out, h...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
