package models

// HistoryPoint is one sample of a price series. Label is pre-formatted
// for display (dd/MM).
type HistoryPoint struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}
