package entities

import "time"

// ImportBatch records one import run against the store.
type ImportBatch struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Types     int       `json:"types"`
	Items     int       `json:"items"`
	Systems   int       `json:"solar_systems"`
	CreatedAt time.Time `json:"created_at"`
}
