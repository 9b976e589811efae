package models

import "time"

// Hospital represents a feeding site served by the central kitchen. Only
// hospitals with Active set are eligible for production entry this cycle.
type Hospital struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	Contact   string    `json:"contact,omitempty" bson:"contact,omitempty"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// FilterActive returns the subset of hospitals with Active set, order preserved.
func FilterActive(hospitals []Hospital) []Hospital {
	active := make([]Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		if h.Active {
			active = append(active, h)
		}
	}
	return active
}
