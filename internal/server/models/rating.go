package models

import "time"

// Rating is the authoritative record of one day for one principal.
// (PrincipalID, Date) is unique.
type Rating struct {
	ID          string    `bson:"_id,omitempty"`
	PrincipalID string    `bson:"userId"`
	Date        string    `bson:"date"`
	Mood        int       `bson:"rating"`
	Notes       string    `bson:"notes,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}
