package models

import "time"

// PushSubscription is the single web push target of a principal.
type PushSubscription struct {
	ID          string    `bson:"_id,omitempty"`
	PrincipalID string    `bson:"userId"`
	Endpoint    string    `bson:"endpoint"`
	P256dh      string    `bson:"p256dh"`
	Auth        string    `bson:"auth"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}
