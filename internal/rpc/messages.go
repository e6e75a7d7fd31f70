package rpc

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// Rating is the wire form of one rated day. Notes is omitted when absent.
type Rating struct {
	Date      string    `json:"date"`
	Mood      int       `json:"rating"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpsertRatingRequest struct {
	Date  string `json:"date"`
	Mood  int    `json:"rating"`
	Notes string `json:"notes,omitempty"`
}

type UpsertRatingResponse struct {
	Rating Rating `json:"rating"`
}

type GetRatingRequest struct {
	Date string `json:"date"`
}

type GetRatingResponse struct {
	Rating Rating `json:"rating"`
}

type ListMonthRequest struct {
	Month string `json:"month"`
}

type ListMonthResponse struct {
	Month   string   `json:"month"`
	Ratings []Rating `json:"ratings"`
}

type DeleteRatingRequest struct {
	Date string `json:"date"`
}

type DeleteRatingResponse struct{}

type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type SubscribePushRequest struct {
	Endpoint string   `json:"endpoint"`
	Keys     PushKeys `json:"keys"`
}

type SubscribePushResponse struct{}

type UnsubscribePushRequest struct{}

type UnsubscribePushResponse struct{}

type SendTestPushRequest struct{}

type SendTestPushResponse struct {
	Delivered bool `json:"delivered"`
}

type ExportMonthRequest struct {
	Month string `json:"month"`
}

type ExportMonthResponse struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}
