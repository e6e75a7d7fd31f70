// Package push delivers web push notifications through VAPID-signed
// requests to the subscriber's push service.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
)

var (
	// ErrGone means the push service no longer knows the subscription
	// (404 or 410); it should be deleted.
	ErrGone = errors.New("push subscription gone")
	// ErrNotConfigured is returned when VAPID keys are missing.
	ErrNotConfigured = errors.New("push delivery is not configured")
)

const (
	defaultTTL = 12 * 60 * 60
	icon       = "/icons/icon-192x192.png"
)

// Payload is the JSON body shown by the client as a notification.
type Payload struct {
	Title              string         `json:"title"`
	Body               string         `json:"body"`
	Icon               string         `json:"icon"`
	Badge              string         `json:"badge"`
	Tag                string         `json:"tag"`
	RequireInteraction bool           `json:"requireInteraction"`
	Data               map[string]any `json:"data"`
}

// Reminder is sent to principals who have not rated today.
func Reminder(today string) Payload {
	return Payload{
		Title: "Rate Your Day",
		Body:  "Don't forget to rate your day!",
		Icon:  icon,
		Badge: icon,
		Tag:   "daily-reminder",
		Data:  map[string]any{"url": "/", "dateContext": today},
	}
}

// Test is sent by the development-only test endpoint.
func Test(timestamp string) Payload {
	return Payload{
		Title: "Test Notification",
		Body:  "This is a test push notification from Rate Your Day!",
		Icon:  icon,
		Badge: icon,
		Tag:   "test-notification",
		Data:  map[string]any{"url": "/", "test": true, "timestamp": timestamp},
	}
}

// Target identifies one browser push subscription.
type Target struct {
	Endpoint string
	P256dh   string
	Auth     string
}

type Sender interface {
	Send(ctx context.Context, target Target, payload Payload) error
}

// DeliveryError reports a non-success answer of the push service.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push service responded %d: %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Is(target error) bool {
	return target == ErrGone && (e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone)
}

// WebPush sends notifications with webpush-go.
type WebPush struct {
	publicKey  string
	privateKey string
	subject    string
	client     webpush.HTTPClient
}

func NewWebPush(publicKey, privateKey, subject string) *WebPush {
	return &WebPush{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
		client:     http.DefaultClient,
	}
}

func (w *WebPush) Configured() bool {
	return w.publicKey != "" && w.privateKey != "" && w.subject != ""
}

func (w *WebPush) Send(ctx context.Context, target Target, payload Payload) error {
	if !w.Configured() {
		return ErrNotConfigured
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	sub := &webpush.Subscription{
		Endpoint: target.Endpoint,
		Keys:     webpush.Keys{P256dh: target.P256dh, Auth: target.Auth},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, message, sub, &webpush.Options{
		HTTPClient:      w.client,
		Subscriber:      w.subject,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             defaultTTL,
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
}
