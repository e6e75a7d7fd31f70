// Package common contains constants, sentinel errors and the rating rules
// shared by the rateday client and server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SyncTag is the only background sync registration tag the retry agent
// reacts to.
const SyncTag = "sync-ratings"

// MaxNotesLength is the maximum length of rating notes, in code points.
const MaxNotesLength = 280

// DateLayout and MonthLayout are the wire formats of calendar days and months.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)
