// Package client is the network side of the rateday client: a Client
// interface over the rating service and its gRPC implementation.
//
// Transport failures are folded into a few sentinel errors so callers can
// decide between queueing a write (ErrUnavailable, ErrServer) and
// reporting it (ErrRejected, ErrUnauthorized).
package client
