// Package cli is the interactive rateday client.
//
// It wires configuration, the local store, the gRPC client, the retry
// agent and the presentation state, then hands the terminal to either the
// REPL or the TUI. Typical flow: read the access token, start the
// connectivity watcher and the agent, and execute user commands.
//
// Ratings are saved immediately when the server is reachable and queued
// locally otherwise; queued ratings are sent by the agent as soon as the
// connection is back.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, runREPL and the commands in commands.go for details.
package cli
